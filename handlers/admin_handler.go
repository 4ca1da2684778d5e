package handlers

import (
	"net/http"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/services"
)

type AdminPlayerHandler struct {
	playerService services.PlayerService
}

func NewAdminPlayerHandler(s services.PlayerService) *AdminPlayerHandler {
	return &AdminPlayerHandler{playerService: s}
}

func (h *AdminPlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.PlayerFilter{
		Search: q.Get("search"),
		Page:   toInt(q.Get("page"), 1),
		Limit:  toInt(q.Get("limit"), 20),
	}
	res, err := h.playerService.ListPlayers(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, res)
}

func (h *AdminPlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.playerService.DeletePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/eulark/eulark-site/middleware"
	"github.com/eulark/eulark-site/services"
)

// PlayerHandler serves the logged-in player's own account. The player id
// always comes from the token.
type PlayerHandler struct {
	playerService services.PlayerService
}

func NewPlayerHandler(s services.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: s}
}

func (h *PlayerHandler) Status(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.PlayerIDFromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	status, err := h.playerService.Status(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, status)
}

// Checkin godoc
// @Summary Daily check-in
// @Description Awards the daily reward once per UTC day.
// @Tags player
// @Produce json
// @Success 200 {object} models.CheckinResult
// @Failure 400 {object} map[string]string "already checked in today"
// @Security BearerAuth
// @Router /player/checkin [post]
func (h *PlayerHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.PlayerIDFromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	res, err := h.playerService.Checkin(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, res)
}

func (h *PlayerHandler) CheckPermission(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.PlayerIDFromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	ok, err := h.playerService.HasSpecialPermission(r.Context(), playerID)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"hasPermission": ok})
}

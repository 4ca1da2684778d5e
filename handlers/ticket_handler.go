package handlers

import (
	"net/http"

	"github.com/eulark/eulark-site/middleware"
	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/services"
)

type TicketHandler struct {
	ticketService services.TicketService
}

func NewTicketHandler(s services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: s}
}

// Submit godoc
// @Summary Send a message to the server staff
// @Description The ticket author and email are taken from the token, never from the body.
// @Tags tickets
// @Accept json
// @Produce json
// @Param body body object true "{\"message\": \"...\"}"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /contact [post]
func (h *TicketHandler) Submit(w http.ResponseWriter, r *http.Request) {
	playerID, err := middleware.PlayerIDFromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var input struct {
		Message string `json:"message"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	msg, err := h.ticketService.Submit(r.Context(), playerID, input.Message)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"message": "Message sent", "data": msg})
}

// List godoc
// @Summary List tickets, newest first
// @Tags tickets
// @Produce json
// @Param status query string false "open, read or closed"
// @Success 200 {array} models.ContactMessage
// @Security BearerAuth
// @Router /admin/messages [get]
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.ticketService.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, msgs)
}

func (h *TicketHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		Status models.MessageStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	msg, err := h.ticketService.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"message": "Ticket updated", "data": msg})
}

func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.ticketService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"message": "Ticket deleted"})
}

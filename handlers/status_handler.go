package handlers

import (
	"net/http"

	"github.com/eulark/eulark-site/services"
)

type StatusHandler struct {
	statusService services.StatusService
}

func NewStatusHandler(s services.StatusService) *StatusHandler {
	return &StatusHandler{statusService: s}
}

// ServerStatus godoc
// @Summary Game server status
// @Description Cached for 30 seconds. An unreachable upstream reports the server offline.
// @Tags status
// @Produce json
// @Success 200 {object} models.ServerStatus
// @Router /server-status [get]
func (h *StatusHandler) ServerStatus(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, h.statusService.Current(r.Context()))
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, jsonResponse{"status": "ok"})
}

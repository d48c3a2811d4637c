package handler

import (
	"net/http"

	"github.com/smarthome-panel/internal/application/command"
	"github.com/smarthome-panel/internal/domain"
)

// CommandHandler handles device command endpoints.
type CommandHandler struct {
	svc command.Service
}

func NewCommandHandler(svc command.Service) *CommandHandler { return &CommandHandler{svc: svc} }

func (h *CommandHandler) Publish(w http.ResponseWriter, r *http.Request) {
	var req domain.CommandRequest
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, err)
		return
	}
	res, err := h.svc.Dispatch(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CommandEnvelope{Message: "Published successfully", ID: res.ID, Topic: res.Topic})
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/smarthome-panel/internal/application/devicestate"
	"github.com/smarthome-panel/internal/domain"
)

// DeviceStatusHandler handles device-state lookup and ingestion.
type DeviceStatusHandler struct {
	svc devicestate.Service
}

func NewDeviceStatusHandler(svc devicestate.Service) *DeviceStatusHandler {
	return &DeviceStatusHandler{svc: svc}
}

// Get serves both /device-status?deviceId= and /device-status/{deviceId}.
func (h *DeviceStatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceId")
	if deviceID == "" {
		deviceID = r.URL.Query().Get("deviceId")
	}
	st, err := h.svc.Latest(r.Context(), deviceID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Ingest accepts a state event posted directly instead of through the broker.
func (h *DeviceStatusHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var ev domain.StateEvent
	if err := decodeJSON(r, &ev); err != nil {
		httpError(w, err)
		return
	}
	st, err := h.svc.Ingest(r.Context(), ev)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusEnvelope{
		Message: fmt.Sprintf("Stored state %s for device %s", st.Status, st.DeviceID),
		Status:  st,
	})
}

package handler

import (
	"net/http"

	"github.com/smarthome-panel/internal/application/schedule"
	"github.com/smarthome-panel/internal/domain"
)

// ScheduleHandler handles schedule endpoints.
type ScheduleHandler struct {
	svc schedule.Service
}

func NewScheduleHandler(svc schedule.Service) *ScheduleHandler { return &ScheduleHandler{svc: svc} }

// Save merges the four schedule fields from the query string and an optional
// JSON body; each query parameter takes precedence over the body field.
func (h *ScheduleHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in domain.ScheduleInput
	if err := decodeOptionalJSON(r, &in); err != nil {
		httpError(w, err)
		return
	}
	q := r.URL.Query()
	in.RoomName = firstNonEmpty(q.Get("roomName"), in.RoomName)
	in.DeviceName = firstNonEmpty(q.Get("deviceName"), in.DeviceName)
	in.TurnOffTime = firstNonEmpty(q.Get("turnOffTime"), in.TurnOffTime)
	in.TurnOnTime = firstNonEmpty(q.Get("turnOnTime"), in.TurnOnTime)

	s, err := h.svc.Save(r.Context(), in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScheduleEnvelope{Message: "Schedule saved successfully", Schedule: s})
}

package handler

import (
	"net/http"

	"github.com/smarthome-panel/internal/application/usagelog"
	"github.com/smarthome-panel/internal/domain"
)

// UsageLogHandler handles usage-log endpoints.
type UsageLogHandler struct {
	svc usagelog.Service
}

func NewUsageLogHandler(svc usagelog.Service) *UsageLogHandler { return &UsageLogHandler{svc: svc} }

// List serves ?all=true (admin scan) or ?username=, both with optional
// startDate/endDate.
func (h *UsageLogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logs, err := h.svc.List(r.Context(), domain.UsageLogQuery{
		Username: q.Get("username"),
		All:      q.Get("all") == "true",
		Start:    q.Get("startDate"),
		End:      q.Get("endDate"),
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Add stores one log. The username query parameter wins over the body's.
func (h *UsageLogHandler) Add(w http.ResponseWriter, r *http.Request) {
	var l domain.UsageLog
	if err := decodeJSON(r, &l); err != nil {
		httpError(w, err)
		return
	}
	if u := r.URL.Query().Get("username"); u != "" {
		l.Username = u
	}
	if err := h.svc.Add(r.Context(), l); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "Log added"})
}

// Delete removes a user's logs in [startDate, endDate]. Query parameters win
// over body fields.
func (h *UsageLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req domain.UsageLogDeleteRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		httpError(w, err)
		return
	}
	q := r.URL.Query()
	req.Username = firstNonEmpty(q.Get("username"), req.Username)
	req.StartDate = firstNonEmpty(q.Get("startDate"), req.StartDate)
	req.EndDate = firstNonEmpty(q.Get("endDate"), req.EndDate)

	n, err := h.svc.DeleteRange(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedEnvelope{Deleted: n})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

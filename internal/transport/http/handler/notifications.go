package handler

import (
	"net/http"

	"github.com/smarthome-panel/internal/application/notification"
	"github.com/smarthome-panel/internal/domain"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in domain.NotificationInput
	if err := decodeJSON(r, &in); err != nil {
		httpError(w, err)
		return
	}
	n, err := h.svc.Add(r.Context(), in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, NotificationEnvelope{Message: "Notification saved", Notification: n})
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Delete removes one notification when ?timestamp= is given, otherwise every
// notification of ?username=.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	username, timestamp := q.Get("username"), q.Get("timestamp")

	if timestamp != "" {
		if err := h.svc.DeleteOne(r.Context(), username, timestamp); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Notification deleted"})
		return
	}

	n, err := h.svc.DeleteAll(r.Context(), username)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedEnvelope{Message: "All notifications cleared", Deleted: n})
}

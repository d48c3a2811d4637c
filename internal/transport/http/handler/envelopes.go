package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/smarthome-panel/internal/domain"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CommandEnvelope wraps a published device command.
type CommandEnvelope struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Topic   string `json:"topic"`
}

// DeletedEnvelope reports how many rows a bulk delete matched.
type DeletedEnvelope struct {
	Message string `json:"message,omitempty"`
	Deleted int    `json:"deleted"`
}

// NotificationEnvelope wraps a saved notification so the caller learns its
// server-assigned timestamp.
type NotificationEnvelope struct {
	Message      string               `json:"message"`
	Notification *domain.Notification `json:"notification"`
}

// ScheduleEnvelope wraps a saved schedule.
type ScheduleEnvelope struct {
	Message  string           `json:"message"`
	Schedule *domain.Schedule `json:"schedule"`
}

// StatusEnvelope wraps a stored device status.
type StatusEnvelope struct {
	Message string               `json:"message"`
	Status  *domain.DeviceStatus `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinels to status codes. Anything unrecognised is a
// 500 carrying the underlying message.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidJSON), errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON reads a required JSON body into v. Syntax errors and an empty
// body are ErrInvalidJSON; a value of the wrong type is ErrBadRequest naming
// the field.
func decodeJSON(r *http.Request, v interface{}) error {
	return decode(r, v, false)
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be omitted.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	return decode(r, v, true)
}

func decode(r *http.Request, v interface{}, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return domain.ErrInvalidJSON
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		if optional {
			return nil
		}
		return domain.ErrInvalidJSON
	}

	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: invalid fields: %s (%s)", domain.ErrBadRequest, typeErr.Field, typeErr.Type.Kind())
		}
		return domain.ErrInvalidJSON
	}
	return nil
}

// MethodNotAllowed answers 405 with a JSON body.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// NotFound answers unknown routes with a JSON body.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "route not found")
}

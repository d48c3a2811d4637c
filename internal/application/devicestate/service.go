package devicestate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smarthome-panel/internal/domain"
)

type Service interface {
	Latest(ctx context.Context, deviceID string) (*domain.DeviceStatus, error)
	Ingest(ctx context.Context, ev domain.StateEvent) (*domain.DeviceStatus, error)
}

type statusStore interface {
	Put(ctx context.Context, s *domain.DeviceStatus) error
	Latest(ctx context.Context, deviceID string) (*domain.DeviceStatus, error)
}

// stateGauge exports the current state of each device.
type stateGauge interface {
	SetSwitchState(deviceID string, on bool)
}

// historyWriter records each transition in a time-series store.
type historyWriter interface {
	WriteDeviceState(deviceID, state string, at time.Time)
}

// ServiceDeps holds the dependencies of the device-state service. Gauge and
// History are optional.
type ServiceDeps struct {
	Repo    statusStore
	Gauge   stateGauge
	History historyWriter
	Now     func() time.Time
}

type service struct {
	repo    statusStore
	gauge   stateGauge
	history historyWriter
	now     func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: deps.Repo, gauge: deps.Gauge, history: deps.History, now: now}
}

func (s *service) Latest(ctx context.Context, deviceID string) (*domain.DeviceStatus, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: missing deviceId", domain.ErrBadRequest)
	}
	return s.repo.Latest(ctx, deviceID)
}

// Ingest normalizes an inbound state event and appends it to the device's
// history, stamped with the current time.
func (s *service) Ingest(ctx context.Context, ev domain.StateEvent) (*domain.DeviceStatus, error) {
	state, err := eventState(ev)
	if err != nil {
		return nil, err
	}
	state = strings.ToUpper(strings.TrimSpace(state))
	if state != domain.StateOn && state != domain.StateOff {
		slog.Warn("invalid state received", "topic", ev.Topic, "state", state)
		return nil, fmt.Errorf("%w: invalid state %q, want ON or OFF", domain.ErrBadRequest, state)
	}

	deviceID, err := DeviceIDFromTopic(ev.Topic)
	if err != nil {
		return nil, err
	}

	now := s.now()
	st := &domain.DeviceStatus{
		DeviceID:  deviceID,
		Timestamp: domain.Timestamp(now),
		Status:    state,
	}
	if err := s.repo.Put(ctx, st); err != nil {
		return nil, err
	}

	if s.gauge != nil {
		s.gauge.SetSwitchState(deviceID, state == domain.StateOn)
	}
	if s.history != nil {
		s.history.WriteDeviceState(deviceID, state, now)
	}

	slog.Info("stored device state", "device_id", deviceID, "state", state)
	return st, nil
}

// DeviceIDFromTopic returns the last segment of topic. An event with no topic
// is rejected rather than attributed to a default device.
func DeviceIDFromTopic(topic string) (string, error) {
	if topic == "" {
		return "", fmt.Errorf("%w: missing topic", domain.ErrBadRequest)
	}
	id := topic[strings.LastIndex(topic, "/")+1:]
	if id == "" {
		return "", fmt.Errorf("%w: topic %q has no device segment", domain.ErrBadRequest, topic)
	}
	return id, nil
}

// eventState reads state from the payload when one is present. A payload may
// be a JSON-encoded string or an object; without one, the event's own state
// field is used.
func eventState(ev domain.StateEvent) (string, error) {
	raw := bytes.TrimSpace(ev.Payload)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ev.State, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return "", fmt.Errorf("%w: invalid payload: %s", domain.ErrBadRequest, err.Error())
		}
		raw = []byte(encoded)
	}

	var body struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("%w: invalid payload: %s", domain.ErrBadRequest, err.Error())
	}
	return body.State, nil
}

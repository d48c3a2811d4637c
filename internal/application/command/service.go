package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/smarthome-panel/internal/domain"
	"github.com/smarthome-panel/internal/pkg/id"
	"github.com/smarthome-panel/internal/pkg/validate"
)

// qosAtMostOnce is fire-and-forget delivery: no acknowledgment, no retry.
const qosAtMostOnce byte = 0

type Service interface {
	Dispatch(ctx context.Context, req domain.CommandRequest) (*Result, error)
}

// Result identifies a published command.
type Result struct {
	ID    string `json:"id"`
	Topic string `json:"topic"`
}

type publisher interface {
	Publish(ctx context.Context, topic string, payload []byte, qos byte) error
}

type recorder interface {
	CommandPublished(deviceID string, err error)
}

type service struct {
	publisher publisher
	recorder  recorder
}

// NewService returns a dispatcher. rec may be nil.
func NewService(pub publisher, rec recorder) Service {
	return &service{publisher: pub, recorder: rec}
}

func (s *service) Dispatch(ctx context.Context, req domain.CommandRequest) (*Result, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err.Error())
	}

	payload, err := json.Marshal(domain.CommandPayload{State: req.State, Brightness: *req.Brightness})
	if err != nil {
		return nil, fmt.Errorf("marshal command payload: %w", err)
	}

	res := &Result{ID: id.New(), Topic: domain.CommandTopic(req.DeviceID)}
	err = s.publisher.Publish(ctx, res.Topic, payload, qosAtMostOnce)
	if s.recorder != nil {
		s.recorder.CommandPublished(req.DeviceID, err)
	}
	if err != nil {
		slog.Error("command publish failed", "command_id", res.ID, "topic", res.Topic, "err", err)
		return nil, err
	}

	slog.Info("command published", "command_id", res.ID, "topic", res.Topic, "state", req.State)
	return res, nil
}

package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/smarthome-panel/internal/domain"
	"github.com/smarthome-panel/internal/pkg/validate"
)

type Service interface {
	Add(ctx context.Context, in domain.NotificationInput) (*domain.Notification, error)
	List(ctx context.Context, username string) ([]domain.Notification, error)
	DeleteOne(ctx context.Context, username, timestamp string) error
	DeleteAll(ctx context.Context, username string) (int, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, username string) ([]domain.Notification, error)
	Delete(ctx context.Context, username, timestamp string) error
	DeleteBatch(ctx context.Context, notifications []domain.Notification) error
}

// fanout forwards saved notifications to subscribers outside the panel.
type fanout interface {
	PublishNotification(ctx context.Context, n domain.Notification) error
}

type service struct {
	repo   notificationStore
	fanout fanout
	now    func() time.Time
}

// NewService returns the notification service. fan may be nil.
func NewService(repo notificationStore, fan fanout) Service {
	return &service{repo: repo, fanout: fan, now: time.Now}
}

// Add stores a notification keyed by the current time. Fan-out is best effort:
// a publish failure is logged and the saved notification is still returned.
func (s *service) Add(ctx context.Context, in domain.NotificationInput) (*domain.Notification, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err.Error())
	}

	n := &domain.Notification{
		Username:    in.Username,
		Timestamp:   domain.Timestamp(s.now()),
		Message:     in.Message,
		Device:      in.Device,
		Room:        in.Room,
		TurnOnTime:  in.TurnOnTime,
		TurnOffTime: in.TurnOffTime,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}

	if s.fanout != nil {
		if err := s.fanout.PublishNotification(ctx, *n); err != nil {
			slog.Warn("failed to publish notification", "username", n.Username, "timestamp", n.Timestamp, "err", err)
		}
	}
	return n, nil
}

func (s *service) List(ctx context.Context, username string) ([]domain.Notification, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: missing username", domain.ErrBadRequest)
	}
	return s.repo.ListByUser(ctx, username)
}

func (s *service) DeleteOne(ctx context.Context, username, timestamp string) error {
	if username == "" || timestamp == "" {
		return fmt.Errorf("%w: missing username or timestamp", domain.ErrBadRequest)
	}
	return s.repo.Delete(ctx, username, timestamp)
}

// DeleteAll removes every notification for username and returns how many
// rows were matched.
func (s *service) DeleteAll(ctx context.Context, username string) (int, error) {
	if username == "" {
		return 0, fmt.Errorf("%w: missing username", domain.ErrBadRequest)
	}
	items, err := s.repo.ListByUser(ctx, username)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}
	if err := s.repo.DeleteBatch(ctx, items); err != nil {
		slog.Error("notification delete-all failed", "username", username, "matched", len(items), "err", err)
		return 0, err
	}
	return len(items), nil
}

package http

import (
	"context"
	"time"

	"github.com/smarthome-panel/internal/application/command"
	"github.com/smarthome-panel/internal/application/devicestate"
	"github.com/smarthome-panel/internal/application/notification"
	"github.com/smarthome-panel/internal/application/schedule"
	"github.com/smarthome-panel/internal/application/usagelog"
	"github.com/smarthome-panel/internal/domain"
	"github.com/smarthome-panel/internal/infrastructure/metrics"
)

// UsageLogRepository is the minimal interface the router requires from a usage-log store.
type UsageLogRepository interface {
	Put(ctx context.Context, l *domain.UsageLog) error
	Query(ctx context.Context, username, start, end string) ([]domain.UsageLog, error)
	// Scan reads the whole table; only the admin list path uses it.
	Scan(ctx context.Context) ([]domain.UsageLog, error)
	DeleteBatch(ctx context.Context, logs []domain.UsageLog) error
}

// StatusRepository is the minimal interface the router requires from a device-status store.
type StatusRepository interface {
	Put(ctx context.Context, s *domain.DeviceStatus) error
	Latest(ctx context.Context, deviceID string) (*domain.DeviceStatus, error)
}

// NotificationRepository is the minimal interface the router requires from a notification store.
type NotificationRepository interface {
	Put(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, username string) ([]domain.Notification, error)
	Delete(ctx context.Context, username, timestamp string) error
	DeleteBatch(ctx context.Context, notifications []domain.Notification) error
}

// ScheduleRepository is the minimal interface the router requires from a schedule store.
type ScheduleRepository interface {
	Put(ctx context.Context, s *domain.Schedule) error
}

// CommandPublisher delivers device commands to the pub/sub transport.
type CommandPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte, qos byte) error
}

// UsageLogArchiver stores usage logs before a ranged delete.
type UsageLogArchiver interface {
	ArchiveUsageLogs(ctx context.Context, username, start, end string, logs []domain.UsageLog) (string, error)
}

// NotificationFanout forwards saved notifications outside the panel.
type NotificationFanout interface {
	PublishNotification(ctx context.Context, n domain.Notification) error
}

// StateHistory records device-state transitions as a time series.
type StateHistory interface {
	WriteDeviceState(deviceID, state string, at time.Time)
}

// Deps holds all infrastructure dependencies. Archiver, Fanout, History and
// Metrics are optional and must be left nil (not a typed nil) when disabled.
type Deps struct {
	UsageLogRepo     UsageLogRepository
	StatusRepo       StatusRepository
	NotificationRepo NotificationRepository
	ScheduleRepo     ScheduleRepository
	Publisher        CommandPublisher
	Archiver         UsageLogArchiver
	Fanout           NotificationFanout
	History          StateHistory
	Metrics          *metrics.Metrics
}

// Services is the application layer built from Deps, shared by the HTTP
// router, the Lambda adapter and the broker subscriber.
type Services struct {
	Commands      command.Service
	UsageLogs     usagelog.Service
	DeviceState   devicestate.Service
	Notifications notification.Service
	Schedules     schedule.Service
	Metrics       *metrics.Metrics
}

// NewServices wires every application service.
func NewServices(deps *Deps) *Services {
	svcs := &Services{
		UsageLogs:     usagelog.NewService(deps.UsageLogRepo, deps.Archiver),
		Notifications: notification.NewService(deps.NotificationRepo, deps.Fanout),
		Schedules:     schedule.NewService(deps.ScheduleRepo),
		Metrics:       deps.Metrics,
	}

	stateDeps := devicestate.ServiceDeps{Repo: deps.StatusRepo, History: deps.History}
	if deps.Metrics != nil {
		svcs.Commands = command.NewService(deps.Publisher, deps.Metrics)
		stateDeps.Gauge = deps.Metrics
	} else {
		svcs.Commands = command.NewService(deps.Publisher, nil)
	}
	svcs.DeviceState = devicestate.NewService(stateDeps)

	return svcs
}

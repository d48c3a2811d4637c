// Package app builds the process-scoped clients and services shared by the
// HTTP server and the Lambda entry point.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/smarthome-panel/internal/config"
	"github.com/smarthome-panel/internal/domain"
	"github.com/smarthome-panel/internal/infrastructure/dynamo"
	"github.com/smarthome-panel/internal/infrastructure/influxdb"
	"github.com/smarthome-panel/internal/infrastructure/iotdata"
	"github.com/smarthome-panel/internal/infrastructure/metrics"
	"github.com/smarthome-panel/internal/infrastructure/mqtt"
	s3infra "github.com/smarthome-panel/internal/infrastructure/s3"
	"github.com/smarthome-panel/internal/infrastructure/sns"
	transporthttp "github.com/smarthome-panel/internal/transport/http"
)

// ErrUnknownTransport is returned for an unsupported COMMAND_TRANSPORT value.
var ErrUnknownTransport = errors.New("unknown command transport")

// stateQoS is used for the device-state subscription.
const stateQoS byte = 1

// App holds every long-lived client. Build it once per process.
type App struct {
	cfg      *config.Config
	Services *transporthttp.Services
	Router   http.Handler

	mqtt   *mqtt.Client
	influx *influxdb.Client
}

// New connects the configured clients and wires the services and router.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	dynamoClient := dynamo.NewClient(cfg)
	if cfg.DynamoBootstrap {
		dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
	}

	publisher, err := a.newPublisher(cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := &transporthttp.Deps{
		UsageLogRepo:     dynamo.NewUsageLogRepo(dynamoClient, cfg.DynamoTables.UsageLogs),
		StatusRepo:       dynamo.NewStatusRepo(dynamoClient, cfg.DynamoTables.DeviceStatus),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		ScheduleRepo:     dynamo.NewScheduleRepo(dynamoClient, cfg.DynamoTables.Schedules),
		Publisher:        publisher,
		Metrics:          metrics.New(reg),
	}

	// Optional collaborators are only assigned when enabled so the
	// interfaces stay nil rather than holding a typed nil.
	if archive := s3infra.NewArchive(cfg); archive != nil {
		deps.Archiver = archive
	}
	if sender := sns.NewSender(cfg); sender != nil {
		deps.Fanout = sender
	}
	if cfg.Influx.Enabled {
		client, err := influxdb.Connect(cfg.Influx, func(err error) {
			slog.Warn("influxdb write failed", "err", err)
		})
		if err != nil {
			slog.Warn("influxdb not available, state history disabled", "err", err)
		} else {
			a.influx = client
			deps.History = client
		}
	}

	a.Services = transporthttp.NewServices(deps)
	a.Router = transporthttp.NewRouter(cfg, a.Services)
	return a, nil
}

func (a *App) newPublisher(cfg *config.Config) (transporthttp.CommandPublisher, error) {
	switch cfg.CommandTransport {
	case config.TransportIoT:
		return iotdata.NewPublisher(cfg)
	case config.TransportMQTT:
		client, err := mqtt.Connect(cfg.MQTT, slog.Default())
		if err != nil {
			return nil, err
		}
		a.mqtt = client
		return client, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.CommandTransport)
	}
}

// SubscribeState feeds broker messages on MQTT_STATE_TOPIC into the
// device-state ingestor. It is a no-op unless MQTT_SUBSCRIBE_STATE is set and
// the MQTT transport is in use.
func (a *App) SubscribeState(ctx context.Context) error {
	if !a.cfg.MQTT.SubscribeState {
		return nil
	}
	if a.mqtt == nil {
		slog.Warn("state subscription requires the mqtt command transport", "transport", a.cfg.CommandTransport)
		return nil
	}
	return a.mqtt.Subscribe(ctx, a.cfg.MQTT.StateTopic, stateQoS, func(topic string, payload []byte) error {
		_, err := a.Services.DeviceState.Ingest(ctx, domain.StateEvent{Topic: topic, Payload: payload})
		return err
	})
}

// Close releases broker and time-series connections.
func (a *App) Close() {
	if a.mqtt != nil {
		_ = a.mqtt.Close()
	}
	if a.influx != nil {
		_ = a.influx.Close()
	}
}

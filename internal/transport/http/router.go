package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/smarthome-panel/internal/config"
	"github.com/smarthome-panel/internal/transport/http/handler"
	appmiddleware "github.com/smarthome-panel/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, svcs *Services) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if svcs.Metrics != nil {
		r.Use(appmiddleware.Metrics(svcs.Metrics))
	}
	r.Use(appmiddleware.Preflight(cfg.AllowedOrigins))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   appmiddleware.CORSMethods,
		AllowedHeaders:   appmiddleware.CORSHeaders,
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	commandRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.CommandRateLimit), cfg.CommandRateBurst)

	healthH := handler.NewHealthHandler()
	commandH := handler.NewCommandHandler(svcs.Commands)
	usageH := handler.NewUsageLogHandler(svcs.UsageLogs)
	statusH := handler.NewDeviceStatusHandler(svcs.DeviceState)
	notifH := handler.NewNotificationHandler(svcs.Notifications)
	schedH := handler.NewScheduleHandler(svcs.Schedules)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.With(commandRL.Limit).Post("/commands", commandH.Publish)

		r.Get("/usage-logs", usageH.List)
		r.Post("/usage-logs", usageH.Add)
		r.Delete("/usage-logs", usageH.Delete)

		r.Get("/device-status", statusH.Get)
		r.Get("/device-status/{deviceId}", statusH.Get)
		r.Post("/device-status", statusH.Ingest)

		r.Get("/notifications", notifH.List)
		r.Post("/notifications", notifH.Add)
		r.Delete("/notifications", notifH.Delete)

		r.Post("/schedules", schedH.Save)
		r.Put("/schedules", schedH.Save)
	})

	r.Get("/metrics", svcs.Metrics.Handler().ServeHTTP)

	return r
}

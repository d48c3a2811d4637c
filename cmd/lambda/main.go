package main

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/smarthome-panel/internal/app"
	"github.com/smarthome-panel/internal/config"
	"github.com/smarthome-panel/internal/infrastructure/logging"
	lambdaadapter "github.com/smarthome-panel/internal/transport/lambda"
)

// adapter is built once per cold start and reused across invocations.
var adapter *lambdaadapter.Adapter

func init() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg)
	slog.SetDefault(log)
	log.Info("smarthome panel lambda: cold start", "transport", cfg.CommandTransport)

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Error("failed to initialise", "err", err)
		panic(err)
	}
	adapter = lambdaadapter.NewAdapter(a.Router)
}

func main() {
	lambda.Start(adapter.Handle)
}

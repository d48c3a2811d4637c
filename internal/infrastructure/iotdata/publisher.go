// Package iotdata publishes device commands through the AWS IoT Core data
// plane instead of a direct broker connection.
package iotdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/smarthome-panel/internal/config"
	"github.com/smarthome-panel/internal/infrastructure/awsx"
)

// ErrNoEndpoint is returned when COMMAND_TRANSPORT=iot but IOT_ENDPOINT is unset.
var ErrNoEndpoint = errors.New("iotdata: IOT_ENDPOINT is required")

// API is the subset of the IoT data plane client used by Publisher.
type API interface {
	Publish(ctx context.Context, params *iotdataplane.PublishInput, optFns ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error)
}

// Publisher sends MQTT messages through the IoT data plane.
type Publisher struct {
	client API
}

// NewPublisher creates a data-plane client bound to the account's ATS
// endpoint, e.g. https://xxxx-ats.iot.eu-west-2.amazonaws.com.
func NewPublisher(cfg *config.Config) (*Publisher, error) {
	if cfg.IoTEndpoint == "" {
		return nil, ErrNoEndpoint
	}
	client := iotdataplane.NewFromConfig(awsx.LoadConfig(cfg), func(o *iotdataplane.Options) {
		o.BaseEndpoint = aws.String(cfg.IoTEndpoint)
	})
	return NewPublisherWithClient(client), nil
}

// NewPublisherWithClient wraps an existing client.
func NewPublisherWithClient(client API) *Publisher {
	return &Publisher{client: client}
}

// Publish sends payload to topic at the given QoS. Messages are never retained.
func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte, qos byte) error {
	_, err := p.client.Publish(ctx, &iotdataplane.PublishInput{
		Topic:   aws.String(topic),
		Payload: payload,
		Qos:     int32(qos),
	})
	if err != nil {
		return fmt.Errorf("iot publish %s: %w", topic, err)
	}
	return nil
}

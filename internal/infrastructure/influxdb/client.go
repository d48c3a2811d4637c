// Package influxdb records device-state transitions as a time series so the
// panel can chart switch history alongside the latest-state table.
package influxdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/smarthome-panel/internal/config"
)

const (
	defaultConnectTimeout = 10 * time.Second

	batchSize       = 100
	flushIntervalMs = 10_000

	measurementDeviceState = "device_state"
)

var (
	// ErrDisabled is returned by Connect when INFLUX_ENABLED is false.
	ErrDisabled = errors.New("influxdb: disabled in configuration")

	// ErrConnectionFailed is returned when the server cannot be reached.
	ErrConnectionFailed = errors.New("influxdb: connection failed")
)

// pointWriter is the part of api.WriteAPI the client needs.
type pointWriter interface {
	WritePoint(point *write.Point)
	Flush()
}

// Client writes device-state points through the non-blocking, batched write API.
// All methods are safe for concurrent use.
type Client struct {
	client influxdb2.Client
	writer pointWriter

	connected bool
	mu        sync.RWMutex
}

// Connect pings the server and prepares the write API for cfg.Org/cfg.Bucket.
func Connect(cfg config.InfluxConfig, onError func(error)) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(batchSize).
			SetFlushInterval(flushIntervalMs),
	)

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)
	go func() {
		for err := range writeAPI.Errors() {
			if onError != nil {
				onError(err)
			}
		}
	}()

	return &Client{client: client, writer: writeAPI, connected: true}, nil
}

// IsConnected reports whether Close has not yet been called.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// WriteDeviceState records one ON/OFF transition. Non-blocking; no-op after Close.
func (c *Client) WriteDeviceState(deviceID, state string, at time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writer.WritePoint(newStatePoint(deviceID, state, at))
}

// Close flushes pending points and releases the underlying client.
func (c *Client) Close() error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.connected = false
	c.mu.Unlock()

	c.writer.Flush()
	if c.client != nil {
		c.client.Close()
	}
	return nil
}

// newStatePoint encodes ON as 1 and anything else as 0 in the "on" field so
// the series can be graphed, and keeps the raw state string alongside it.
func newStatePoint(deviceID, state string, at time.Time) *write.Point {
	on := 0
	if state == "ON" {
		on = 1
	}
	return write.NewPoint(
		measurementDeviceState,
		map[string]string{"device_id": deviceID},
		map[string]interface{}{"on": on, "state": state},
		at,
	)
}

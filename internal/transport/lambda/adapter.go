// Package lambda serves the panel's HTTP router from AWS Lambda. API Gateway
// proxy events are replayed against the router; any other event is treated as
// a device-state event from an IoT rule and posted to the ingest route.
package lambda

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

const (
	apiPrefix   = "/v1"
	ingestRoute = apiPrefix + "/device-status"
)

// Adapter converts Lambda invocations into requests on an http.Handler.
type Adapter struct {
	router http.Handler
}

func NewAdapter(router http.Handler) *Adapter {
	return &Adapter{router: router}
}

// eventProbe detects API Gateway proxy events.
type eventProbe struct {
	HTTPMethod string `json:"httpMethod"`
}

// Handle is the Lambda entry point. It never returns an error for a handled
// request so that asynchronous IoT invocations are not retried; failures are
// reported in the response status instead.
func (a *Adapter) Handle(ctx context.Context, raw json.RawMessage) (events.APIGatewayProxyResponse, error) {
	var probe eventProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("decode event: %w", err)
	}

	var (
		req *http.Request
		err error
	)
	if probe.HTTPMethod != "" {
		var ev events.APIGatewayProxyRequest
		if err := json.Unmarshal(raw, &ev); err != nil {
			return events.APIGatewayProxyResponse{}, fmt.Errorf("decode proxy event: %w", err)
		}
		req, err = proxyRequest(ctx, ev)
	} else {
		slog.Info("received device state event", "event", string(raw))
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, ingestRoute, bytes.NewReader(raw))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	rec := newResponseRecorder()
	a.router.ServeHTTP(rec, req)
	return rec.result(), nil
}

// proxyRequest builds an *http.Request from an API Gateway proxy event. Paths
// without the /v1 prefix are mapped under it.
func proxyRequest(ctx context.Context, ev events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(ev.Body)
		if err != nil {
			return nil, fmt.Errorf("decode base64 body: %w", err)
		}
		body = decoded
	}

	path := ev.Path
	if path == "" {
		path = "/"
	}
	if path != "/metrics" && path != apiPrefix && !strings.HasPrefix(path, apiPrefix+"/") {
		path = apiPrefix + path
	}

	query := url.Values{}
	for k, vs := range ev.MultiValueQueryStringParameters {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	for k, v := range ev.QueryStringParameters {
		if _, ok := query[k]; !ok {
			query.Set(k, v)
		}
	}

	u := url.URL{Path: path, RawQuery: query.Encode()}
	req, err := http.NewRequestWithContext(ctx, ev.HTTPMethod, u.RequestURI(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range ev.MultiValueHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, v := range ev.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	// API Gateway's SourceIP is the only trustworthy client address.
	if ip := ev.RequestContext.Identity.SourceIP; ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
		req.RemoteAddr = ip
	}
	return req, nil
}

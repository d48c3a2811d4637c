package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smarthome-panel/internal/application/command"
	"github.com/smarthome-panel/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockCommandSvc struct{ mock.Mock }

func (m *mockCommandSvc) Dispatch(ctx context.Context, req domain.CommandRequest) (*command.Result, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*command.Result); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUsageLogSvc struct{ mock.Mock }

func (m *mockUsageLogSvc) List(ctx context.Context, q domain.UsageLogQuery) ([]domain.UsageLog, error) {
	args := m.Called(ctx, q)
	logs, _ := args.Get(0).([]domain.UsageLog)
	return logs, args.Error(1)
}
func (m *mockUsageLogSvc) Add(ctx context.Context, l domain.UsageLog) error {
	return m.Called(ctx, l).Error(0)
}
func (m *mockUsageLogSvc) DeleteRange(ctx context.Context, req domain.UsageLogDeleteRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

type mockDeviceStateSvc struct{ mock.Mock }

func (m *mockDeviceStateSvc) Latest(ctx context.Context, deviceID string) (*domain.DeviceStatus, error) {
	args := m.Called(ctx, deviceID)
	if s, _ := args.Get(0).(*domain.DeviceStatus); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockDeviceStateSvc) Ingest(ctx context.Context, ev domain.StateEvent) (*domain.DeviceStatus, error) {
	args := m.Called(ctx, ev)
	if s, _ := args.Get(0).(*domain.DeviceStatus); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) Add(ctx context.Context, in domain.NotificationInput) (*domain.Notification, error) {
	args := m.Called(ctx, in)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationSvc) List(ctx context.Context, username string) ([]domain.Notification, error) {
	args := m.Called(ctx, username)
	items, _ := args.Get(0).([]domain.Notification)
	return items, args.Error(1)
}
func (m *mockNotificationSvc) DeleteOne(ctx context.Context, username, timestamp string) error {
	return m.Called(ctx, username, timestamp).Error(0)
}
func (m *mockNotificationSvc) DeleteAll(ctx context.Context, username string) (int, error) {
	args := m.Called(ctx, username)
	return args.Int(0), args.Error(1)
}

type mockScheduleSvc struct{ mock.Mock }

func (m *mockScheduleSvc) Save(ctx context.Context, in domain.ScheduleInput) (*domain.Schedule, error) {
	args := m.Called(ctx, in)
	if s, _ := args.Get(0).(*domain.Schedule); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

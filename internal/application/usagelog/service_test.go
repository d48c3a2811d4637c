package usagelog

import (
	"context"
	"errors"
	"testing"

	"github.com/smarthome-panel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, l *domain.UsageLog) error {
	return m.Called(ctx, l).Error(0)
}
func (m *mockStore) Query(ctx context.Context, username, start, end string) ([]domain.UsageLog, error) {
	args := m.Called(ctx, username, start, end)
	logs, _ := args.Get(0).([]domain.UsageLog)
	return logs, args.Error(1)
}
func (m *mockStore) Scan(ctx context.Context) ([]domain.UsageLog, error) {
	args := m.Called(ctx)
	logs, _ := args.Get(0).([]domain.UsageLog)
	return logs, args.Error(1)
}
func (m *mockStore) DeleteBatch(ctx context.Context, logs []domain.UsageLog) error {
	return m.Called(ctx, logs).Error(0)
}

type mockArchiver struct{ mock.Mock }

func (m *mockArchiver) ArchiveUsageLogs(ctx context.Context, username, start, end string, logs []domain.UsageLog) (string, error) {
	args := m.Called(ctx, username, start, end, logs)
	return args.String(0), args.Error(1)
}

func entry(user, ts string) domain.UsageLog {
	return domain.UsageLog{Username: user, Timestamp: ts, Device: "lamp", Room: "living", Action: "on"}
}

// --- List ---

func TestList_RequiresUsernameOrAll(t *testing.T) {
	repo := &mockStore{}
	_, err := NewService(repo, nil).List(context.Background(), domain.UsageLogQuery{})

	assert.ErrorIs(t, err, domain.ErrBadRequest)
	repo.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Scan", mock.Anything)
}

func TestList_UserQueryNormalizesBareDates(t *testing.T) {
	want := []domain.UsageLog{entry("alice", "2024-01-01T00:00:00.000Z")}
	repo := &mockStore{}
	repo.On("Query", mock.Anything, "alice", "2024-01-01T00:00:00.000Z", "2024-01-31T23:59:59.999Z").Return(want, nil)

	got, err := NewService(repo, nil).List(context.Background(), domain.UsageLogQuery{
		Username: "alice", Start: "2024-01-01", End: "2024-01-31",
	})

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestList_RejectsInvertedRange(t *testing.T) {
	repo := &mockStore{}
	svc := NewService(repo, nil)

	_, err := svc.List(context.Background(), domain.UsageLogQuery{Username: "alice", Start: "2024-02-01", End: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = svc.List(context.Background(), domain.UsageLogQuery{All: true, Start: "2024-02-01", End: "2024-01-01"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	repo.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Scan", mock.Anything)
}

func TestList_SingleDayRange(t *testing.T) {
	repo := &mockStore{}
	repo.On("Query", mock.Anything, "alice", "2024-01-01T00:00:00.000Z", "2024-01-01T23:59:59.999Z").Return([]domain.UsageLog{}, nil)

	_, err := NewService(repo, nil).List(context.Background(), domain.UsageLogQuery{Username: "alice", Start: "2024-01-01", End: "2024-01-01"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestList_UserQueryKeepsFullTimestamps(t *testing.T) {
	repo := &mockStore{}
	repo.On("Query", mock.Anything, "alice", "2024-01-01T12:00:00.000Z", "").Return([]domain.UsageLog{}, nil)

	_, err := NewService(repo, nil).List(context.Background(), domain.UsageLogQuery{
		Username: "alice", Start: "2024-01-01T12:00:00.000Z",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestList_AdminScanFiltersInclusive(t *testing.T) {
	repo := &mockStore{}
	repo.On("Scan", mock.Anything).Return([]domain.UsageLog{
		entry("alice", "2023-12-31T23:59:59.999Z"),
		entry("alice", "2024-01-01T00:00:00.000Z"),
		entry("bob", "2024-01-01T08:00:00.000Z"),
		entry("alice", "2024-01-02T23:59:59.999Z"),
		entry("alice", "2024-01-03T00:00:00.000Z"),
	}, nil)

	got, err := NewService(repo, nil).List(context.Background(), domain.UsageLogQuery{
		All: true, Username: "alice", Start: "2024-01-01", End: "2024-01-02",
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", got[0].Timestamp)
	assert.Equal(t, "2024-01-02T23:59:59.999Z", got[1].Timestamp)
}

func TestList_AdminScanWithoutFilters(t *testing.T) {
	repo := &mockStore{}
	repo.On("Scan", mock.Anything).Return([]domain.UsageLog{entry("a", "1"), entry("b", "2")}, nil)

	got, err := NewService(repo, nil).List(context.Background(), domain.UsageLogQuery{All: true})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// --- Add ---

func TestAdd_MissingFields(t *testing.T) {
	repo := &mockStore{}
	err := NewService(repo, nil).Add(context.Background(), domain.UsageLog{Username: "alice", Device: "lamp"})

	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Contains(t, err.Error(), "timestamp")
	assert.Contains(t, err.Error(), "room")
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestAdd_Puts(t *testing.T) {
	l := entry("alice", "2024-01-01T10:00:00.000Z")
	repo := &mockStore{}
	repo.On("Put", mock.Anything, &l).Return(nil)

	require.NoError(t, NewService(repo, nil).Add(context.Background(), l))
	repo.AssertExpectations(t)
}

// --- DeleteRange ---

func deleteReq() domain.UsageLogDeleteRequest {
	return domain.UsageLogDeleteRequest{Username: "alice", StartDate: "2024-01-01", EndDate: "2024-01-31"}
}

func TestDeleteRange_DeletesExactlyQueriedRows(t *testing.T) {
	matched := []domain.UsageLog{entry("alice", "2024-01-01T00:00:00.000Z"), entry("alice", "2024-01-15T09:00:00.000Z")}
	repo := &mockStore{}
	repo.On("Query", mock.Anything, "alice", "2024-01-01T00:00:00.000Z", "2024-01-31T23:59:59.999Z").Return(matched, nil)
	repo.On("DeleteBatch", mock.Anything, matched).Return(nil).Once()

	n, err := NewService(repo, nil).DeleteRange(context.Background(), deleteReq())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	repo.AssertExpectations(t)
}

func TestDeleteRange_NoMatchesIsZero(t *testing.T) {
	repo := &mockStore{}
	repo.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]domain.UsageLog{}, nil)
	arch := &mockArchiver{}

	n, err := NewService(repo, arch).DeleteRange(context.Background(), deleteReq())

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	repo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
	arch.AssertNotCalled(t, "ArchiveUsageLogs", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRange_MissingFields(t *testing.T) {
	repo := &mockStore{}
	_, err := NewService(repo, nil).DeleteRange(context.Background(), domain.UsageLogDeleteRequest{Username: "alice"})

	assert.ErrorIs(t, err, domain.ErrBadRequest)
	repo.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRange_RejectsInvertedRange(t *testing.T) {
	repo := &mockStore{}
	_, err := NewService(repo, nil).DeleteRange(context.Background(), domain.UsageLogDeleteRequest{
		Username: "alice", StartDate: "2024-03-01", EndDate: "2024-01-01",
	})

	assert.ErrorIs(t, err, domain.ErrBadRequest)
	repo.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

func TestDeleteRange_ArchivesBeforeDelete(t *testing.T) {
	matched := []domain.UsageLog{entry("alice", "2024-01-10T00:00:00.000Z")}
	repo := &mockStore{}
	repo.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(matched, nil)
	repo.On("DeleteBatch", mock.Anything, matched).Return(nil)
	arch := &mockArchiver{}
	arch.On("ArchiveUsageLogs", mock.Anything, "alice", "2024-01-01T00:00:00.000Z", "2024-01-31T23:59:59.999Z", matched).
		Return("s3://bucket/key.json", nil)

	n, err := NewService(repo, arch).DeleteRange(context.Background(), deleteReq())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	arch.AssertExpectations(t)
}

func TestDeleteRange_ArchiveFailureSkipsDelete(t *testing.T) {
	repo := &mockStore{}
	repo.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]domain.UsageLog{entry("alice", "x")}, nil)
	arch := &mockArchiver{}
	arch.On("ArchiveUsageLogs", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("access denied"))

	_, err := NewService(repo, arch).DeleteRange(context.Background(), deleteReq())

	assert.Error(t, err)
	repo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

func TestDeleteRange_BatchFailureSurfaces(t *testing.T) {
	repo := &mockStore{}
	repo.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]domain.UsageLog{entry("alice", "x")}, nil)
	repo.On("DeleteBatch", mock.Anything, mock.Anything).Return(domain.ErrPartialDelete)

	_, err := NewService(repo, nil).DeleteRange(context.Background(), deleteReq())
	assert.ErrorIs(t, err, domain.ErrPartialDelete)
}

package usagelog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smarthome-panel/internal/domain"
	"github.com/smarthome-panel/internal/pkg/daterange"
	"github.com/smarthome-panel/internal/pkg/validate"
)

type Service interface {
	List(ctx context.Context, q domain.UsageLogQuery) ([]domain.UsageLog, error)
	Add(ctx context.Context, l domain.UsageLog) error
	DeleteRange(ctx context.Context, req domain.UsageLogDeleteRequest) (int, error)
}

type usageLogStore interface {
	Put(ctx context.Context, l *domain.UsageLog) error
	Query(ctx context.Context, username, start, end string) ([]domain.UsageLog, error)
	Scan(ctx context.Context) ([]domain.UsageLog, error)
	DeleteBatch(ctx context.Context, logs []domain.UsageLog) error
}

type archiver interface {
	ArchiveUsageLogs(ctx context.Context, username, start, end string, logs []domain.UsageLog) (string, error)
}

type service struct {
	repo     usageLogStore
	archiver archiver
}

// NewService returns the usage-log service. arch may be nil, in which case
// ranged deletes are not archived first.
func NewService(repo usageLogStore, arch archiver) Service {
	return &service{repo: repo, archiver: arch}
}

// List runs the admin scan when q.All is set, otherwise a per-user range query.
// Both paths treat bare dates as whole days and include both bounds.
func (s *service) List(ctx context.Context, q domain.UsageLogQuery) ([]domain.UsageLog, error) {
	start, end, err := bounds(q.Start, q.End)
	if err != nil {
		return nil, err
	}

	if !q.All {
		if q.Username == "" {
			return nil, fmt.Errorf("%w: missing username or all=true", domain.ErrBadRequest)
		}
		return s.repo.Query(ctx, q.Username, start, end)
	}

	items, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UsageLog, 0, len(items))
	for _, l := range items {
		if q.Username != "" && l.Username != q.Username {
			continue
		}
		if !daterange.Contains(l.Timestamp, start, end) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *service) Add(ctx context.Context, l domain.UsageLog) error {
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBadRequest, err.Error())
	}
	return s.repo.Put(ctx, &l)
}

// DeleteRange removes exactly the rows the equivalent range query returns and
// reports how many there were. Chunks already deleted stay deleted if a later
// chunk fails.
func (s *service) DeleteRange(ctx context.Context, req domain.UsageLogDeleteRequest) (int, error) {
	if err := validate.Struct(req); err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrBadRequest, err.Error())
	}
	start, end, err := bounds(req.StartDate, req.EndDate)
	if err != nil {
		return 0, err
	}

	logs, err := s.repo.Query(ctx, req.Username, start, end)
	if err != nil {
		return 0, err
	}
	if len(logs) == 0 {
		return 0, nil
	}

	if s.archiver != nil {
		url, err := s.archiver.ArchiveUsageLogs(ctx, req.Username, start, end, logs)
		if err != nil {
			return 0, fmt.Errorf("archive usage logs: %w", err)
		}
		slog.Info("archived usage logs", "username", req.Username, "count", len(logs), "url", url)
	}

	if err := s.repo.DeleteBatch(ctx, logs); err != nil {
		slog.Error("usage log delete failed", "username", req.Username, "matched", len(logs), "err", err)
		return 0, err
	}
	return len(logs), nil
}

// bounds expands bare dates to whole days and rejects ranges that end before
// they start.
func bounds(startDate, endDate string) (string, string, error) {
	start, end := daterange.StartOfDay(startDate), daterange.EndOfDay(endDate)
	if daterange.Inverted(start, end) {
		return "", "", fmt.Errorf("%w: startDate %q is after endDate %q", domain.ErrBadRequest, startDate, endDate)
	}
	return start, end, nil
}

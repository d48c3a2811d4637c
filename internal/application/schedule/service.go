package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/smarthome-panel/internal/domain"
	"github.com/smarthome-panel/internal/pkg/validate"
)

type Service interface {
	Save(ctx context.Context, in domain.ScheduleInput) (*domain.Schedule, error)
}

type scheduleStore interface {
	Put(ctx context.Context, s *domain.Schedule) error
}

type service struct {
	repo scheduleStore
	now  func() time.Time
}

func NewService(repo scheduleStore) Service {
	return &service{repo: repo, now: time.Now}
}

// Save stores the schedule for in.RoomName/in.DeviceName, replacing any
// previous one for the same pair.
func (s *service) Save(ctx context.Context, in domain.ScheduleInput) (*domain.Schedule, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err.Error())
	}
	sched := &domain.Schedule{
		RoomName:    in.RoomName,
		DeviceName:  in.DeviceName,
		TurnOnTime:  in.TurnOnTime,
		TurnOffTime: in.TurnOffTime,
		CreatedAt:   domain.Timestamp(s.now()),
	}
	if err := s.repo.Put(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

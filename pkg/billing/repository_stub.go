package billing

import (
	"context"
	"fmt"
)

type RepositoryStub struct {
	schedules map[string]Schedule
}

func NewStubScheduleRepo() *RepositoryStub {
	return &RepositoryStub{schedules: map[string]Schedule{}}
}

func stubKey(mbaNumber string, versionNumber int) string {
	return fmt.Sprintf("%s/%d", mbaNumber, versionNumber)
}

func (s *RepositoryStub) StoreManualSchedule(ctx context.Context, schedule Schedule) error {
	s.schedules[stubKey(schedule.MbaNumber, schedule.VersionNumber)] = schedule
	return nil
}

func (s *RepositoryStub) GetManualSchedule(ctx context.Context, mbaNumber string, versionNumber int) (*Schedule, error) {
	if schedule, ok := s.schedules[stubKey(mbaNumber, versionNumber)]; ok {
		schedule.Manual = true
		return &schedule, nil
	}
	return nil, nil
}

func (s *RepositoryStub) DeleteManualSchedule(ctx context.Context, mbaNumber string, versionNumber int) (bool, error) {
	key := stubKey(mbaNumber, versionNumber)
	if _, ok := s.schedules[key]; ok {
		delete(s.schedules, key)
		return true, nil
	}
	return false, nil
}

func (s *RepositoryStub) Cleanup() {
	s.schedules = map[string]Schedule{}
}

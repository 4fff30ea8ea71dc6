package dashboard

import (
	"context"
	"fmt"
)

type RepositoryStub struct {
	schedules map[string][]DeliveryEntry
}

func NewStubDeliveryScheduleRepo() *RepositoryStub {
	return &RepositoryStub{schedules: map[string][]DeliveryEntry{}}
}

func stubKey(mbaNumber string, versionNumber int) string {
	return fmt.Sprintf("%s/%d", mbaNumber, versionNumber)
}

func (s *RepositoryStub) StoreDeliverySchedule(ctx context.Context, mbaNumber string, versionNumber int, entries []DeliveryEntry) error {
	s.schedules[stubKey(mbaNumber, versionNumber)] = entries
	return nil
}

func (s *RepositoryStub) GetDeliverySchedule(ctx context.Context, mbaNumber string, versionNumber int) ([]DeliveryEntry, error) {
	return s.schedules[stubKey(mbaNumber, versionNumber)], nil
}

func (s *RepositoryStub) Cleanup() {
	s.schedules = map[string][]DeliveryEntry{}
}

package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Repository persists manual billing schedules. Computed schedules are never
// stored; they are rebuilt from plan inputs on demand.
type Repository interface {
	StoreManualSchedule(ctx context.Context, schedule Schedule) error
	GetManualSchedule(ctx context.Context, mbaNumber string, versionNumber int) (*Schedule, error)
	DeleteManualSchedule(ctx context.Context, mbaNumber string, versionNumber int) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewScheduleRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreManualSchedule(ctx context.Context, schedule Schedule) error {
	payload, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("could not serialize manual schedule: %w", err)
	}

	query := `INSERT INTO manual_billing_schedule (mba_number, version_number, schedule)
				VALUES ($1, $2, $3)
				ON CONFLICT (mba_number, version_number) DO UPDATE SET schedule = EXCLUDED.schedule, updated = now()`
	_, err = r.db.Exec(ctx, query, schedule.MbaNumber, schedule.VersionNumber, payload)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetManualSchedule(ctx context.Context, mbaNumber string, versionNumber int) (*Schedule, error) {
	query := `SELECT schedule FROM manual_billing_schedule WHERE mba_number = $1 AND version_number = $2`

	var payload []byte
	err := r.db.QueryRow(ctx, query, mbaNumber, versionNumber).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		err := fmt.Errorf("could not query manual schedule: %w", err)
		log.Error(err)
		return nil, err
	}

	var schedule Schedule
	if err := json.Unmarshal(payload, &schedule); err != nil {
		err := fmt.Errorf("could not deserialize manual schedule for %s v%d: %w", mbaNumber, versionNumber, err)
		log.Error(err)
		return nil, err
	}
	schedule.Manual = true
	return &schedule, nil
}

func (r *RepositoryImpl) DeleteManualSchedule(ctx context.Context, mbaNumber string, versionNumber int) (bool, error) {
	query := `DELETE FROM manual_billing_schedule WHERE mba_number = $1 AND version_number = $2`
	result, err := r.db.Exec(ctx, query, mbaNumber, versionNumber)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

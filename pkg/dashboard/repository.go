package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Repository persists delivery schedules: the per-version record of what was
// actually delivered, consumed read-only by the aggregator.
type Repository interface {
	StoreDeliverySchedule(ctx context.Context, mbaNumber string, versionNumber int, entries []DeliveryEntry) error
	GetDeliverySchedule(ctx context.Context, mbaNumber string, versionNumber int) ([]DeliveryEntry, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewDeliveryScheduleRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreDeliverySchedule(ctx context.Context, mbaNumber string, versionNumber int, entries []DeliveryEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("could not serialize delivery schedule: %w", err)
	}

	query := `INSERT INTO delivery_schedule (mba_number, version_number, entries)
				VALUES ($1, $2, $3)
				ON CONFLICT (mba_number, version_number) DO UPDATE SET entries = EXCLUDED.entries, updated = now()`
	_, err = r.db.Exec(ctx, query, mbaNumber, versionNumber, payload)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

// GetDeliverySchedule returns nil without error when no schedule is stored:
// missing delivery data is a normal state handled by the aggregator's
// estimate, not a failure.
func (r *RepositoryImpl) GetDeliverySchedule(ctx context.Context, mbaNumber string, versionNumber int) ([]DeliveryEntry, error) {
	query := `SELECT entries FROM delivery_schedule WHERE mba_number = $1 AND version_number = $2`

	var payload []byte
	err := r.db.QueryRow(ctx, query, mbaNumber, versionNumber).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		err := fmt.Errorf("could not query delivery schedule: %w", err)
		log.Error(err)
		return nil, err
	}

	var entries []DeliveryEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		err := fmt.Errorf("could not deserialize delivery schedule for %s v%d: %w", mbaNumber, versionNumber, err)
		log.Error(err)
		return nil, err
	}
	return entries, nil
}

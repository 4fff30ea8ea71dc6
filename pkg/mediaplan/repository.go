package mediaplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrPlanNotFound = errors.New("media plan not found")
var ErrVersionNotFound = errors.New("plan version not found")
var ErrLineItemNotFound = errors.New("line item not found")

type Repository interface {
	CreatePlan(ctx context.Context, plan MediaPlan) (MediaPlan, error)
	GetPlan(ctx context.Context, mbaNumber string) (MediaPlan, error)
	ListPlans(ctx context.Context) ([]MediaPlan, error)
	ListPlansByClient(ctx context.Context, clientSlug string) ([]MediaPlan, error)
	UpdatePlan(ctx context.Context, plan MediaPlan) (MediaPlan, error)
	DeletePlan(ctx context.Context, mbaNumber string) (bool, error)
	CreateVersion(ctx context.Context, version PlanVersion) (PlanVersion, error)
	GetVersion(ctx context.Context, mbaNumber string, versionNumber int) (PlanVersion, error)
	UpdateVersionStatus(ctx context.Context, mbaNumber string, versionNumber int, status Status) (Status, error)
	UpdateLineItem(ctx context.Context, item LineItem) (LineItem, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewMediaPlanRepo(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreatePlan(ctx context.Context, plan MediaPlan) (MediaPlan, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return MediaPlan{}, err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO media_plan (mba_number, uid, client_slug, client_name, campaign_name)
				VALUES ($1, $2, $3, $4, $5)`
	_, err = tx.Exec(ctx, query, plan.MbaNumber, plan.Uid, plan.ClientSlug, plan.ClientName, plan.CampaignName)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return MediaPlan{}, err
	}

	for _, version := range plan.Versions {
		version.MbaNumber = plan.MbaNumber
		if err := insertVersion(ctx, tx, version); err != nil {
			return MediaPlan{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return MediaPlan{}, fmt.Errorf("could not commit transaction: %w", err)
	}
	return plan, nil
}

func (r *RepositoryImpl) GetPlan(ctx context.Context, mbaNumber string) (MediaPlan, error) {
	query := `SELECT uid, client_slug, client_name, campaign_name FROM media_plan WHERE mba_number = $1`

	var plan MediaPlan
	plan.MbaNumber = mbaNumber
	err := r.db.QueryRow(ctx, query, mbaNumber).
		Scan(&plan.Uid, &plan.ClientSlug, &plan.ClientName, &plan.CampaignName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MediaPlan{}, ErrPlanNotFound
		}
		err := fmt.Errorf("could not query media plan: %w", err)
		log.Error(err)
		return MediaPlan{}, err
	}

	versions, err := r.loadVersions(ctx, mbaNumber)
	if err != nil {
		return MediaPlan{}, err
	}
	plan.Versions = versions
	return plan, nil
}

func (r *RepositoryImpl) ListPlans(ctx context.Context) ([]MediaPlan, error) {
	return r.listPlans(ctx, "", false)
}

// ListPlansByClient returns the client's plans with all versions and line
// items loaded, as needed by spend aggregation.
func (r *RepositoryImpl) ListPlansByClient(ctx context.Context, clientSlug string) ([]MediaPlan, error) {
	return r.listPlans(ctx, clientSlug, true)
}

func (r *RepositoryImpl) listPlans(ctx context.Context, clientSlug string, withVersions bool) ([]MediaPlan, error) {
	query := `SELECT mba_number, uid, client_slug, client_name, campaign_name FROM media_plan`
	args := []any{}
	if clientSlug != "" {
		query += ` WHERE client_slug = $1`
		args = append(args, clientSlug)
	}
	query += ` ORDER BY mba_number`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query media plans: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var plans []MediaPlan
	for rows.Next() {
		var plan MediaPlan
		if err := rows.Scan(&plan.MbaNumber, &plan.Uid, &plan.ClientSlug, &plan.ClientName, &plan.CampaignName); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	if withVersions {
		for i := range plans {
			versions, err := r.loadVersions(ctx, plans[i].MbaNumber)
			if err != nil {
				return nil, err
			}
			plans[i].Versions = versions
		}
	}
	return plans, nil
}

func (r *RepositoryImpl) UpdatePlan(ctx context.Context, plan MediaPlan) (MediaPlan, error) {
	query := `UPDATE media_plan SET client_slug = $1, client_name = $2, campaign_name = $3 WHERE mba_number = $4`
	result, err := r.db.Exec(ctx, query, plan.ClientSlug, plan.ClientName, plan.CampaignName, plan.MbaNumber)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return MediaPlan{}, err
	}
	if result.RowsAffected() == 0 {
		return MediaPlan{}, ErrPlanNotFound
	}
	return r.GetPlan(ctx, plan.MbaNumber)
}

func (r *RepositoryImpl) DeletePlan(ctx context.Context, mbaNumber string) (bool, error) {
	query := `DELETE FROM media_plan WHERE mba_number = $1`
	result, err := r.db.Exec(ctx, query, mbaNumber)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *RepositoryImpl) CreateVersion(ctx context.Context, version PlanVersion) (PlanVersion, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return PlanVersion{}, err
	}
	defer tx.Rollback(ctx)

	if err := insertVersion(ctx, tx, version); err != nil {
		return PlanVersion{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return PlanVersion{}, fmt.Errorf("could not commit transaction: %w", err)
	}
	return version, nil
}

func (r *RepositoryImpl) GetVersion(ctx context.Context, mbaNumber string, versionNumber int) (PlanVersion, error) {
	query := `SELECT status, campaign_start, campaign_end, budget
				FROM plan_version WHERE mba_number = $1 AND version_number = $2`

	version := PlanVersion{MbaNumber: mbaNumber, VersionNumber: versionNumber}
	var budget string
	err := r.db.QueryRow(ctx, query, mbaNumber, versionNumber).
		Scan(&version.Status, &version.CampaignStart, &version.CampaignEnd, &budget)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PlanVersion{}, ErrVersionNotFound
		}
		err := fmt.Errorf("could not query plan version: %w", err)
		log.Error(err)
		return PlanVersion{}, err
	}
	version.Budget, err = decimal.NewFromString(budget)
	if err != nil {
		return PlanVersion{}, fmt.Errorf("invalid budget stored for %s v%d: %w", mbaNumber, versionNumber, err)
	}

	items, err := r.loadLineItems(ctx, mbaNumber, versionNumber)
	if err != nil {
		return PlanVersion{}, err
	}
	version.LineItems = items
	return version, nil
}

// UpdateVersionStatus transitions the version and returns the previous status.
func (r *RepositoryImpl) UpdateVersionStatus(ctx context.Context, mbaNumber string, versionNumber int, status Status) (Status, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var oldStatus Status
	query := `SELECT status FROM plan_version WHERE mba_number = $1 AND version_number = $2 FOR UPDATE`
	err = tx.QueryRow(ctx, query, mbaNumber, versionNumber).Scan(&oldStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrVersionNotFound
		}
		err := fmt.Errorf("could not query plan version: %w", err)
		log.Error(err)
		return "", err
	}

	query = `UPDATE plan_version SET status = $1 WHERE mba_number = $2 AND version_number = $3`
	if _, err := tx.Exec(ctx, query, status, mbaNumber, versionNumber); err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("could not commit transaction: %w", err)
	}
	return oldStatus, nil
}

// UpdateLineItem replaces the item's burst records wholesale. Bursts are
// stored as one JSONB array per line item, mirroring how the plan editor
// submits them.
func (r *RepositoryImpl) UpdateLineItem(ctx context.Context, item LineItem) (LineItem, error) {
	payload, err := json.Marshal(item.Bursts)
	if err != nil {
		return LineItem{}, fmt.Errorf("could not serialize bursts: %w", err)
	}

	query := `UPDATE line_item SET media_type = $1, bursts = $2
				WHERE id = $3 AND mba_number = $4 AND version_number = $5`
	result, err := r.db.Exec(ctx, query, item.MediaType, payload, item.Id, item.MbaNumber, item.VersionNumber)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return LineItem{}, err
	}
	if result.RowsAffected() == 0 {
		return LineItem{}, ErrLineItemNotFound
	}
	return item, nil
}

func insertVersion(ctx context.Context, tx pgx.Tx, version PlanVersion) error {
	query := `INSERT INTO plan_version (mba_number, version_number, status, campaign_start, campaign_end, budget)
				VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := tx.Exec(ctx, query,
		version.MbaNumber,
		version.VersionNumber,
		version.Status,
		version.CampaignStart,
		version.CampaignEnd,
		version.Budget.StringFixed(2),
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}

	for _, item := range version.LineItems {
		payload, err := json.Marshal(item.Bursts)
		if err != nil {
			return fmt.Errorf("could not serialize bursts: %w", err)
		}
		query := `INSERT INTO line_item (mba_number, version_number, media_type, bursts)
					VALUES ($1, $2, $3, $4)`
		_, err = tx.Exec(ctx, query, version.MbaNumber, version.VersionNumber, item.MediaType, payload)
		if err != nil {
			err := fmt.Errorf("could not execute query: %w", err)
			log.Error(err)
			return err
		}
	}
	return nil
}

func (r *RepositoryImpl) loadVersions(ctx context.Context, mbaNumber string) ([]PlanVersion, error) {
	query := `SELECT version_number, status, campaign_start, campaign_end, budget
				FROM plan_version WHERE mba_number = $1 ORDER BY version_number`
	rows, err := r.db.Query(ctx, query, mbaNumber)
	if err != nil {
		err := fmt.Errorf("could not query plan versions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var versions []PlanVersion
	for rows.Next() {
		version := PlanVersion{MbaNumber: mbaNumber}
		var budget string
		if err := rows.Scan(&version.VersionNumber, &version.Status, &version.CampaignStart, &version.CampaignEnd, &budget); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		version.Budget, err = decimal.NewFromString(budget)
		if err != nil {
			return nil, fmt.Errorf("invalid budget stored for %s v%d: %w", mbaNumber, version.VersionNumber, err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}

	for i := range versions {
		items, err := r.loadLineItems(ctx, mbaNumber, versions[i].VersionNumber)
		if err != nil {
			return nil, err
		}
		versions[i].LineItems = items
	}
	return versions, nil
}

func (r *RepositoryImpl) loadLineItems(ctx context.Context, mbaNumber string, versionNumber int) ([]LineItem, error) {
	query := `SELECT id, media_type, bursts FROM line_item
				WHERE mba_number = $1 AND version_number = $2 ORDER BY id`
	rows, err := r.db.Query(ctx, query, mbaNumber, versionNumber)
	if err != nil {
		err := fmt.Errorf("could not query line items: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		item := LineItem{MbaNumber: mbaNumber, VersionNumber: versionNumber}
		var payload []byte
		if err := rows.Scan(&item.Id, &item.MediaType, &payload); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		if err := json.Unmarshal(payload, &item.Bursts); err != nil {
			err := fmt.Errorf("could not deserialize bursts for line item %d: %w", item.Id, err)
			log.Error(err)
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return items, nil
}

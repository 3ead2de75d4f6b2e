package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

// PostgresPlansStorage: Postgres storage для сохранённых планов
type PostgresPlansStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresPlansStorage(pool *pgxpool.Pool) *PostgresPlansStorage {
	return &PostgresPlansStorage{pool: pool}
}

const planColumns = `id, profile_id, name, plan_type, maintenance_calories, daily_calories, input, result, created_at`

func scanPlan(row pgx.Row, p *storage.SavedPlan) error {
	return row.Scan(
		&p.ID,
		&p.ProfileID,
		&p.Name,
		&p.PlanType,
		&p.MaintenanceCalories,
		&p.DailyCalories,
		&p.Input,
		&p.Result,
		&p.CreatedAt,
	)
}

func (s *PostgresPlansStorage) CreatePlan(ctx context.Context, plan *storage.SavedPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}

	query := `
		INSERT INTO saved_plans (id, profile_id, name, plan_type, maintenance_calories, daily_calories, input, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		plan.ID,
		plan.ProfileID,
		plan.Name,
		plan.PlanType,
		plan.MaintenanceCalories,
		plan.DailyCalories,
		plan.Input,
		plan.Result,
	).Scan(&plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (s *PostgresPlansStorage) GetPlan(ctx context.Context, id uuid.UUID) (*storage.SavedPlan, error) {
	query := `SELECT ` + planColumns + ` FROM saved_plans WHERE id = $1`

	var plan storage.SavedPlan
	err := scanPlan(s.pool.QueryRow(ctx, query, id), &plan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &plan, nil
}

func (s *PostgresPlansStorage) ListPlans(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.SavedPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM saved_plans
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := []storage.SavedPlan{}
	for rows.Next() {
		var p storage.SavedPlan
		if err := scanPlan(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

func (s *PostgresPlansStorage) DeletePlan(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM saved_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

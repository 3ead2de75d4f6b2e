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

type nutritionTargetsStorage struct {
	pool *pgxpool.Pool
}

func newNutritionTargetsStorage(pool *pgxpool.Pool) *nutritionTargetsStorage {
	return &nutritionTargetsStorage{pool: pool}
}

const targetColumns = `id, owner_user_id, profile_id, calories_kcal, protein_g, fat_g, carbs_g, source_plan_id, source_week, created_at, updated_at`

func scanTarget(row pgx.Row, t *storage.NutritionTarget) error {
	return row.Scan(
		&t.ID,
		&t.OwnerUserID,
		&t.ProfileID,
		&t.CaloriesKcal,
		&t.ProteinG,
		&t.FatG,
		&t.CarbsG,
		&t.SourcePlanID,
		&t.SourceWeek,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

func (s *nutritionTargetsStorage) Get(ctx context.Context, ownerUserID string, profileID uuid.UUID) (*storage.NutritionTarget, error) {
	query := `
		SELECT ` + targetColumns + `
		FROM nutrition_targets
		WHERE owner_user_id = $1 AND profile_id = $2
	`

	var target storage.NutritionTarget
	err := scanTarget(s.pool.QueryRow(ctx, query, ownerUserID, profileID), &target)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nutrition targets: %w", err)
	}

	return &target, nil
}

func (s *nutritionTargetsStorage) Upsert(ctx context.Context, ownerUserID string, profileID uuid.UUID, upsert storage.NutritionTargetUpsert) (*storage.NutritionTarget, error) {
	query := `
		INSERT INTO nutrition_targets (owner_user_id, profile_id, calories_kcal, protein_g, fat_g, carbs_g, source_plan_id, source_week)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_user_id, profile_id)
		DO UPDATE SET
			calories_kcal = EXCLUDED.calories_kcal,
			protein_g = EXCLUDED.protein_g,
			fat_g = EXCLUDED.fat_g,
			carbs_g = EXCLUDED.carbs_g,
			source_plan_id = EXCLUDED.source_plan_id,
			source_week = EXCLUDED.source_week,
			updated_at = now()
		RETURNING ` + targetColumns

	var target storage.NutritionTarget
	err := scanTarget(s.pool.QueryRow(
		ctx,
		query,
		ownerUserID,
		profileID,
		upsert.CaloriesKcal,
		upsert.ProteinG,
		upsert.FatG,
		upsert.CarbsG,
		upsert.SourcePlanID,
		upsert.SourceWeek,
	), &target)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert nutrition targets: %w", err)
	}

	return &target, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

type customFoodsStorage struct {
	pool *pgxpool.Pool
}

func newCustomFoodsStorage(pool *pgxpool.Pool) *customFoodsStorage {
	return &customFoodsStorage{pool: pool}
}

const customFoodColumns = `id, owner_user_id, profile_id, name,
	kcal_per_100g, protein_g_per_100g, carbs_g_per_100g, fat_g_per_100g,
	created_at, updated_at`

func scanCustomFood(row pgx.Row, f *storage.CustomFood) error {
	return row.Scan(
		&f.ID,
		&f.OwnerUserID,
		&f.ProfileID,
		&f.Name,
		&f.KcalPer100g,
		&f.ProteinGPer100g,
		&f.CarbsGPer100g,
		&f.FatGPer100g,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
}

func (s *customFoodsStorage) List(ctx context.Context, ownerUserID string, profileID uuid.UUID, query string, limit, offset int) ([]storage.CustomFood, int, error) {
	args := []any{ownerUserID, profileID}
	whereClause := "WHERE owner_user_id = $1 AND profile_id = $2"

	if q := strings.TrimSpace(query); q != "" {
		whereClause += " AND LOWER(name) LIKE $3"
		args = append(args, "%"+strings.ToLower(q)+"%")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM custom_foods %s", whereClause)
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count custom foods: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM custom_foods
		%s
		ORDER BY LOWER(name) ASC
		LIMIT $%d OFFSET $%d
	`, customFoodColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list custom foods: %w", err)
	}
	defer rows.Close()

	foods := []storage.CustomFood{}
	for rows.Next() {
		var f storage.CustomFood
		if err := scanCustomFood(rows, &f); err != nil {
			return nil, 0, fmt.Errorf("failed to scan custom food: %w", err)
		}
		foods = append(foods, f)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating custom foods: %w", err)
	}

	return foods, total, nil
}

func (s *customFoodsStorage) FindByName(ctx context.Context, ownerUserID string, profileID uuid.UUID, name string) (*storage.CustomFood, error) {
	query := `
		SELECT ` + customFoodColumns + `
		FROM custom_foods
		WHERE owner_user_id = $1 AND profile_id = $2 AND LOWER(name) = LOWER($3)
	`

	var f storage.CustomFood
	err := scanCustomFood(s.pool.QueryRow(ctx, query, ownerUserID, profileID, strings.TrimSpace(name)), &f)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find custom food: %w", err)
	}
	return &f, nil
}

func (s *customFoodsStorage) Upsert(ctx context.Context, ownerUserID string, profileID uuid.UUID, req storage.CustomFoodUpsert) (storage.CustomFood, error) {
	var (
		f   storage.CustomFood
		err error
	)

	if req.ID != nil {
		query := `
			UPDATE custom_foods
			SET name = $1, kcal_per_100g = $2, protein_g_per_100g = $3,
			    carbs_g_per_100g = $4, fat_g_per_100g = $5, updated_at = now()
			WHERE id = $6 AND owner_user_id = $7
			RETURNING ` + customFoodColumns

		err = scanCustomFood(s.pool.QueryRow(ctx, query,
			req.Name,
			req.KcalPer100g,
			req.ProteinGPer100g,
			req.CarbsGPer100g,
			req.FatGPer100g,
			*req.ID,
			ownerUserID,
		), &f)
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.CustomFood{}, ErrNotFound
		}
	} else {
		query := `
			INSERT INTO custom_foods (owner_user_id, profile_id, name,
			                          kcal_per_100g, protein_g_per_100g, carbs_g_per_100g, fat_g_per_100g)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + customFoodColumns

		err = scanCustomFood(s.pool.QueryRow(ctx, query,
			ownerUserID,
			profileID,
			req.Name,
			req.KcalPer100g,
			req.ProteinGPer100g,
			req.CarbsGPer100g,
			req.FatGPer100g,
		), &f)
	}

	if isUniqueViolation(err) {
		return storage.CustomFood{}, storage.ErrConflict
	}
	if err != nil {
		return storage.CustomFood{}, fmt.Errorf("failed to save custom food: %w", err)
	}

	return f, nil
}

func (s *customFoodsStorage) Delete(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM custom_foods WHERE id = $1 AND owner_user_id = $2`, id, ownerUserID)
	if err != nil {
		return fmt.Errorf("failed to delete custom food: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

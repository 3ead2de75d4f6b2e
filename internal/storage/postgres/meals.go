package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

// PostgresMealsStorage keeps meal items in a JSONB column next to the totals.
type PostgresMealsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresMealsStorage(pool *pgxpool.Pool) *PostgresMealsStorage {
	return &PostgresMealsStorage{pool: pool}
}

const mealColumns = `id, profile_id, name, meal_date::text, items, calories_kcal, protein_g, carbs_g, fat_g, created_at`

func scanMeal(row pgx.Row, m *storage.Meal) error {
	var items []byte
	err := row.Scan(
		&m.ID,
		&m.ProfileID,
		&m.Name,
		&m.Date,
		&items,
		&m.CaloriesKcal,
		&m.ProteinG,
		&m.CarbsG,
		&m.FatG,
		&m.CreatedAt,
	)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(items, &m.Items); err != nil {
		return fmt.Errorf("failed to decode meal items: %w", err)
	}
	return nil
}

func (s *PostgresMealsStorage) CreateMeal(ctx context.Context, meal *storage.Meal) error {
	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	if meal.Items == nil {
		meal.Items = []storage.MealItem{}
	}

	items, err := json.Marshal(meal.Items)
	if err != nil {
		return fmt.Errorf("failed to encode meal items: %w", err)
	}

	query := `
		INSERT INTO meals (id, profile_id, name, meal_date, items, calories_kcal, protein_g, carbs_g, fat_g, created_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	err = s.pool.QueryRow(ctx, query,
		meal.ID,
		meal.ProfileID,
		meal.Name,
		meal.Date,
		items,
		meal.CaloriesKcal,
		meal.ProteinG,
		meal.CarbsG,
		meal.FatG,
	).Scan(&meal.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}
	return nil
}

func (s *PostgresMealsStorage) GetMeal(ctx context.Context, id uuid.UUID) (*storage.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE id = $1`

	var meal storage.Meal
	err := scanMeal(s.pool.QueryRow(ctx, query, id), &meal)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return &meal, nil
}

func (s *PostgresMealsStorage) ListMeals(ctx context.Context, profileID uuid.UUID, date string) ([]storage.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE profile_id = $1 AND meal_date = $2::date
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, profileID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []storage.Meal{}
	for rows.Next() {
		var m storage.Meal
		if err := scanMeal(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func (s *PostgresMealsStorage) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

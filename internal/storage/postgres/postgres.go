package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

// ErrNotFound is kept as an alias so callers can match either name.
var ErrNotFound = storage.ErrNotFound

const uniqueViolation = "23505"

// PostgresStorage: Postgres реализация Storage и всех под-хранилищ
type PostgresStorage struct {
	pool             *pgxpool.Pool
	plans            *PostgresPlansStorage
	reports          *PostgresReportsStorage
	meals            *PostgresMealsStorage
	nutritionTargets *nutritionTargetsStorage
	customFoods      *customFoodsStorage
}

// New создаёт PostgresStorage и обеспечивает owner профиль по умолчанию
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	ps := &PostgresStorage{
		pool:             pool,
		plans:            NewPostgresPlansStorage(pool),
		reports:          NewPostgresReportsStorage(pool),
		meals:            NewPostgresMealsStorage(pool),
		nutritionTargets: newNutritionTargetsStorage(pool),
		customFoods:      newCustomFoodsStorage(pool),
	}

	// Создаём owner профиль, если его нет
	if err := ps.ensureOwnerProfile(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return ps, nil
}

// ensureOwnerProfile создаёт owner профиль, если его ещё нет
func (p *PostgresStorage) ensureOwnerProfile(ctx context.Context) error {
	query := `
		INSERT INTO profiles (id, owner_user_id, type, name, weight_unit, gender, created_at, updated_at)
		VALUES ($1, $2, 'owner', $3, 'metric', '', $4, $5)
		ON CONFLICT (owner_user_id) WHERE type = 'owner' DO NOTHING
	`

	now := time.Now()
	_, err := p.pool.Exec(ctx, query, uuid.New(), "default", "Me", now, now)
	return err
}

const profileColumns = `id, owner_user_id, type, name, weight_unit, gender, created_at, updated_at`

func scanProfile(row pgx.Row, prof *storage.Profile) error {
	return row.Scan(
		&prof.ID,
		&prof.OwnerUserID,
		&prof.Type,
		&prof.Name,
		&prof.WeightUnit,
		&prof.Gender,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	)
}

func (p *PostgresStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at ASC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []storage.Profile{}
	for rows.Next() {
		var prof storage.Profile
		if err := scanProfile(rows, &prof); err != nil {
			return nil, err
		}
		profiles = append(profiles, prof)
	}

	return profiles, rows.Err()
}

func (p *PostgresStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var prof storage.Profile
	err := scanProfile(p.pool.QueryRow(ctx, query, id), &prof)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &prof, nil
}

func (p *PostgresStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.WeightUnit == "" {
		profile.WeightUnit = "metric"
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, query,
		profile.ID,
		profile.OwnerUserID,
		profile.Type,
		profile.Name,
		profile.WeightUnit,
		profile.Gender,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	return err
}

func (p *PostgresStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	profile.UpdatedAt = time.Now()

	query := `
		UPDATE profiles
		SET name = $2, weight_unit = $3, gender = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := p.pool.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.WeightUnit,
		profile.Gender,
		profile.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// GetPlansStorage returns the saved plans storage
func (p *PostgresStorage) GetPlansStorage() storage.PlansStorage {
	return p.plans
}

// GetReportsStorage returns the reports storage
func (p *PostgresStorage) GetReportsStorage() storage.ReportsStorage {
	return p.reports
}

// GetMealsStorage returns the meals storage
func (p *PostgresStorage) GetMealsStorage() storage.MealsStorage {
	return p.meals
}

// GetNutritionTargetsStorage returns nutrition targets storage
func (p *PostgresStorage) GetNutritionTargetsStorage() storage.NutritionTargetsStorage {
	return p.nutritionTargets
}

// GetCustomFoodsStorage returns user-defined foods storage
func (p *PostgresStorage) GetCustomFoodsStorage() storage.CustomFoodsStorage {
	return p.customFoods
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// MetricsCollector exposes pgxpool stats for the prometheus registry.
func (p *PostgresStorage) MetricsCollector() prometheus.Collector {
	return pgxpoolprometheus.NewCollector(p.pool, map[string]string{"db_name": "foodanalyserr"})
}

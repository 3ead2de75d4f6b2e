package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by every store when a row does not exist.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Profile представляет профиль пользователя (owner или guest)
type Profile struct {
	ID          uuid.UUID
	OwnerUserID string // "default" when auth is off
	Type        string // "owner" или "guest"
	Name        string
	WeightUnit  string // metric | imperial, calculator default
	Gender      string // optional calculator default
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Storage: интерфейс для работы с профилями
type Storage interface {
	ListProfiles(ctx context.Context) ([]Profile, error)

	// GetProfile returns ErrNotFound for an unknown id.
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)

	CreateProfile(ctx context.Context, profile *Profile) error
	UpdateProfile(ctx context.Context, profile *Profile) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	// Close закрывает соединение (для Postgres)
	Close() error
}

// PlansStorage keeps calculated plans. Input and Result are JSON snapshots of
// the calculator profile and the plan, so a saved plan never changes when
// the engine does.
type PlansStorage interface {
	CreatePlan(ctx context.Context, plan *SavedPlan) error
	GetPlan(ctx context.Context, id uuid.UUID) (*SavedPlan, error)
	ListPlans(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]SavedPlan, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
}

type SavedPlan struct {
	ID                  uuid.UUID
	ProfileID           uuid.UUID
	Name                string
	PlanType            string
	MaintenanceCalories int
	DailyCalories       int
	Input               []byte // JSON
	Result              []byte // JSON
	CreatedAt           time.Time
}

// NutritionTargetsStorage: интерфейс для работы с целями по питанию
type NutritionTargetsStorage interface {
	// Get returns nil, nil when no targets exist yet.
	Get(ctx context.Context, ownerUserID string, profileID uuid.UUID) (*NutritionTarget, error)

	// Upsert создаёт или обновляет цели по питанию
	Upsert(ctx context.Context, ownerUserID string, profileID uuid.UUID, upsert NutritionTargetUpsert) (*NutritionTarget, error)
}

// NutritionTarget represents nutrition goals/targets for a profile.
type NutritionTarget struct {
	ID           uuid.UUID
	OwnerUserID  string
	ProfileID    uuid.UUID
	CaloriesKcal int
	ProteinG     int
	FatG         int
	CarbsG       int
	SourcePlanID *uuid.UUID // set when applied from a saved plan
	SourceWeek   *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NutritionTargetUpsert is used for creating/updating targets.
type NutritionTargetUpsert struct {
	CaloriesKcal int
	ProteinG     int
	FatG         int
	CarbsG       int
	SourcePlanID *uuid.UUID
	SourceWeek   *int
}

// MealsStorage keeps logged meals. Date is the local calendar day (YYYY-MM-DD).
type MealsStorage interface {
	CreateMeal(ctx context.Context, meal *Meal) error
	GetMeal(ctx context.Context, id uuid.UUID) (*Meal, error)
	ListMeals(ctx context.Context, profileID uuid.UUID, date string) ([]Meal, error)
	DeleteMeal(ctx context.Context, id uuid.UUID) error
}

type Meal struct {
	ID           uuid.UUID
	ProfileID    uuid.UUID
	Name         string
	Date         string
	Items        []MealItem
	CaloriesKcal float64
	ProteinG     float64
	CarbsG       float64
	FatG         float64
	CreatedAt    time.Time
}

// MealItem is one resolved food line with values already scaled to Grams.
type MealItem struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Grams        float64 `json:"grams"`
	Source       string  `json:"source"`
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
}

// CustomFoodsStorage manages user-defined foods with nutrition per 100 g.
type CustomFoodsStorage interface {
	List(ctx context.Context, ownerUserID string, profileID uuid.UUID, query string, limit, offset int) ([]CustomFood, int, error)
	// FindByName matches case-insensitively; nil, nil when absent.
	FindByName(ctx context.Context, ownerUserID string, profileID uuid.UUID, name string) (*CustomFood, error)
	Upsert(ctx context.Context, ownerUserID string, profileID uuid.UUID, req CustomFoodUpsert) (CustomFood, error)
	Delete(ctx context.Context, ownerUserID string, id uuid.UUID) error
}

type CustomFood struct {
	ID              uuid.UUID
	OwnerUserID     string
	ProfileID       uuid.UUID
	Name            string
	KcalPer100g     float64
	ProteinGPer100g float64
	CarbsGPer100g   float64
	FatGPer100g     float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CustomFoodUpsert struct {
	ID              *uuid.UUID // nil creates a new food
	Name            string
	KcalPer100g     float64
	ProteinGPer100g float64
	CarbsGPer100g   float64
	FatGPer100g     float64
}

// ReportsStorage: интерфейс для работы с экспортами планов
type ReportsStorage interface {
	// CreateReport creates metadata and, in local mode, keeps Data in memory.
	CreateReport(ctx context.Context, report *ReportMeta) error
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)
	ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]ReportMeta, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// ReportMeta: метаданные экспорта
type ReportMeta struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	PlanID    uuid.UUID
	Format    string  // "pdf" or "csv"
	ObjectKey *string // S3 object key (NULL in local mode)
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte // local mode only, never stored in DB
}

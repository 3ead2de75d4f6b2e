package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

// ErrNotFound is kept as an alias so callers can match either name.
var ErrNotFound = storage.ErrNotFound

// MemoryStorage: in-memory реализация Storage и всех под-хранилищ
type MemoryStorage struct {
	mu               sync.RWMutex
	profiles         map[uuid.UUID]storage.Profile
	plans            *PlansMemoryStorage
	reports          *ReportsMemoryStorage
	meals            *MealsMemoryStorage
	nutritionTargets *nutritionTargetsStorage
	customFoods      *customFoodsStorage
}

// New создаёт новый MemoryStorage с owner профилем по умолчанию
func New() *MemoryStorage {
	ownerID := uuid.New()
	now := time.Now()
	owner := storage.Profile{
		ID:          ownerID,
		OwnerUserID: "default",
		Type:        "owner",
		Name:        "Me",
		WeightUnit:  "metric",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return &MemoryStorage{
		profiles: map[uuid.UUID]storage.Profile{
			ownerID: owner,
		},
		plans:            NewPlansMemoryStorage(),
		reports:          NewReportsMemoryStorage(),
		meals:            NewMealsMemoryStorage(),
		nutritionTargets: newNutritionTargetsStorage(),
		customFoods:      newCustomFoodsStorage(),
	}
}

func (m *MemoryStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]storage.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, p)
	}

	return profiles, nil
}

func (m *MemoryStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &p, nil
}

func (m *MemoryStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.WeightUnit == "" {
		profile.WeightUnit = "metric"
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	m.profiles[profile.ID] = *profile

	return nil
}

func (m *MemoryStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[profile.ID]; !ok {
		return ErrNotFound
	}

	profile.UpdatedAt = time.Now()
	m.profiles[profile.ID] = *profile

	return nil
}

func (m *MemoryStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[id]; !ok {
		return ErrNotFound
	}

	delete(m.profiles, id)

	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

// GetPlansStorage returns the saved plans storage
func (m *MemoryStorage) GetPlansStorage() storage.PlansStorage {
	return m.plans
}

// GetReportsStorage returns the reports storage
func (m *MemoryStorage) GetReportsStorage() storage.ReportsStorage {
	return m.reports
}

// GetMealsStorage returns the meals storage
func (m *MemoryStorage) GetMealsStorage() storage.MealsStorage {
	return m.meals
}

// GetNutritionTargetsStorage returns nutrition targets storage
func (m *MemoryStorage) GetNutritionTargetsStorage() storage.NutritionTargetsStorage {
	return m.nutritionTargets
}

// GetCustomFoodsStorage returns user-defined foods storage
func (m *MemoryStorage) GetCustomFoodsStorage() storage.CustomFoodsStorage {
	return m.customFoods
}

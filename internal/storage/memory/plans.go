package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

// PlansMemoryStorage: in-memory storage для сохранённых планов
type PlansMemoryStorage struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]storage.SavedPlan
}

func NewPlansMemoryStorage() *PlansMemoryStorage {
	return &PlansMemoryStorage{
		plans: make(map[uuid.UUID]storage.SavedPlan),
	}
}

func (s *PlansMemoryStorage) CreatePlan(ctx context.Context, plan *storage.SavedPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = time.Now()

	s.plans[plan.ID] = *plan
	return nil
}

func (s *PlansMemoryStorage) GetPlan(ctx context.Context, id uuid.UUID) (*storage.SavedPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &plan, nil
}

func (s *PlansMemoryStorage) ListPlans(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.SavedPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.SavedPlan{}
	for _, p := range s.plans {
		if p.ProfileID == profileID {
			result = append(result, p)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return paginate(result, limit, offset), nil
}

func (s *PlansMemoryStorage) DeletePlan(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return ErrNotFound
	}
	delete(s.plans, id)
	return nil
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

type MealsMemoryStorage struct {
	mu    sync.RWMutex
	meals map[uuid.UUID]storage.Meal
	seq   map[uuid.UUID]int64 // insertion order for equal timestamps
	next  int64
}

func NewMealsMemoryStorage() *MealsMemoryStorage {
	return &MealsMemoryStorage{
		meals: make(map[uuid.UUID]storage.Meal),
		seq:   make(map[uuid.UUID]int64),
	}
}

func (s *MealsMemoryStorage) CreateMeal(ctx context.Context, meal *storage.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	meal.CreatedAt = time.Now()

	stored := *meal
	stored.Items = append([]storage.MealItem(nil), meal.Items...)
	s.meals[meal.ID] = stored
	s.next++
	s.seq[meal.ID] = s.next
	return nil
}

func (s *MealsMemoryStorage) GetMeal(ctx context.Context, id uuid.UUID) (*storage.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meal, ok := s.meals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &meal, nil
}

// ListMeals returns the meals of one day in the order they were logged.
func (s *MealsMemoryStorage) ListMeals(ctx context.Context, profileID uuid.UUID, date string) ([]storage.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []storage.Meal{}
	for _, m := range s.meals {
		if m.ProfileID == profileID && m.Date == date {
			result = append(result, m)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return s.seq[result[i].ID] < s.seq[result[j].ID]
	})
	return result, nil
}

func (s *MealsMemoryStorage) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meals[id]; !ok {
		return ErrNotFound
	}
	delete(s.meals, id)
	delete(s.seq, id)
	return nil
}

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

type customFoodsStorage struct {
	mu    sync.RWMutex
	foods map[uuid.UUID]*storage.CustomFood
}

func newCustomFoodsStorage() *customFoodsStorage {
	return &customFoodsStorage{
		foods: make(map[uuid.UUID]*storage.CustomFood),
	}
}

// scoped returns foods of one owner+profile sorted by name. Caller holds the lock.
func (s *customFoodsStorage) scoped(ownerUserID string, profileID uuid.UUID) []*storage.CustomFood {
	var out []*storage.CustomFood
	for _, f := range s.foods {
		if f.OwnerUserID == ownerUserID && f.ProfileID == profileID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (s *customFoodsStorage) List(ctx context.Context, ownerUserID string, profileID uuid.UUID, query string, limit, offset int) ([]storage.CustomFood, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queryLower := strings.ToLower(strings.TrimSpace(query))
	results := []storage.CustomFood{}
	for _, f := range s.scoped(ownerUserID, profileID) {
		if queryLower != "" && !strings.Contains(strings.ToLower(f.Name), queryLower) {
			continue
		}
		results = append(results, *f)
	}

	return paginate(results, limit, offset), len(results), nil
}

func (s *customFoodsStorage) FindByName(ctx context.Context, ownerUserID string, profileID uuid.UUID, name string) (*storage.CustomFood, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.scoped(ownerUserID, profileID) {
		if strings.EqualFold(f.Name, strings.TrimSpace(name)) {
			copied := *f
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *customFoodsStorage) Upsert(ctx context.Context, ownerUserID string, profileID uuid.UUID, req storage.CustomFoodUpsert) (storage.CustomFood, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	for _, f := range s.scoped(ownerUserID, profileID) {
		if strings.EqualFold(f.Name, req.Name) && (req.ID == nil || *req.ID != f.ID) {
			return storage.CustomFood{}, storage.ErrConflict
		}
	}

	var food *storage.CustomFood
	if req.ID != nil {
		existing, ok := s.foods[*req.ID]
		if !ok || existing.OwnerUserID != ownerUserID {
			return storage.CustomFood{}, ErrNotFound
		}
		food = existing
	} else {
		food = &storage.CustomFood{
			ID:          uuid.New(),
			OwnerUserID: ownerUserID,
			ProfileID:   profileID,
			CreatedAt:   now,
		}
		s.foods[food.ID] = food
	}

	food.Name = req.Name
	food.KcalPer100g = req.KcalPer100g
	food.ProteinGPer100g = req.ProteinGPer100g
	food.CarbsGPer100g = req.CarbsGPer100g
	food.FatGPer100g = req.FatGPer100g
	food.UpdatedAt = now

	return *food, nil
}

func (s *customFoodsStorage) Delete(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	food, ok := s.foods[id]
	if !ok || food.OwnerUserID != ownerUserID {
		return ErrNotFound
	}
	delete(s.foods, id)
	return nil
}

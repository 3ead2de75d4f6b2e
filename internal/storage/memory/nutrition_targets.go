package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

type nutritionTargetsStorage struct {
	mu      sync.RWMutex
	targets map[string]*storage.NutritionTarget // key: "ownerUserID:profileID"
}

func newNutritionTargetsStorage() *nutritionTargetsStorage {
	return &nutritionTargetsStorage{
		targets: make(map[string]*storage.NutritionTarget),
	}
}

func targetKey(ownerUserID string, profileID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", ownerUserID, profileID)
}

func (s *nutritionTargetsStorage) Get(ctx context.Context, ownerUserID string, profileID uuid.UUID) (*storage.NutritionTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target, ok := s.targets[targetKey(ownerUserID, profileID)]
	if !ok {
		return nil, nil
	}

	copied := *target
	return &copied, nil
}

func (s *nutritionTargetsStorage) Upsert(ctx context.Context, ownerUserID string, profileID uuid.UUID, upsert storage.NutritionTargetUpsert) (*storage.NutritionTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := targetKey(ownerUserID, profileID)
	now := time.Now().UTC()

	target, ok := s.targets[key]
	if !ok {
		target = &storage.NutritionTarget{
			ID:          uuid.New(),
			OwnerUserID: ownerUserID,
			ProfileID:   profileID,
			CreatedAt:   now,
		}
		s.targets[key] = target
	}

	target.CaloriesKcal = upsert.CaloriesKcal
	target.ProteinG = upsert.ProteinG
	target.FatG = upsert.FatG
	target.CarbsG = upsert.CarbsG
	target.SourcePlanID = upsert.SourcePlanID
	target.SourceWeek = upsert.SourceWeek
	target.UpdatedAt = now

	copied := *target
	return &copied, nil
}

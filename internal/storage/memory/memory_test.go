package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

func TestNew_SeedsOwnerProfile(t *testing.T) {
	st := New()

	profiles, err := st.ListProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "owner", profiles[0].Type)
	assert.Equal(t, "default", profiles[0].OwnerUserID)
	assert.Equal(t, "metric", profiles[0].WeightUnit)
}

func TestProfiles_NotFound(t *testing.T) {
	st := New()
	ctx := context.Background()

	_, err := st.GetProfile(ctx, uuid.New())
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	err = st.UpdateProfile(ctx, &storage.Profile{ID: uuid.New()})
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	err = st.DeleteProfile(ctx, uuid.New())
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestPlans_ListNewestFirstWithPagination(t *testing.T) {
	st := New().GetPlansStorage()
	ctx := context.Background()
	profileID := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p := &storage.SavedPlan{ProfileID: profileID, PlanType: "deficit"}
		require.NoError(t, st.CreatePlan(ctx, p))
		ids = append(ids, p.ID)
		time.Sleep(2 * time.Millisecond)
	}
	require.NoError(t, st.CreatePlan(ctx, &storage.SavedPlan{ProfileID: uuid.New()}))

	all, err := st.ListPlans(ctx, profileID, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)

	page, err := st.ListPlans(ctx, profileID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)

	empty, err := st.ListPlans(ctx, profileID, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, st.DeletePlan(ctx, ids[0]))
	_, err = st.GetPlan(ctx, ids[0])
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMeals_ListByDay(t *testing.T) {
	st := New().GetMealsStorage()
	ctx := context.Background()
	profileID := uuid.New()

	items := []storage.MealItem{{Name: "rice", Grams: 150, CaloriesKcal: 195}}
	require.NoError(t, st.CreateMeal(ctx, &storage.Meal{ProfileID: profileID, Date: "2026-01-02", Items: items}))
	require.NoError(t, st.CreateMeal(ctx, &storage.Meal{ProfileID: profileID, Date: "2026-01-03"}))

	// mutating the caller's slice must not leak into the store
	items[0].Name = "changed"

	meals, err := st.ListMeals(ctx, profileID, "2026-01-02")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "rice", meals[0].Items[0].Name)
}

func TestNutritionTargets_Upsert(t *testing.T) {
	st := New().GetNutritionTargetsStorage()
	ctx := context.Background()
	profileID := uuid.New()

	got, err := st.Get(ctx, "default", profileID)
	require.NoError(t, err)
	assert.Nil(t, got)

	planID := uuid.New()
	week := 3
	first, err := st.Upsert(ctx, "default", profileID, storage.NutritionTargetUpsert{
		CaloriesKcal: 2100, ProteinG: 150, FatG: 70, CarbsG: 210,
		SourcePlanID: &planID, SourceWeek: &week,
	})
	require.NoError(t, err)

	second, err := st.Upsert(ctx, "default", profileID, storage.NutritionTargetUpsert{CaloriesKcal: 2000})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2000, second.CaloriesKcal)
	assert.Nil(t, second.SourcePlanID)
}

func TestCustomFoods_ConflictAndLookup(t *testing.T) {
	st := New().GetCustomFoodsStorage()
	ctx := context.Background()
	profileID := uuid.New()

	oats, err := st.Upsert(ctx, "default", profileID, storage.CustomFoodUpsert{Name: "Oats", KcalPer100g: 389})
	require.NoError(t, err)

	_, err = st.Upsert(ctx, "default", profileID, storage.CustomFoodUpsert{Name: "oats"})
	assert.ErrorIs(t, err, storage.ErrConflict)

	found, err := st.FindByName(ctx, "default", profileID, " OATS ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, oats.ID, found.ID)

	// renaming itself to the same name is not a conflict
	_, err = st.Upsert(ctx, "default", profileID, storage.CustomFoodUpsert{ID: &oats.ID, Name: "Oats", KcalPer100g: 380})
	require.NoError(t, err)

	list, total, err := st.List(ctx, "default", profileID, "oa", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.InDelta(t, 380.0, list[0].KcalPer100g, 0.001)

	assert.ErrorIs(t, st.Delete(ctx, "someone-else", oats.ID), storage.ErrNotFound)
	require.NoError(t, st.Delete(ctx, "default", oats.ID))
}

func TestReports_ListOmitsData(t *testing.T) {
	st := New().GetReportsStorage()
	ctx := context.Background()
	profileID := uuid.New()

	r := &storage.ReportMeta{ProfileID: profileID, PlanID: uuid.New(), Format: "csv", Status: "ready", Data: []byte("a,b")}
	require.NoError(t, st.CreateReport(ctx, r))

	list, err := st.ListReports(ctx, profileID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Data)

	got, err := st.GetReport(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("a,b"), got.Data)
}

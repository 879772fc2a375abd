package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taeahn1/betterlife/models"
)

func mustAdd(t *testing.T, store EventStore, userID string, at models.ActivityType, ts time.Time, metadata any) *models.Event {
	t.Helper()

	var raw []byte
	if metadata != nil {
		var err error
		raw, err = json.Marshal(metadata)
		require.NoError(t, err)
	}

	event, err := store.Add(context.Background(), EventDraft{
		UserID:       userID,
		ActivityType: at,
		Timestamp:    ts,
		Metadata:     raw,
	})
	require.NoError(t, err)
	return event
}

func TestMemoryEventStoreAddAndGet(t *testing.T) {
	store := NewMemoryEventStore()
	ts := time.Date(2025, 6, 10, 8, 30, 0, 0, time.UTC)

	created := mustAdd(t, store, "u1", models.ActivityMeditationStart, ts, nil)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, models.ActivityMeditationStart, got.ActivityType)
	assert.True(t, got.Timestamp.Equal(ts))

	_, err = store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryEventStoreQuery(t *testing.T) {
	store := NewMemoryEventStore()
	base := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	mustAdd(t, store, "u1", models.ActivityMeal, base.Add(8*time.Hour), sampleMeal())
	mustAdd(t, store, "u1", models.ActivityMeal, base.Add(12*time.Hour), sampleMeal())
	mustAdd(t, store, "u1", models.ActivityMood, base.Add(13*time.Hour), nil)
	mustAdd(t, store, "u2", models.ActivityMeal, base.Add(9*time.Hour), sampleMeal())
	mustAdd(t, store, "u1", models.ActivityMeal, base.Add(40*time.Hour), sampleMeal())

	t.Run("NoFilterReturnsAllDesc", func(t *testing.T) {
		events, err := store.Query(context.Background(), EventFilter{})
		require.NoError(t, err)
		require.Len(t, events, 5)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i-1].Timestamp.Before(events[i].Timestamp))
		}
	})

	t.Run("FiltersAreConjunctive", func(t *testing.T) {
		end := base.Add(24 * time.Hour)
		events, err := store.Query(context.Background(), EventFilter{
			UserID:       "u1",
			ActivityType: models.ActivityMeal,
			StartDate:    &base,
			EndDate:      &end,
		})
		require.NoError(t, err)
		require.Len(t, events, 2)
		for _, e := range events {
			assert.Equal(t, "u1", e.UserID)
			assert.Equal(t, models.ActivityMeal, e.ActivityType)
		}
	})

	t.Run("DateBoundsInclusive", func(t *testing.T) {
		start := base.Add(8 * time.Hour)
		end := base.Add(8 * time.Hour)
		events, err := store.Query(context.Background(), EventFilter{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("NoMatchesIsEmptyNotError", func(t *testing.T) {
		events, err := store.Query(context.Background(), EventFilter{UserID: "nobody"})
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestMemoryEventStoreDelete(t *testing.T) {
	store := NewMemoryEventStore()
	created := mustAdd(t, store, "u1", models.ActivityMood, time.Now().UTC(), nil)

	require.NoError(t, store.Delete(context.Background(), created.ID))
	_, err := store.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(context.Background(), created.ID), ErrNotFound)
}

func TestMemoryEventStoreUpdatePortion(t *testing.T) {
	t.Run("RecomputesConsumedFields", func(t *testing.T) {
		store := NewMemoryEventStore()
		full, err := ApplyPortion(sampleMeal(), 1.0)
		require.NoError(t, err)
		created := mustAdd(t, store, "u1", models.ActivityMeal, time.Now().UTC(), full)

		updated, err := store.UpdatePortion(context.Background(), created.ID, 0.5)
		require.NoError(t, err)

		meal, err := updated.Meal()
		require.NoError(t, err)
		assert.Equal(t, 0.5, meal.PortionConsumed)
		assert.Equal(t, 320.0, meal.ConsumedCalories)
		assert.Equal(t, 640.0, meal.Calories) // raw totals untouched

		// The stored copy reflects the update.
		stored, err := store.Get(context.Background(), created.ID)
		require.NoError(t, err)
		storedMeal, err := stored.Meal()
		require.NoError(t, err)
		assert.Equal(t, 0.5, storedMeal.PortionConsumed)
	})

	t.Run("OutOfRangeFraction", func(t *testing.T) {
		store := NewMemoryEventStore()
		created := mustAdd(t, store, "u1", models.ActivityMeal, time.Now().UTC(), sampleMeal())

		_, err := store.UpdatePortion(context.Background(), created.ID, 0.1)
		assert.ErrorIs(t, err, ErrInvalidPortion)
	})

	t.Run("MissingEvent", func(t *testing.T) {
		store := NewMemoryEventStore()
		_, err := store.UpdatePortion(context.Background(), "nope", 0.5)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NonMealEvent", func(t *testing.T) {
		store := NewMemoryEventStore()
		created := mustAdd(t, store, "u1", models.ActivityMood, time.Now().UTC(), nil)

		_, err := store.UpdatePortion(context.Background(), created.ID, 0.5)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryEventStoreConcurrentAdds(t *testing.T) {
	store := NewMemoryEventStore()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Add(context.Background(), EventDraft{
				UserID:       "u1",
				ActivityType: models.ActivityMood,
				Timestamp:    time.Now().UTC(),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	events, err := store.Query(context.Background(), EventFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, events, writers)
}

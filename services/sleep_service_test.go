package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taeahn1/betterlife/models"
)

var kst = time.FixedZone("KST", 9*60*60)

func meditationStart(t time.Time) models.Event {
	return models.Event{
		ID:           "evt-" + t.Format("150405"),
		UserID:       "u1",
		ActivityType: models.ActivityMeditationStart,
		Timestamp:    t,
	}
}

func TestDeriveSleepWindow(t *testing.T) {
	day := time.Date(2025, 6, 11, 12, 0, 0, 0, kst)

	t.Run("NightAndMorningAnchors", func(t *testing.T) {
		events := []models.Event{
			meditationStart(time.Date(2025, 6, 10, 23, 0, 0, 0, kst)),
			meditationStart(time.Date(2025, 6, 11, 7, 0, 0, 0, kst)),
		}

		window, err := DeriveSleepWindow(events, day, kst)
		require.NoError(t, err)

		assert.Equal(t, "23:15", window.BedTime.Format("15:04"))
		assert.Equal(t, "07:00", window.WakeTime.Format("15:04"))
		assert.Equal(t, 7, window.Hours)
		assert.Equal(t, 45, window.Minutes)
		assert.True(t, window.Healthy)
	})

	t.Run("DawnAnchorCountsAsNight", func(t *testing.T) {
		events := []models.Event{
			meditationStart(time.Date(2025, 6, 11, 1, 30, 0, 0, kst)),
			meditationStart(time.Date(2025, 6, 11, 9, 0, 0, 0, kst)),
		}

		window, err := DeriveSleepWindow(events, day, kst)
		require.NoError(t, err)

		assert.Equal(t, "01:45", window.BedTime.Format("15:04"))
		assert.Equal(t, 7, window.Hours)
		assert.Equal(t, 15, window.Minutes)
		assert.True(t, window.Healthy)
	})

	t.Run("ShortNightUnhealthy", func(t *testing.T) {
		events := []models.Event{
			meditationStart(time.Date(2025, 6, 11, 1, 0, 0, 0, kst)),
			meditationStart(time.Date(2025, 6, 11, 5, 0, 0, 0, kst)),
		}

		window, err := DeriveSleepWindow(events, day, kst)
		require.NoError(t, err)
		assert.False(t, window.Healthy)
	})

	t.Run("UnsortedInputAndNoise", func(t *testing.T) {
		events := []models.Event{
			meditationStart(time.Date(2025, 6, 11, 7, 0, 0, 0, kst)),
			{
				ID:           "meal",
				UserID:       "u1",
				ActivityType: models.ActivityMeal,
				Timestamp:    time.Date(2025, 6, 10, 19, 0, 0, 0, kst),
			},
			meditationStart(time.Date(2025, 6, 10, 23, 0, 0, 0, kst)),
		}

		window, err := DeriveSleepWindow(events, day, kst)
		require.NoError(t, err)
		assert.Equal(t, 7, window.Hours)
		assert.Equal(t, 45, window.Minutes)
	})

	t.Run("FirstAnchorInEachWindowWins", func(t *testing.T) {
		events := []models.Event{
			meditationStart(time.Date(2025, 6, 10, 22, 30, 0, 0, kst)),
			meditationStart(time.Date(2025, 6, 10, 23, 30, 0, 0, kst)),
			meditationStart(time.Date(2025, 6, 11, 6, 30, 0, 0, kst)),
			meditationStart(time.Date(2025, 6, 11, 8, 0, 0, 0, kst)),
		}

		window, err := DeriveSleepWindow(events, day, kst)
		require.NoError(t, err)
		assert.Equal(t, "22:45", window.BedTime.Format("15:04"))
		assert.Equal(t, "06:30", window.WakeTime.Format("15:04"))
	})

	t.Run("MorningOnly", func(t *testing.T) {
		events := []models.Event{
			meditationStart(time.Date(2025, 6, 11, 7, 0, 0, 0, kst)),
		}
		_, err := DeriveSleepWindow(events, day, kst)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("NightOnly", func(t *testing.T) {
		events := []models.Event{
			meditationStart(time.Date(2025, 6, 10, 23, 0, 0, 0, kst)),
		}
		_, err := DeriveSleepWindow(events, day, kst)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("NoEvents", func(t *testing.T) {
		_, err := DeriveSleepWindow(nil, day, kst)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("MiddayStartIsNoAnchor", func(t *testing.T) {
		events := []models.Event{
			meditationStart(time.Date(2025, 6, 11, 14, 0, 0, 0, kst)),
			meditationStart(time.Date(2025, 6, 11, 7, 0, 0, 0, kst)),
		}
		_, err := DeriveSleepWindow(events, day, kst)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("UTCStoredTimestamps", func(t *testing.T) {
		// 2025-06-10 14:00 UTC is 23:00 KST; local-window matching must
		// follow loc, not the stored zone.
		events := []models.Event{
			meditationStart(time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)),
			meditationStart(time.Date(2025, 6, 10, 22, 0, 0, 0, time.UTC)),
		}

		window, err := DeriveSleepWindow(events, day, kst)
		require.NoError(t, err)
		assert.Equal(t, "23:15", window.BedTime.Format("15:04"))
		assert.Equal(t, "07:00", window.WakeTime.Format("15:04"))
	})
}

package controllers

import (
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taeahn1/betterlife/models"
	"github.com/taeahn1/betterlife/services"
	"github.com/taeahn1/betterlife/utils"
)

func workoutRouter(store services.EventStore) *gin.Engine {
	ctrl := NewWorkoutController(store, testLoc)
	r := gin.New()
	r.POST("/api/workouts", ctrl.LogWorkout)
	r.GET("/api/workouts", ctrl.ListWorkouts)
	return r
}

func TestLogWorkout(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		w, env := perform(t, workoutRouter(store), "POST", "/api/workouts", gin.H{
			"user_id":          "u1",
			"workout_type":     "running",
			"start_time":       "2025-06-10T07:00:00+09:00",
			"duration_seconds": 1800,
			"distance_meters":  5012.5,
			"heart_rate_samples": []gin.H{
				{"timestamp": "2025-06-10T07:00:00+09:00", "bpm": 92},
				{"timestamp": "2025-06-10T07:01:00+09:00", "bpm": 141},
			},
		})
		requireStatus(t, w, 201)

		var event models.Event
		decodeData(t, env, &event)
		assert.Equal(t, models.ActivityWorkout, event.ActivityType)

		workout, err := event.Workout()
		require.NoError(t, err)
		assert.Equal(t, "running", workout.WorkoutType)
		assert.Len(t, workout.HeartRateSamples, 2)
	})

	t.Run("EndTimeDefaultsToStart", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		_, env := perform(t, workoutRouter(store), "POST", "/api/workouts", gin.H{
			"user_id":          "u1",
			"workout_type":     "cycling",
			"start_time":       "2025-06-10T07:00:00+09:00",
			"duration_seconds": 600,
		})

		var event models.Event
		decodeData(t, env, &event)
		workout, err := event.Workout()
		require.NoError(t, err)
		assert.Equal(t, workout.StartTime, workout.EndTime)
	})

	t.Run("MissingRequiredFields", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		for _, body := range []gin.H{
			{"workout_type": "running", "start_time": "2025-06-10T07:00:00+09:00", "duration_seconds": 600},
			{"user_id": "u1", "start_time": "2025-06-10T07:00:00+09:00", "duration_seconds": 600},
			{"user_id": "u1", "workout_type": "running", "duration_seconds": 600},
			{"user_id": "u1", "workout_type": "running", "start_time": "2025-06-10T07:00:00+09:00"},
		} {
			w, env := perform(t, workoutRouter(store), "POST", "/api/workouts", body)
			requireStatus(t, w, 400)
			assert.False(t, env.Success)
		}
	})

	t.Run("SampleCapEnforced", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		samples := make([]gin.H, models.MaxHeartRateSamples+1)
		for i := range samples {
			samples[i] = gin.H{"timestamp": "2025-06-10T07:00:00+09:00", "bpm": 120}
		}
		w, env := perform(t, workoutRouter(store), "POST", "/api/workouts", gin.H{
			"user_id":            "u1",
			"workout_type":       "running",
			"start_time":         "2025-06-10T07:00:00+09:00",
			"duration_seconds":   1800,
			"heart_rate_samples": samples,
		})
		requireStatus(t, w, 400)
		assert.Contains(t, env.Error, fmt.Sprint(models.MaxHeartRateSamples))
	})

	t.Run("BadStartTime", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		w, env := perform(t, workoutRouter(store), "POST", "/api/workouts", gin.H{
			"user_id":          "u1",
			"workout_type":     "running",
			"start_time":       "this morning",
			"duration_seconds": 600,
		})
		requireStatus(t, w, 400)
		assert.Contains(t, env.Error, "start_time")
	})
}

func TestListWorkouts(t *testing.T) {
	store := services.NewMemoryEventStore()
	for day, hour := range map[int]int{9: 7, 10: 18, 11: 7} {
		seedEvent(t, store, "u1", models.ActivityWorkout,
			time.Date(2025, 6, day, hour, 0, 0, 0, testLoc),
			models.WorkoutMetadata{
				WorkoutType:     "running",
				StartTime:       fmt.Sprintf("2025-06-%02dT%02d:00:00+09:00", day, hour),
				DurationSeconds: 1800,
			})
	}
	r := workoutRouter(store)

	w, env := perform(t, r, "GET", "/api/workouts?user_id=u1", nil)
	requireStatus(t, w, 200)

	var payload struct {
		Events []models.Event    `json:"events"`
		Days   []utils.DayBucket `json:"days"`
	}
	decodeData(t, env, &payload)

	assert.Len(t, payload.Events, 3)
	require.Len(t, payload.Days, 3)
	assert.Equal(t, "2025-06-11", payload.Days[0].Date)
	assert.Equal(t, "2025-06-09", payload.Days[2].Date)
}

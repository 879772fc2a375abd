package controllers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taeahn1/betterlife/models"
	"github.com/taeahn1/betterlife/services"
)

func logRouter(store services.EventStore) *gin.Engine {
	r := gin.New()
	r.POST("/api/log", NewLogController(store).LogEvent)
	return r
}

func TestLogEvent(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		w, env := perform(t, logRouter(store), "POST", "/api/log", gin.H{
			"user_id":   "u1",
			"action":    "meditation_start",
			"timestamp": "2025-06-10T22:30:00+09:00",
		})
		requireStatus(t, w, 201)
		require.True(t, env.Success)

		var event models.Event
		decodeData(t, env, &event)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, "u1", event.UserID)
		assert.Equal(t, models.ActivityMeditationStart, event.ActivityType)
	})

	t.Run("ActionNormalized", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		w, env := perform(t, logRouter(store), "POST", "/api/log", gin.H{
			"user_id":   "u1",
			"action":    "  Meditation_Start ",
			"timestamp": "2025-06-10T22:30:00+09:00",
		})
		requireStatus(t, w, 201)

		var event models.Event
		decodeData(t, env, &event)
		assert.Equal(t, models.ActivityMeditationStart, event.ActivityType)
	})

	t.Run("MetadataPassedThrough", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		w, env := perform(t, logRouter(store), "POST", "/api/log", gin.H{
			"user_id":   "u1",
			"action":    "mood",
			"timestamp": "2025-06-10T22:30:00+09:00",
			"metadata":  gin.H{"mood": "calm", "note": "after a walk"},
		})
		requireStatus(t, w, 201)

		var event models.Event
		decodeData(t, env, &event)
		assert.JSONEq(t, `{"mood":"calm","note":"after a walk"}`, string(event.Metadata))
	})

	t.Run("MissingFields", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		for _, body := range []gin.H{
			{"action": "meal", "timestamp": "2025-06-10T12:00:00+09:00"},
			{"user_id": "u1", "timestamp": "2025-06-10T12:00:00+09:00"},
			{"user_id": "u1", "action": "meal"},
		} {
			w, env := perform(t, logRouter(store), "POST", "/api/log", body)
			requireStatus(t, w, 400)
			assert.False(t, env.Success)
			assert.Contains(t, env.Error, "required")
		}
	})

	t.Run("UnknownAction", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		w, env := perform(t, logRouter(store), "POST", "/api/log", gin.H{
			"user_id":   "u1",
			"action":    "dance",
			"timestamp": "2025-06-10T12:00:00+09:00",
		})
		requireStatus(t, w, 400)
		assert.Contains(t, env.Error, "dance")
	})

	t.Run("BadTimestamp", func(t *testing.T) {
		store := services.NewMemoryEventStore()
		w, env := perform(t, logRouter(store), "POST", "/api/log", gin.H{
			"user_id":   "u1",
			"action":    "meal",
			"timestamp": "yesterday evening",
		})
		requireStatus(t, w, 400)
		assert.Contains(t, env.Error, "timestamp")
	})
}

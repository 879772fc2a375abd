package controllers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taeahn1/betterlife/models"
	"github.com/taeahn1/betterlife/services"
	"github.com/taeahn1/betterlife/utils"
)

// WorkoutController ingests watch workout exports and lists them grouped by
// local day.
type WorkoutController struct {
	Store services.EventStore
	Loc   *time.Location
}

func NewWorkoutController(store services.EventStore, loc *time.Location) *WorkoutController {
	return &WorkoutController{Store: store, Loc: loc}
}

type logWorkoutRequest struct {
	UserID string `json:"user_id"`
	models.WorkoutMetadata
}

// LogWorkout validates and stores one workout. workout_type, start_time and
// duration_seconds are required; everything else defaults.
func (h *WorkoutController) LogWorkout(c *gin.Context) {
	var body logWorkoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, 400, "invalid request body")
		return
	}
	if body.UserID == "" {
		respondError(c, 400, "user_id is required")
		return
	}
	if err := body.WorkoutMetadata.Validate(); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	timestamp, err := parseTimestamp(body.StartTime)
	if err != nil {
		respondError(c, 400, "invalid start_time, use ISO-8601")
		return
	}

	body.WorkoutMetadata.ApplyDefaults()
	metadata, err := json.Marshal(&body.WorkoutMetadata)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	event, err := h.Store.Add(c.Request.Context(), services.EventDraft{
		UserID:       body.UserID,
		ActivityType: models.ActivityWorkout,
		Timestamp:    timestamp,
		Metadata:     metadata,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, 201, event)
}

// ListWorkouts returns workout events bucketed by local calendar day,
// newest day first.
func (h *WorkoutController) ListWorkouts(c *gin.Context) {
	start, err := parseDateParam(c.Query("start_date"), h.Loc, false)
	if err != nil {
		respondError(c, 400, err.Error())
		return
	}
	end, err := parseDateParam(c.Query("end_date"), h.Loc, true)
	if err != nil {
		respondError(c, 400, err.Error())
		return
	}

	events, err := h.Store.Query(c.Request.Context(), services.EventFilter{
		UserID:       c.Query("user_id"),
		ActivityType: models.ActivityWorkout,
		StartDate:    start,
		EndDate:      end,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, 200, gin.H{
		"events": events,
		"days":   utils.GroupByLocalDate(events, h.Loc),
	})
}

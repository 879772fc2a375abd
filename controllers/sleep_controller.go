package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taeahn1/betterlife/models"
	"github.com/taeahn1/betterlife/services"
)

// SleepController serves the derived time-in-bed card.
type SleepController struct {
	Store services.EventStore
	Loc   *time.Location
}

func NewSleepController(store services.EventStore, loc *time.Location) *SleepController {
	return &SleepController{Store: store, Loc: loc}
}

// Window derives the sleep window for one day (default today) from the
// night and morning meditation anchors. Missing anchors are a normal
// "nothing to show" answer, not an error.
func (h *SleepController) Window(c *gin.Context) {
	day := time.Now().In(h.Loc)
	if v := c.Query("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, h.Loc)
		if err != nil {
			respondError(c, 400, "invalid date, use YYYY-MM-DD")
			return
		}
		day = parsed
	}

	// Both anchors live inside [prior day 00:00, query day 24:00) local.
	rangeStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, h.Loc).AddDate(0, 0, -1)
	rangeEnd := rangeStart.AddDate(0, 0, 2).Add(-time.Nanosecond)

	events, err := h.Store.Query(c.Request.Context(), services.EventFilter{
		UserID:       c.Query("user_id"),
		ActivityType: models.ActivityMeditationStart,
		StartDate:    &rangeStart,
		EndDate:      &rangeEnd,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	window, err := services.DeriveSleepWindow(events, day, h.Loc)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientData) {
			respondData(c, 200, gin.H{"available": false})
			return
		}
		respondServiceError(c, err)
		return
	}

	respondData(c, 200, gin.H{
		"available": true,
		"bed_time":  window.BedTime.Format("15:04"),
		"wake_time": window.WakeTime.Format("15:04"),
		"hours":     window.Hours,
		"minutes":   window.Minutes,
		"healthy":   window.Healthy,
	})
}

package controllers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/taeahn1/betterlife/models"
	"github.com/taeahn1/betterlife/services"
)

// LogController handles the generic ingest path used by phone shortcuts,
// action-button automations and watch integrations.
type LogController struct {
	Store services.EventStore
}

func NewLogController(store services.EventStore) *LogController {
	return &LogController{Store: store}
}

type logEventRequest struct {
	UserID    string          `json:"user_id"`
	Action    string          `json:"action"`
	Timestamp string          `json:"timestamp"`
	Metadata  json.RawMessage `json:"metadata"`
}

// LogEvent stores one event from {user_id, action, timestamp, metadata?}.
func (h *LogController) LogEvent(c *gin.Context) {
	var body logEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, 400, "invalid request body")
		return
	}
	if body.UserID == "" || body.Action == "" || body.Timestamp == "" {
		respondError(c, 400, "missing required fields: user_id, action, timestamp")
		return
	}

	timestamp, err := parseTimestamp(body.Timestamp)
	if err != nil {
		respondError(c, 400, "invalid timestamp format, use ISO-8601")
		return
	}

	activityType, err := models.ParseAction(body.Action)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	event, err := h.Store.Add(c.Request.Context(), services.EventDraft{
		UserID:       body.UserID,
		ActivityType: activityType,
		Timestamp:    timestamp,
		Metadata:     body.Metadata,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondData(c, 201, event)
}

package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taeahn1/betterlife/models"
	"github.com/taeahn1/betterlife/services"
)

// EventController exposes the raw event store: query, delete, and the one
// supported mutation (reapplying the meal consumption fraction).
type EventController struct {
	Store services.EventStore
	Loc   *time.Location
}

func NewEventController(store services.EventStore, loc *time.Location) *EventController {
	return &EventController{Store: store, Loc: loc}
}

// QueryEvents filters by any of user_id, activity_type, start_date and
// end_date; all supplied filters must match. Results come back newest first.
func (h *EventController) QueryEvents(c *gin.Context) {
	filter, ok := h.filterFromQuery(c)
	if !ok {
		return
	}

	events, err := h.Store.Query(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, 200, events)
}

func (h *EventController) DeleteEvent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondError(c, 400, "event id is required")
		return
	}
	if err := h.Store.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, 200, nil)
}

type portionUpdateRequest struct {
	PortionConsumed *float64 `json:"portion_consumed"`
}

// UpdatePortion patches the consumption fraction of a meal event. All other
// metadata is preserved; the consumed fields are recomputed in the store so
// they can never drift from the fraction.
func (h *EventController) UpdatePortion(c *gin.Context) {
	var body portionUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, 400, "invalid request body")
		return
	}
	if body.PortionConsumed == nil {
		respondError(c, 400, "portion_consumed is required")
		return
	}

	event, err := h.Store.UpdatePortion(c.Request.Context(), c.Param("id"), *body.PortionConsumed)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, 200, event)
}

// filterFromQuery parses the common query params, answering 400 itself when
// a date is malformed.
func (h *EventController) filterFromQuery(c *gin.Context) (services.EventFilter, bool) {
	filter := services.EventFilter{
		UserID:       c.Query("user_id"),
		ActivityType: models.ActivityType(c.Query("activity_type")),
	}

	start, err := parseDateParam(c.Query("start_date"), h.Loc, false)
	if err != nil {
		respondError(c, 400, err.Error())
		return filter, false
	}
	end, err := parseDateParam(c.Query("end_date"), h.Loc, true)
	if err != nil {
		respondError(c, 400, err.Error())
		return filter, false
	}
	filter.StartDate = start
	filter.EndDate = end
	return filter, true
}

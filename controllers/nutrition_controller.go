package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taeahn1/betterlife/models"
	"github.com/taeahn1/betterlife/pkg/logger"
	"github.com/taeahn1/betterlife/services"
)

// NutritionController serves the daily nutrition dashboard numbers.
type NutritionController struct {
	Store services.EventStore
	Loc   *time.Location
}

func NewNutritionController(store services.EventStore, loc *time.Location) *NutritionController {
	return &NutritionController{Store: store, Loc: loc}
}

// Summary reports the consumed totals for one local day against the daily
// goals. Goals default to the standard targets and can be overridden with
// calories_goal / carbs_goal / protein_goal / fat_goal query params. The
// percentages are display-clamped to 100; the totals themselves are not.
func (h *NutritionController) Summary(c *gin.Context) {
	day := time.Now().In(h.Loc)
	if v := c.Query("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, h.Loc)
		if err != nil {
			respondError(c, 400, "invalid date, use YYYY-MM-DD")
			return
		}
		day = parsed
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, h.Loc)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	events, err := h.Store.Query(c.Request.Context(), services.EventFilter{
		UserID:       c.Query("user_id"),
		ActivityType: models.ActivityMeal,
		StartDate:    &dayStart,
		EndDate:      &dayEnd,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	meals := make([]models.MealMetadata, 0, len(events))
	for _, e := range events {
		meal, err := e.Meal()
		if err != nil {
			logger.Log.WithError(err).Warn("skipping undecodable meal")
			continue
		}
		meals = append(meals, *meal)
	}

	totals := services.SumDailyTotals(meals)
	goals := goalsFromQuery(c)

	respondData(c, 200, gin.H{
		"date":   dayStart.Format("2006-01-02"),
		"meals":  len(meals),
		"totals": totals,
		"goals":  goals,
		"percent": gin.H{
			"calories": services.PercentOfGoal(totals.Calories, goals.Calories),
			"carbs":    services.PercentOfGoal(totals.Carbs, goals.Carbs),
			"protein":  services.PercentOfGoal(totals.Protein, goals.Protein),
			"fat":      services.PercentOfGoal(totals.Fat, goals.Fat),
		},
	})
}

func goalsFromQuery(c *gin.Context) services.NutritionGoals {
	goals := services.DefaultGoals()
	for param, target := range map[string]*float64{
		"calories_goal": &goals.Calories,
		"carbs_goal":    &goals.Carbs,
		"protein_goal":  &goals.Protein,
		"fat_goal":      &goals.Fat,
	} {
		if v := c.Query(param); v != "" {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*target = parsed
			}
		}
	}
	return goals
}

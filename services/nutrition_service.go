package services

import (
	"math"

	"github.com/taeahn1/betterlife/models"
)

// Portion bounds: logging less than a fifth of a meal is treated as input
// error rather than signal.
const (
	MinPortion = 0.2
	MaxPortion = 1.0
)

// Default daily goals, overridable per request.
const (
	DefaultCaloriesGoal = 2000
	DefaultCarbsGoal    = 250
	DefaultProteinGoal  = 120
	DefaultFatGoal      = 67
)

// DailyTotals is the consumed sum across one local day's meals.
type DailyTotals struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
}

// NutritionGoals are the daily targets the totals are displayed against.
type NutritionGoals struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
}

func DefaultGoals() NutritionGoals {
	return NutritionGoals{
		Calories: DefaultCaloriesGoal,
		Carbs:    DefaultCarbsGoal,
		Protein:  DefaultProteinGoal,
		Fat:      DefaultFatGoal,
	}
}

// ApplyPortion returns a copy of the meal with portion_consumed set and all
// four consumed_* fields recomputed as round(total * fraction). The fields
// are rounded independently; they are never updated in isolation.
func ApplyPortion(meal models.MealMetadata, fraction float64) (models.MealMetadata, error) {
	if fraction < MinPortion || fraction > MaxPortion {
		return models.MealMetadata{}, ErrInvalidPortion
	}
	meal.PortionConsumed = fraction
	meal.ConsumedCalories = math.Round(meal.Calories * fraction)
	meal.ConsumedCarbs = math.Round(meal.Carbohydrates * fraction)
	meal.ConsumedProtein = math.Round(meal.Protein * fraction)
	meal.ConsumedFat = math.Round(meal.Fat * fraction)
	return meal, nil
}

// SumDailyTotals sums the consumed value of each meal, falling back to the
// raw total when the meal predates portion tracking (portion_consumed
// unset), so legacy meals count at 100%.
func SumDailyTotals(meals []models.MealMetadata) DailyTotals {
	var t DailyTotals
	for _, m := range meals {
		if m.PortionConsumed > 0 {
			t.Calories += m.ConsumedCalories
			t.Carbs += m.ConsumedCarbs
			t.Protein += m.ConsumedProtein
			t.Fat += m.ConsumedFat
		} else {
			t.Calories += m.Calories
			t.Carbs += m.Carbohydrates
			t.Protein += m.Protein
			t.Fat += m.Fat
		}
	}
	return t
}

// PercentOfGoal is the display clamp for progress bars: 0 when the goal is
// unset, otherwise min(round(current/goal*100), 100). The underlying value
// is never altered.
func PercentOfGoal(current, goal float64) int {
	if goal <= 0 {
		return 0
	}
	pct := int(math.Round(current / goal * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// MacroPercentOfCalories reports what share of total calories a macro
// contributes at kcalPerGram. This is a secondary check view; the
// analysis-supplied pfc_ratio stays authoritative.
func MacroPercentOfCalories(grams, kcalPerGram, totalCalories float64) int {
	if totalCalories <= 0 {
		return 0
	}
	return int(math.Round(grams * kcalPerGram / totalCalories * 100))
}

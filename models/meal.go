package models

import (
	"fmt"
	"math"
)

// PFCRatio is the percentage breakdown of calories by macro. The three
// values must sum to 100.
type PFCRatio struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// FoodItem is one distinct food identified in a meal photo. Item macros are
// estimated independently of the parent meal totals and need not sum to
// them exactly.
type FoodItem struct {
	Name                string  `json:"name"`
	Calories            float64 `json:"calories"`
	Carbohydrates       float64 `json:"carbohydrates"`
	Protein             float64 `json:"protein"`
	Fat                 float64 `json:"fat"`
	PortionSize         string  `json:"portion_size"`
	QuantityDescription string  `json:"quantity_description,omitempty"`
}

// MealMetadata is the MEAL event payload. Totals come from the image
// analysis; the consumed_* fields track the fraction the user actually ate
// and are always recomputed together when portion_consumed changes.
type MealMetadata struct {
	Calories      float64 `json:"calories"`
	Carbohydrates float64 `json:"carbohydrates"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`

	MenuName     string   `json:"menu_name"`
	FoodCategory string   `json:"food_category"`
	Ingredients  []string `json:"ingredients"`

	PortionSize string   `json:"portion_size"`
	PFCRatio    PFCRatio `json:"pfc_ratio"`

	FoodItems []FoodItem `json:"food_items,omitempty"`

	ImageURL string `json:"image_url,omitempty"`

	PortionConsumed  float64 `json:"portion_consumed"`
	ConsumedCalories float64 `json:"consumed_calories"`
	ConsumedCarbs    float64 `json:"consumed_carbs"`
	ConsumedProtein  float64 `json:"consumed_protein"`
	ConsumedFat      float64 `json:"consumed_fat"`
}

// pfcTolerance allows for integer rounding in the analysis output.
const pfcTolerance = 1.0

// Validate checks the invariants the image analysis must satisfy before a
// meal is stored. A failing meal is rejected whole; no partial record.
func (m *MealMetadata) Validate() error {
	for name, v := range map[string]float64{
		"calories":      m.Calories,
		"carbohydrates": m.Carbohydrates,
		"protein":       m.Protein,
		"fat":           m.Fat,
	} {
		if v < 0 {
			return fmt.Errorf("meal %s must be non-negative, got %v", name, v)
		}
	}
	if m.MenuName == "" {
		return fmt.Errorf("meal menu_name is required")
	}
	if m.FoodCategory == "" {
		return fmt.Errorf("meal food_category is required")
	}
	if len(m.Ingredients) == 0 {
		return fmt.Errorf("meal ingredients must not be empty")
	}
	if m.PortionSize == "" {
		return fmt.Errorf("meal portion_size is required")
	}
	if m.PFCRatio.Protein < 0 || m.PFCRatio.Fat < 0 || m.PFCRatio.Carbs < 0 {
		return fmt.Errorf("pfc_ratio values must be non-negative")
	}
	sum := m.PFCRatio.Protein + m.PFCRatio.Fat + m.PFCRatio.Carbs
	if math.Abs(sum-100) > pfcTolerance {
		return fmt.Errorf("pfc_ratio must sum to 100, got %v", sum)
	}
	return nil
}

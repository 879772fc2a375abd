package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ActivityType is the closed set of event categories the service tracks.
type ActivityType string

const (
	ActivityMeditationStart ActivityType = "MEDITATION_START"
	ActivityMeditationEnd   ActivityType = "MEDITATION_END"
	ActivityMeal            ActivityType = "MEAL"
	ActivityHeartRate       ActivityType = "HEART_RATE"
	ActivityExercise        ActivityType = "EXERCISE"
	ActivitySleep           ActivityType = "SLEEP"
	ActivityMood            ActivityType = "MOOD"
	ActivitySkinCheck       ActivityType = "SKIN_CHECK"
	ActivityWorkout         ActivityType = "WORKOUT"
)

// Event is one logged activity. Metadata is a JSON payload whose shape is
// keyed by ActivityType; decode it through the typed accessors below instead
// of poking at the raw bytes.
type Event struct {
	ID           string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID       string         `gorm:"index;type:varchar(128);not null" json:"user_id"`
	ActivityType ActivityType   `gorm:"index;type:varchar(32);not null" json:"activity_type"`
	Timestamp    time.Time      `gorm:"index;not null" json:"timestamp"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

var ErrUnknownAction = errors.New("unknown action type")

// actionMap translates the free-form action strings sent by phone shortcuts
// and watch exports into activity types. Lookup is exact after normalization;
// no fuzzy matching.
var actionMap = map[string]ActivityType{
	"meditation_start": ActivityMeditationStart,
	"meditation_end":   ActivityMeditationEnd,
	"meal":             ActivityMeal,
	"heart_rate":       ActivityHeartRate,
	"exercise":         ActivityExercise,
	"sleep":            ActivitySleep,
	"mood":             ActivityMood,
	"skin_check":       ActivitySkinCheck,
	"workout":          ActivityWorkout,
}

// ParseAction maps a raw action string to an ActivityType, trimming
// whitespace and ignoring case.
func ParseAction(raw string) (ActivityType, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	at, ok := actionMap[normalized]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
	}
	return at, nil
}

// SetMetadata marshals v into the event's metadata column.
func (e *Event) SetMetadata(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.Metadata = datatypes.JSON(b)
	return nil
}

// Meal decodes the metadata of a MEAL event.
func (e *Event) Meal() (*MealMetadata, error) {
	if e.ActivityType != ActivityMeal {
		return nil, fmt.Errorf("event %s is %s, not a meal", e.ID, e.ActivityType)
	}
	var m MealMetadata
	if err := json.Unmarshal(e.Metadata, &m); err != nil {
		return nil, fmt.Errorf("decode meal metadata for event %s: %w", e.ID, err)
	}
	return &m, nil
}

// Workout decodes the metadata of a WORKOUT event.
func (e *Event) Workout() (*WorkoutMetadata, error) {
	if e.ActivityType != ActivityWorkout {
		return nil, fmt.Errorf("event %s is %s, not a workout", e.ID, e.ActivityType)
	}
	var w WorkoutMetadata
	if err := json.Unmarshal(e.Metadata, &w); err != nil {
		return nil, fmt.Errorf("decode workout metadata for event %s: %w", e.ID, err)
	}
	return &w, nil
}

// SkinCheck decodes the metadata of a SKIN_CHECK event.
func (e *Event) SkinCheck() (*SkinAnalysisMetadata, error) {
	if e.ActivityType != ActivitySkinCheck {
		return nil, fmt.Errorf("event %s is %s, not a skin check", e.ID, e.ActivityType)
	}
	var s SkinAnalysisMetadata
	if err := json.Unmarshal(e.Metadata, &s); err != nil {
		return nil, fmt.Errorf("decode skin metadata for event %s: %w", e.ID, err)
	}
	return &s, nil
}

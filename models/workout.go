package models

import "fmt"

// MaxHeartRateSamples caps the per-workout heart rate series to bound
// payload and row size. Watch exports above this must downsample.
const MaxHeartRateSamples = 10000

type HeartRateSample struct {
	Timestamp string  `json:"timestamp"`
	BPM       float64 `json:"bpm"`
}

type PaceSample struct {
	Timestamp string  `json:"timestamp"`
	MinPerKM  float64 `json:"min_per_km"`
}

type CadenceSample struct {
	Timestamp string  `json:"timestamp"`
	SPM       float64 `json:"spm"`
}

type RoutePoint struct {
	Timestamp string  `json:"timestamp"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude,omitempty"`
}

// WorkoutMetadata is the WORKOUT event payload, shaped after what watch
// exports send. Aggregates default to 0 when absent; the sample series are
// optional.
type WorkoutMetadata struct {
	WorkoutType     string  `json:"workout_type"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	DurationSeconds float64 `json:"duration_seconds"`

	DistanceMeters float64 `json:"distance_meters"`
	ActiveCalories float64 `json:"active_calories"`
	TotalCalories  float64 `json:"total_calories"`

	AvgHeartRate float64 `json:"avg_heart_rate"`
	MaxHeartRate float64 `json:"max_heart_rate"`
	MinHeartRate float64 `json:"min_heart_rate"`

	AvgPaceMinPerKM  float64 `json:"avg_pace_min_per_km,omitempty"`
	AvgSpeedKMH      float64 `json:"avg_speed_kmh,omitempty"`
	MaxSpeedKMH      float64 `json:"max_speed_kmh,omitempty"`
	AvgCadence       float64 `json:"avg_cadence,omitempty"`
	ElevationGain    float64 `json:"elevation_gain,omitempty"`
	ElevationDescent float64 `json:"elevation_descent,omitempty"`

	HeartRateSamples []HeartRateSample `json:"heart_rate_samples,omitempty"`
	PaceSamples      []PaceSample      `json:"pace_samples,omitempty"`
	CadenceSamples   []CadenceSample   `json:"cadence_samples,omitempty"`
	RoutePoints      []RoutePoint      `json:"route_points,omitempty"`
}

// Validate checks the required fields and the heart rate sample cap.
func (w *WorkoutMetadata) Validate() error {
	if w.WorkoutType == "" {
		return fmt.Errorf("workout_type is required")
	}
	if w.StartTime == "" {
		return fmt.Errorf("start_time is required")
	}
	if w.DurationSeconds <= 0 {
		return fmt.Errorf("duration_seconds is required")
	}
	if len(w.HeartRateSamples) > MaxHeartRateSamples {
		return fmt.Errorf("too many heart rate samples (max %d), please sample the data", MaxHeartRateSamples)
	}
	return nil
}

// ApplyDefaults fills the optional fields the way the ingest contract
// promises: end_time falls back to start_time, aggregates to zero values.
func (w *WorkoutMetadata) ApplyDefaults() {
	if w.EndTime == "" {
		w.EndTime = w.StartTime
	}
	if w.HeartRateSamples == nil {
		w.HeartRateSamples = []HeartRateSample{}
	}
}

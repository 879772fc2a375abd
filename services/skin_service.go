package services

import "github.com/taeahn1/betterlife/models"

type TrendDirection string

const (
	TrendUp   TrendDirection = "Up"
	TrendDown TrendDirection = "Down"
	TrendFlat TrendDirection = "Flat"
)

// SkinTrend compares the two most recent health indices.
type SkinTrend struct {
	Latest    float64        `json:"latest"`
	Previous  float64        `json:"previous"`
	Delta     float64        `json:"delta"`
	Direction TrendDirection `json:"direction"`
}

// ComputeSkinTrend takes skin checks sorted by time ascending and reports
// the delta between the last two. Fewer than two entries is
// ErrInsufficientData.
func ComputeSkinTrend(history []models.SkinAnalysisMetadata) (*SkinTrend, error) {
	if len(history) < 2 {
		return nil, ErrInsufficientData
	}
	latest := history[len(history)-1].Scores.TotalHealthIndex
	previous := history[len(history)-2].Scores.TotalHealthIndex
	delta := latest - previous

	direction := TrendFlat
	switch {
	case delta > 0:
		direction = TrendUp
	case delta < 0:
		direction = TrendDown
	}

	return &SkinTrend{
		Latest:    latest,
		Previous:  previous,
		Delta:     delta,
		Direction: direction,
	}, nil
}

// CheckScoreBanding verifies that an externally supplied status matches the
// band its health index falls in. The caller decides what to do with a
// mismatch; the external status is never rewritten here, the analysis model
// owns its output.
func CheckScoreBanding(scores models.SkinScores) bool {
	return scores.Status == models.StatusForHealthIndex(scores.TotalHealthIndex)
}

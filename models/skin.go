package models

import "fmt"

// HealthStatus is the banded reading of the 0-100 skin health index.
type HealthStatus string

const (
	StatusGood    HealthStatus = "Good"
	StatusWarning HealthStatus = "Warning"
	StatusDanger  HealthStatus = "Danger"
)

// Distribution patterns reported by the analysis.
const (
	PatternClustered = "Clustered"
	PatternScattered = "Scattered"
)

// LesionCounts are hard counts by severity grade across all photos.
type LesionCounts struct {
	NonInflammatory int `json:"non_inflammatory"`
	Inflammatory    int `json:"inflammatory"`
	Cystic          int `json:"cystic"`
	LargeLesions    int `json:"large_lesions"`
}

type SpatialMapping struct {
	PrimaryLocations    []string `json:"primary_locations"`
	DistributionPattern string   `json:"distribution_pattern"`
}

type Asymmetry struct {
	LeftCount  int     `json:"left_count"`
	RightCount int     `json:"right_count"`
	DiffRatio  float64 `json:"diff_ratio"`
	Comment    string  `json:"comment,omitempty"`
}

type PostAcne struct {
	PigmentationCount int  `json:"pigmentation_count"`
	PittedScars       bool `json:"pitted_scars"`
}

// SkinScores carries the composite scores computed by the analysis model.
// The formula weights are the model's responsibility; locally we only hold
// the banding invariant between TotalHealthIndex and Status.
type SkinScores struct {
	InflammatoryScore float64      `json:"inflammatory_score"`
	SpatialRiskScore  float64      `json:"spatial_risk_score"`
	TotalHealthIndex  float64      `json:"total_health_index"`
	Status            HealthStatus `json:"status"`
}

// SkinImageURLs references the stored photos by facial position.
type SkinImageURLs struct {
	Front string `json:"front,omitempty"`
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
}

// SkinAnalysisMetadata is the SKIN_CHECK event payload.
type SkinAnalysisMetadata struct {
	LesionCounts   LesionCounts   `json:"lesion_counts"`
	SpatialMapping SpatialMapping `json:"spatial_mapping"`
	Asymmetry      Asymmetry      `json:"asymmetry"`
	PostAcne       PostAcne       `json:"post_acne"`
	Scores         SkinScores     `json:"scores"`
	ImageURLs      SkinImageURLs  `json:"image_urls"`
	AnalysisDate   string         `json:"analysis_date"`
}

// StatusForHealthIndex derives the status band for a health index:
// Good [80,100], Warning [50,79], Danger [0,49].
func StatusForHealthIndex(idx float64) HealthStatus {
	switch {
	case idx >= 80:
		return StatusGood
	case idx >= 50:
		return StatusWarning
	default:
		return StatusDanger
	}
}

// Validate checks the invariants an analysis result must satisfy before a
// skin check is stored.
func (s *SkinAnalysisMetadata) Validate() error {
	lc := s.LesionCounts
	for name, v := range map[string]int{
		"non_inflammatory": lc.NonInflammatory,
		"inflammatory":     lc.Inflammatory,
		"cystic":           lc.Cystic,
		"large_lesions":    lc.LargeLesions,
	} {
		if v < 0 {
			return fmt.Errorf("lesion count %s must be non-negative, got %d", name, v)
		}
	}
	if p := s.SpatialMapping.DistributionPattern; p != PatternClustered && p != PatternScattered {
		return fmt.Errorf("distribution_pattern must be %q or %q, got %q", PatternClustered, PatternScattered, p)
	}
	if s.Scores.TotalHealthIndex < 0 || s.Scores.TotalHealthIndex > 100 {
		return fmt.Errorf("total_health_index must be in [0,100], got %v", s.Scores.TotalHealthIndex)
	}
	switch s.Scores.Status {
	case StatusGood, StatusWarning, StatusDanger:
	default:
		return fmt.Errorf("unknown status %q", s.Scores.Status)
	}
	return nil
}

package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taeahn1/betterlife/models"
	"github.com/taeahn1/betterlife/pkg/logger"
	"github.com/taeahn1/betterlife/services"
	"github.com/taeahn1/betterlife/utils"
)

// SkinAnalyzer turns facial photos into a skin analysis.
type SkinAnalyzer interface {
	AnalyzeSkinImages(ctx context.Context, images []services.SkinImage) (*models.SkinAnalysisMetadata, error)
}

type SkinController struct {
	Store  services.EventStore
	Vision SkinAnalyzer
	Loc    *time.Location
}

func NewSkinController(store services.EventStore, vision SkinAnalyzer, loc *time.Location) *SkinController {
	return &SkinController{Store: store, Vision: vision, Loc: loc}
}

type analyzeSkinRequest struct {
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
	Images    struct {
		Left  string `json:"left"`
		Front string `json:"front"`
		Right string `json:"right"`
	} `json:"images"`
}

// Analyze accepts up to three base64 facial photos (left/front/right, at
// least one), runs the skin analysis and stores a SKIN_CHECK event.
func (h *SkinController) Analyze(c *gin.Context) {
	var body analyzeSkinRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, 400, "invalid request body")
		return
	}
	if body.UserID == "" {
		respondError(c, 400, "user_id is required")
		return
	}

	var images []services.SkinImage
	for _, in := range []struct{ position, data string }{
		{"left", body.Images.Left},
		{"front", body.Images.Front},
		{"right", body.Images.Right},
	} {
		if in.data == "" {
			continue
		}
		data, mimeType, err := decodeBase64Image(in.data)
		if err != nil {
			respondError(c, 400, err.Error())
			return
		}
		images = append(images, services.SkinImage{Position: in.position, MimeType: mimeType, Data: data})
	}
	if len(images) == 0 {
		respondError(c, 400, "at least one image (left/front/right) is required")
		return
	}

	timestamp := time.Now().UTC()
	if body.Timestamp != "" {
		t, err := parseTimestamp(body.Timestamp)
		if err != nil {
			respondError(c, 400, "invalid timestamp format, use ISO-8601")
			return
		}
		timestamp = t
	}

	ctx := c.Request.Context()
	analysis, err := h.Vision.AnalyzeSkinImages(ctx, images)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The model's status is stored as delivered; a band mismatch is worth a
	// log line, not a rewrite.
	if !services.CheckScoreBanding(analysis.Scores) {
		logger.Log.WithFields(map[string]interface{}{
			"total_health_index": analysis.Scores.TotalHealthIndex,
			"reported_status":    analysis.Scores.Status,
		}).Warn("skin analysis status does not match health index band")
	}

	analysis.ImageURLs = storeSkinImages(images, body.UserID)

	metadata, err := json.Marshal(analysis)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	event, err := h.Store.Add(ctx, services.EventDraft{
		UserID:       body.UserID,
		ActivityType: models.ActivitySkinCheck,
		Timestamp:    timestamp,
		Metadata:     metadata,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, 201, event)
}

// storeSkinImages uploads the originals to S3 keyed by facial position.
// Without S3 the event is stored without image references.
func storeSkinImages(images []services.SkinImage, userID string) models.SkinImageURLs {
	var urls models.SkinImageURLs
	if !utils.S3Configured() {
		return urls
	}
	for _, img := range images {
		url, err := utils.UploadImageToS3(img.Data, img.MimeType, "skin/"+userID+"/"+img.Position)
		if err != nil {
			logger.Log.WithError(err).Warn("skin image upload failed, storing without image_url")
			continue
		}
		switch img.Position {
		case "left":
			urls.Left = url
		case "front":
			urls.Front = url
		case "right":
			urls.Right = url
		}
	}
	return urls
}

// History returns skin check events newest first.
func (h *SkinController) History(c *gin.Context) {
	events, err := h.Store.Query(c.Request.Context(), services.EventFilter{
		UserID:       c.Query("user_id"),
		ActivityType: models.ActivitySkinCheck,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, 200, events)
}

// Trend reports the health index delta between the two most recent checks.
func (h *SkinController) Trend(c *gin.Context) {
	events, err := h.Store.Query(c.Request.Context(), services.EventFilter{
		UserID:       c.Query("user_id"),
		ActivityType: models.ActivitySkinCheck,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The store answers newest first; the trend wants chronological order.
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	history := make([]models.SkinAnalysisMetadata, 0, len(events))
	for _, e := range events {
		analysis, err := e.SkinCheck()
		if err != nil {
			logger.Log.WithError(err).Warn("skipping undecodable skin check")
			continue
		}
		history = append(history, *analysis)
	}

	trend, err := services.ComputeSkinTrend(history)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientData) {
			respondData(c, 200, gin.H{"available": false})
			return
		}
		respondServiceError(c, err)
		return
	}
	respondData(c, 200, gin.H{"available": true, "trend": trend})
}

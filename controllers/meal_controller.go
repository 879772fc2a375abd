package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taeahn1/betterlife/models"
	"github.com/taeahn1/betterlife/pkg/logger"
	"github.com/taeahn1/betterlife/services"
	"github.com/taeahn1/betterlife/utils"
)

// MealAnalyzer turns a food photo into meal metadata.
type MealAnalyzer interface {
	AnalyzeMealImage(ctx context.Context, image []byte, mimeType string) (*models.MealMetadata, error)
}

// FoodScreener is the cheap pre-check run before the vision call. Optional;
// a nil screener skips the step.
type FoodScreener interface {
	ScreenFoodImage(ctx context.Context, image []byte) (bool, []string, error)
}

type MealController struct {
	Store    services.EventStore
	Vision   MealAnalyzer
	Screener FoodScreener
	Loc      *time.Location
}

func NewMealController(store services.EventStore, vision MealAnalyzer, screener FoodScreener, loc *time.Location) *MealController {
	return &MealController{Store: store, Vision: vision, Screener: screener, Loc: loc}
}

type mealEntry struct {
	models.Event
	MealTime utils.MealTime `json:"meal_time"`
}

type mealDay struct {
	Date  string      `json:"date"`
	Meals []mealEntry `json:"meals"`
}

// ListMeals returns meal events (optional user/date filters) both flat and
// bucketed by local calendar day, each entry tagged with its time-of-day
// category.
func (h *MealController) ListMeals(c *gin.Context) {
	start, err := parseDateParam(c.Query("start_date"), h.Loc, false)
	if err != nil {
		respondError(c, 400, err.Error())
		return
	}
	end, err := parseDateParam(c.Query("end_date"), h.Loc, true)
	if err != nil {
		respondError(c, 400, err.Error())
		return
	}

	events, err := h.Store.Query(c.Request.Context(), services.EventFilter{
		UserID:       c.Query("user_id"),
		ActivityType: models.ActivityMeal,
		StartDate:    start,
		EndDate:      end,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	days := make([]mealDay, 0)
	for _, bucket := range utils.GroupByLocalDate(events, h.Loc) {
		day := mealDay{Date: bucket.Date, Meals: make([]mealEntry, 0, len(bucket.Events))}
		for _, e := range bucket.Events {
			day.Meals = append(day.Meals, mealEntry{
				Event:    e,
				MealTime: utils.TimeOfDayCategory(e.Timestamp, h.Loc),
			})
		}
		days = append(days, day)
	}

	respondData(c, 200, gin.H{"events": events, "days": days})
}

type analyzeMealJSONRequest struct {
	UserID      string `json:"user_id"`
	Timestamp   string `json:"timestamp"`
	ImageBase64 string `json:"image_base64"`
}

// AnalyzeMeal accepts a food photo (multipart upload or base64 JSON), runs
// the analysis pipeline and stores the resulting MEAL event. The request
// fails whole if the analysis output violates the meal invariants; no
// partial meal is stored.
func (h *MealController) AnalyzeMeal(c *gin.Context) {
	image, mimeType, userID, timestampRaw, ok := h.readAnalyzeRequest(c)
	if !ok {
		return
	}

	timestamp, err := parseTimestamp(timestampRaw)
	if err != nil {
		respondError(c, 400, "invalid timestamp format, use ISO-8601")
		return
	}

	ctx := c.Request.Context()
	if h.Screener != nil {
		foodish, labels, err := h.Screener.ScreenFoodImage(ctx, image)
		if err != nil {
			// The screen is an optimization; a screener outage must not
			// block meal logging.
			logger.Log.WithError(err).Warn("food image screen unavailable, skipping")
		} else if !foodish {
			respondError(c, 400, fmt.Sprintf("image does not appear to contain food (detected: %s)", strings.Join(labels, ", ")))
			return
		}
	}

	meal, err := h.Vision.AnalyzeMealImage(ctx, image, mimeType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// New meals start at 100% consumed; portion updates come later via PATCH.
	portioned, err := services.ApplyPortion(*meal, services.MaxPortion)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if utils.S3Configured() {
		url, err := utils.UploadImageToS3(image, mimeType, "meals/"+userID)
		if err != nil {
			logger.Log.WithError(err).Warn("meal image upload failed, storing without image_url")
		} else {
			portioned.ImageURL = url
		}
	}

	metadata, err := json.Marshal(&portioned)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	stored, err := h.Store.Add(ctx, services.EventDraft{
		UserID:       userID,
		ActivityType: models.ActivityMeal,
		Timestamp:    timestamp,
		Metadata:     metadata,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, 201, stored)
}

// readAnalyzeRequest pulls image bytes and identity fields from either a
// multipart form ("image" file) or a JSON body with image_base64. It
// answers 400 itself and returns ok=false on invalid input.
func (h *MealController) readAnalyzeRequest(c *gin.Context) (image []byte, mimeType, userID, timestamp string, ok bool) {
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := c.Request.FormFile("image")
		if err != nil {
			respondError(c, 400, "image file is required")
			return nil, "", "", "", false
		}
		defer file.Close()

		image, err = io.ReadAll(file)
		if err != nil {
			respondError(c, 400, "failed to read image file")
			return nil, "", "", "", false
		}
		mimeType = header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		userID = c.PostForm("user_id")
		timestamp = c.PostForm("timestamp")
	} else {
		var body analyzeMealJSONRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, 400, "invalid request body")
			return nil, "", "", "", false
		}
		if body.ImageBase64 == "" {
			respondError(c, 400, "image_base64 is required")
			return nil, "", "", "", false
		}
		var err error
		image, mimeType, err = decodeBase64Image(body.ImageBase64)
		if err != nil {
			respondError(c, 400, err.Error())
			return nil, "", "", "", false
		}
		userID = body.UserID
		timestamp = body.Timestamp
	}

	if userID == "" {
		respondError(c, 400, "user_id is required")
		return nil, "", "", "", false
	}
	if timestamp == "" {
		respondError(c, 400, "timestamp is required")
		return nil, "", "", "", false
	}
	return image, mimeType, userID, timestamp, true
}

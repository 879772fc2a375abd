package controllers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taeahn1/betterlife/models"
	"github.com/taeahn1/betterlife/pkg/logger"
	"github.com/taeahn1/betterlife/services"
)

// All endpoints answer with the same envelope: {"success", "data"?, "error"?}.

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// respondServiceError maps the service failure taxonomy onto status codes.
// Validation-class failures carry their message to the caller; anything
// unexpected is logged and answered opaquely.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(c, 404, "event not found")
	case errors.Is(err, services.ErrInvalidPortion):
		respondError(c, 400, services.ErrInvalidPortion.Error())
	case errors.Is(err, models.ErrUnknownAction):
		respondError(c, 400, err.Error())
	case errors.Is(err, services.ErrExternalService):
		logger.Log.WithError(err).Error("analysis collaborator failed")
		respondError(c, 502, "image analysis failed")
	default:
		logger.Log.WithError(err).Error("request failed")
		respondError(c, 500, "internal server error")
	}
}

// Accepted timestamp layouts, strictest first. Phone shortcuts send RFC3339
// with offsets; some exports drop the zone or the time entirely.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseDateParam reads an optional query date. Date-only values are
// interpreted in loc; for an end bound the whole day is included.
func parseDateParam(s string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD or RFC3339", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// decodeBase64Image accepts a raw base64 string or a data URI and returns
// the image bytes plus content type.
func decodeBase64Image(s string) ([]byte, string, error) {
	contentType := "image/jpeg"
	if strings.HasPrefix(s, "data:") {
		parts := strings.SplitN(s, ",", 2)
		if len(parts) != 2 {
			return nil, "", fmt.Errorf("invalid data URI")
		}
		mediaType := strings.TrimPrefix(parts[0], "data:")
		contentType = strings.SplitN(mediaType, ";", 2)[0]
		s = parts[1]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image: %w", err)
	}
	return data, contentType, nil
}

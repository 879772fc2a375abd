package utils

import (
	"sort"
	"time"

	"github.com/taeahn1/betterlife/models"
)

// MealTime is the fixed time-of-day category of an event.
type MealTime string

const (
	MealTimeBreakfast MealTime = "breakfast"
	MealTimeLunch     MealTime = "lunch"
	MealTimeDinner    MealTime = "dinner"
	MealTimeSnack     MealTime = "snack"
)

// DayBucket groups the events of one local calendar day.
type DayBucket struct {
	Date   string         `json:"date"` // YYYY-MM-DD in the grouping timezone
	Events []models.Event `json:"events"`
}

// GroupByLocalDate buckets events by calendar date in loc, newest date
// first. Within a bucket events keep their relative order.
func GroupByLocalDate(events []models.Event, loc *time.Location) []DayBucket {
	byDate := make(map[string][]models.Event)
	for _, e := range events {
		key := e.Timestamp.In(loc).Format("2006-01-02")
		byDate[key] = append(byDate[key], e)
	}

	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	buckets := make([]DayBucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, DayBucket{Date: k, Events: byDate[k]})
	}
	return buckets
}

// TimeOfDayCategory maps the local hour to a meal time. The boundaries are
// fixed: breakfast [5,11), lunch [11,16), dinner [16,22), snack otherwise.
func TimeOfDayCategory(t time.Time, loc *time.Location) MealTime {
	hour := t.In(loc).Hour()
	switch {
	case hour >= 5 && hour < 11:
		return MealTimeBreakfast
	case hour >= 11 && hour < 16:
		return MealTimeLunch
	case hour >= 16 && hour < 22:
		return MealTimeDinner
	default:
		return MealTimeSnack
	}
}

package services

import (
	"sort"
	"time"

	"github.com/taeahn1/betterlife/models"
)

// The nightly meditation habit doubles as a sleep proxy: the last thing
// before bed and the first thing after waking is a meditation session, so
// the start events anchor the sleep window.
const (
	morningWindowStart = 4  // wake anchor: [04:00, 11:00) on the query day
	morningWindowEnd   = 11
	nightWindowStart   = 22 // bed anchor: [22:00, 24:00) prior day or [00:00, 02:00) query day
	dawnWindowEnd      = 2

	// settleDownOffset models the gap between starting the wind-down
	// meditation and actually falling asleep.
	settleDownOffset = 15 * time.Minute
)

const (
	healthySleepMin = 7 * time.Hour
	healthySleepMax = 9 * time.Hour
)

// SleepWindow is the derived time in bed for one night.
type SleepWindow struct {
	BedTime  time.Time     `json:"bed_time"`
	WakeTime time.Time     `json:"wake_time"`
	Duration time.Duration `json:"-"`
	Hours    int           `json:"hours"`
	Minutes  int           `json:"minutes"`
	Healthy  bool          `json:"healthy"`
}

// DeriveSleepWindow pairs the night meditation-start with the next morning
// one for the calendar day containing `day` in loc. Events may arrive in any
// order and may include unrelated activity types. Missing anchors, or a
// window that comes out non-positive, report ErrInsufficientData; the
// deriver never guesses a partial result.
func DeriveSleepWindow(events []models.Event, day time.Time, loc *time.Location) (*SleepWindow, error) {
	queryDay := dateIn(day, loc)
	priorDay := queryDay.AddDate(0, 0, -1)

	starts := make([]models.Event, 0, len(events))
	for _, e := range events {
		if e.ActivityType == models.ActivityMeditationStart {
			starts = append(starts, e)
		}
	}
	sort.Slice(starts, func(i, j int) bool {
		return starts[i].Timestamp.Before(starts[j].Timestamp)
	})

	var morning, night *time.Time
	for _, e := range starts {
		local := e.Timestamp.In(loc)
		hour := local.Hour()
		onQueryDay := dateIn(local, loc).Equal(queryDay)
		onPriorDay := dateIn(local, loc).Equal(priorDay)

		if night == nil &&
			((onPriorDay && hour >= nightWindowStart) || (onQueryDay && hour < dawnWindowEnd)) {
			t := local
			night = &t
		}
		if morning == nil && onQueryDay && hour >= morningWindowStart && hour < morningWindowEnd {
			t := local
			morning = &t
		}
	}

	if morning == nil || night == nil {
		return nil, ErrInsufficientData
	}

	bedTime := night.Add(settleDownOffset)
	duration := morning.Sub(bedTime)
	if duration <= 0 {
		// Anchors out of order or anomalous; refuse to display wrapped time.
		return nil, ErrInsufficientData
	}

	return &SleepWindow{
		BedTime:  bedTime,
		WakeTime: *morning,
		Duration: duration,
		Hours:    int(duration / time.Hour),
		Minutes:  int(duration % time.Hour / time.Minute),
		Healthy:  duration >= healthySleepMin && duration <= healthySleepMax,
	}, nil
}

// dateIn truncates t to local midnight in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

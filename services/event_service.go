package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taeahn1/betterlife/models"
)

// EventFilter narrows a query. All set fields must match (conjunctive AND);
// the date range is inclusive at both ends.
type EventFilter struct {
	UserID       string
	ActivityType models.ActivityType
	StartDate    *time.Time
	EndDate      *time.Time
}

// EventDraft is what callers supply; the store assigns id and created_at.
type EventDraft struct {
	UserID       string
	ActivityType models.ActivityType
	Timestamp    time.Time
	Metadata     []byte
}

// EventStore is the single flat collection of event records. The gorm
// implementation backs production; MemoryEventStore substitutes in tests.
type EventStore interface {
	Add(ctx context.Context, draft EventDraft) (*models.Event, error)
	Query(ctx context.Context, filter EventFilter) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	Delete(ctx context.Context, id string) error
	UpdatePortion(ctx context.Context, id string, fraction float64) (*models.Event, error)
}

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Add assigns a fresh id and created_at and appends the record. Draft
// fields are stored as given, including a caller-supplied timestamp that
// may differ from created_at.
func (s *EventService) Add(ctx context.Context, draft EventDraft) (*models.Event, error) {
	event := models.Event{
		ID:           uuid.NewString(),
		UserID:       draft.UserID,
		ActivityType: draft.ActivityType,
		Timestamp:    draft.Timestamp,
		Metadata:     draft.Metadata,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// Query returns events matching every supplied filter, newest timestamp
// first. Zero filters return the entire store.
func (s *EventService) Query(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	q := s.db.WithContext(ctx).Model(&models.Event{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.ActivityType != "" {
		q = q.Where("activity_type = ?", filter.ActivityType)
	}
	if filter.StartDate != nil {
		q = q.Where("timestamp >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("timestamp <= ?", *filter.EndDate)
	}

	var events []models.Event
	if err := q.Order("timestamp DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// Delete removes exactly one record. Deleting a missing id reports
// ErrNotFound and leaves the store untouched.
func (s *EventService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePortion is the one mutation events support after creation: it
// reapplies the consumption fraction to a meal, recomputing all four
// consumed_* fields together so they can never drift apart. The
// read-modify-write runs under a row lock so racing updates serialize.
func (s *EventService) UpdatePortion(ctx context.Context, id string, fraction float64) (*models.Event, error) {
	var updated models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if event.ActivityType != models.ActivityMeal {
			return ErrNotFound
		}

		meal, err := event.Meal()
		if err != nil {
			return err
		}
		portioned, err := ApplyPortion(*meal, fraction)
		if err != nil {
			return err
		}
		if err := event.SetMetadata(&portioned); err != nil {
			return err
		}
		if err := tx.Save(&event).Error; err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taeahn1/betterlife/models"
)

// MemoryEventStore keeps events in process memory behind a RWMutex. It
// exists so handlers and derivations can be exercised without Postgres, and
// doubles as a single-user local mode. Mutations serialize on the write
// lock; readers get copies, never aliases into the map.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events map[string]models.Event
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{events: make(map[string]models.Event)}
}

func (s *MemoryEventStore) Add(_ context.Context, draft EventDraft) (*models.Event, error) {
	event := models.Event{
		ID:           uuid.NewString(),
		UserID:       draft.UserID,
		ActivityType: draft.ActivityType,
		Timestamp:    draft.Timestamp,
		Metadata:     draft.Metadata,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	s.events[event.ID] = event
	s.mu.Unlock()

	return &event, nil
}

func (s *MemoryEventStore) Query(_ context.Context, filter EventFilter) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.ActivityType != "" && e.ActivityType != filter.ActivityType {
			continue
		}
		if filter.StartDate != nil && e.Timestamp.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.Timestamp.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched, nil
}

func (s *MemoryEventStore) Get(_ context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *MemoryEventStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *MemoryEventStore) UpdatePortion(_ context.Context, id string, fraction float64) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok || event.ActivityType != models.ActivityMeal {
		return nil, ErrNotFound
	}

	meal, err := event.Meal()
	if err != nil {
		return nil, err
	}
	portioned, err := ApplyPortion(*meal, fraction)
	if err != nil {
		return nil, err
	}
	if err := event.SetMetadata(&portioned); err != nil {
		return nil, err
	}

	s.events[id] = event
	return &event, nil
}

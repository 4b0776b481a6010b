package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ForecastEventRepository struct {
	mu       sync.RWMutex
	events   map[string]domain.ForecastEvent
	sequence int64
	order    map[string]int64
}

func NewForecastEventRepository() *ForecastEventRepository {
	return &ForecastEventRepository{
		events: make(map[string]domain.ForecastEvent),
		order:  make(map[string]int64),
	}
}

func (r *ForecastEventRepository) Create(_ context.Context, event domain.ForecastEvent) (domain.ForecastEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	event.ID = uuid.NewString()
	event.CreatedAt = now
	event.UpdatedAt = now
	r.sequence++
	r.order[event.ID] = r.sequence
	r.events[event.ID] = event

	return event, nil
}

func (r *ForecastEventRepository) GetByID(_ context.Context, id string) (domain.ForecastEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return domain.ForecastEvent{}, domain.ErrRecordNotFound
	}

	return event, nil
}

func (r *ForecastEventRepository) ListBySource(_ context.Context, sourceID string) ([]domain.ForecastEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []domain.ForecastEvent
	for _, event := range r.events {
		if event.SourceID == sourceID {
			events = append(events, event)
		}
	}
	r.sortByInsertion(events)

	return events, nil
}

func (r *ForecastEventRepository) ListPredicted(_ context.Context) ([]domain.ForecastEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []domain.ForecastEvent
	for _, event := range r.events {
		if event.Status == domain.ForecastEventStatusPredicted {
			events = append(events, event)
		}
	}
	r.sortByInsertion(events)

	return events, nil
}

func (r *ForecastEventRepository) ListPredictedWithin(_ context.Context, from, to time.Time) ([]domain.ForecastEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []domain.ForecastEvent
	for _, event := range r.events {
		if event.Status != domain.ForecastEventStatusPredicted {
			continue
		}
		if event.PredictedDate.Before(from) || event.PredictedDate.After(to) {
			continue
		}
		events = append(events, event)
	}
	r.sortByInsertion(events)

	return events, nil
}

func (r *ForecastEventRepository) Update(_ context.Context, event domain.ForecastEvent) (domain.ForecastEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.events[event.ID]
	if !ok {
		return domain.ForecastEvent{}, domain.ErrRecordNotFound
	}

	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = time.Now().UTC()
	r.events[event.ID] = event

	return event, nil
}

func (r *ForecastEventRepository) sortByInsertion(events []domain.ForecastEvent) {
	sort.Slice(events, func(i, j int) bool {
		return r.order[events[i].ID] < r.order[events[j].ID]
	})
}

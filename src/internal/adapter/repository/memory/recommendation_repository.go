package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type RecommendationRepository struct {
	mu              sync.RWMutex
	recommendations map[string]domain.Recommendation
	sequence        int64
	order           map[string]int64
}

func NewRecommendationRepository() *RecommendationRepository {
	return &RecommendationRepository{
		recommendations: make(map[string]domain.Recommendation),
		order:           make(map[string]int64),
	}
}

func (r *RecommendationRepository) ReplaceActive(_ context.Context, recommendations []domain.Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.recommendations {
		if existing.Status == domain.RecommendationStatusActive {
			delete(r.recommendations, id)
			delete(r.order, id)
		}
	}

	now := time.Now().UTC()
	for _, recommendation := range recommendations {
		recommendation.ID = uuid.NewString()
		recommendation.Status = domain.RecommendationStatusActive
		recommendation.CreatedAt = now
		r.sequence++
		r.order[recommendation.ID] = r.sequence
		r.recommendations[recommendation.ID] = recommendation
	}

	return nil
}

func (r *RecommendationRepository) ListActive(_ context.Context) ([]domain.Recommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []domain.Recommendation
	for _, recommendation := range r.recommendations {
		if recommendation.Status == domain.RecommendationStatusActive {
			active = append(active, recommendation)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return r.order[active[i].ID] < r.order[active[j].ID]
	})

	return active, nil
}

func (r *RecommendationRepository) Dismiss(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recommendation, ok := r.recommendations[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	recommendation.Status = domain.RecommendationStatusDismissed
	r.recommendations[id] = recommendation

	return nil
}

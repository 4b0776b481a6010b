package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type MovementRepository struct {
	mu        sync.RWMutex
	movements map[string]domain.Movement
	sequence  int64
	order     map[string]int64
}

func NewMovementRepository() *MovementRepository {
	return &MovementRepository{
		movements: make(map[string]domain.Movement),
		order:     make(map[string]int64),
	}
}

func (r *MovementRepository) Create(_ context.Context, movement domain.Movement) (domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	movement.ID = uuid.NewString()
	movement.CreatedAt = now
	movement.UpdatedAt = now
	movement.DocumentIDs = cloneStrings(movement.DocumentIDs)
	r.sequence++
	r.order[movement.ID] = r.sequence
	r.movements[movement.ID] = movement

	return cloneMovement(movement), nil
}

func (r *MovementRepository) GetByID(_ context.Context, id string) (domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	movement, ok := r.movements[id]
	if !ok {
		return domain.Movement{}, domain.ErrRecordNotFound
	}

	return cloneMovement(movement), nil
}

func (r *MovementRepository) ListByAccount(_ context.Context, accountID string) ([]domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var movements []domain.Movement
	for _, movement := range r.movements {
		if movement.AccountID == accountID {
			movements = append(movements, cloneMovement(movement))
		}
	}
	r.sortByInsertion(movements)

	return movements, nil
}

func (r *MovementRepository) ListUnreconciled(_ context.Context) ([]domain.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var movements []domain.Movement
	for _, movement := range r.movements {
		if movement.ReconciliationState == domain.ReconciliationStateUnreconciled {
			movements = append(movements, cloneMovement(movement))
		}
	}
	r.sortByInsertion(movements)

	return movements, nil
}

func (r *MovementRepository) HasDuplicate(_ context.Context, accountID string, date time.Time, amount decimal.Decimal, description string, tolerance decimal.Decimal) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := strings.TrimSpace(description)
	for _, movement := range r.movements {
		if movement.AccountID != accountID {
			continue
		}
		if !sameDay(movement.OperationDate, date) {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(movement.Description), normalized) {
			continue
		}
		if movement.Amount.Sub(amount).Abs().LessThanOrEqual(tolerance) {
			return true, nil
		}
	}

	return false, nil
}

func (r *MovementRepository) Update(_ context.Context, movement domain.Movement) (domain.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.movements[movement.ID]
	if !ok {
		return domain.Movement{}, domain.ErrRecordNotFound
	}

	movement.CreatedAt = existing.CreatedAt
	movement.UpdatedAt = time.Now().UTC()
	movement.DocumentIDs = cloneStrings(movement.DocumentIDs)
	r.movements[movement.ID] = movement

	return cloneMovement(movement), nil
}

func (r *MovementRepository) CountByAccount(_ context.Context, accountID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, movement := range r.movements {
		if movement.AccountID == accountID {
			count++
		}
	}

	return count, nil
}

func (r *MovementRepository) DeleteByAccount(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, movement := range r.movements {
		if movement.AccountID == accountID {
			delete(r.movements, id)
			delete(r.order, id)
		}
	}

	return nil
}

func (r *MovementRepository) sortByInsertion(movements []domain.Movement) {
	sort.Slice(movements, func(i, j int) bool {
		return r.order[movements[i].ID] < r.order[movements[j].ID]
	})
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func cloneMovement(movement domain.Movement) domain.Movement {
	movement.DocumentIDs = cloneStrings(movement.DocumentIDs)
	return movement
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type RuleRepository struct {
	mu    sync.RWMutex
	rules map[string]domain.Rule
}

func NewRuleRepository() *RuleRepository {
	return &RuleRepository{rules: make(map[string]domain.Rule)}
}

func (r *RuleRepository) Create(_ context.Context, rule domain.Rule) (domain.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	rule.ID = uuid.NewString()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	r.rules[rule.ID] = rule

	return rule, nil
}

func (r *RuleRepository) ListActive(_ context.Context) ([]domain.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rules []domain.Rule
	for _, rule := range r.rules {
		if rule.IsActive {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})

	return rules, nil
}

func (r *RuleRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rules[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.rules, id)

	return nil
}

func (r *RuleRepository) DeleteByAccount(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rule := range r.rules {
		if rule.AccountID != nil && *rule.AccountID == accountID {
			delete(r.rules, id)
		}
	}

	return nil
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ImportBatchRepository struct {
	mu      sync.RWMutex
	batches map[string]domain.ImportBatch
	hashes  map[string]struct{}
}

func NewImportBatchRepository() *ImportBatchRepository {
	return &ImportBatchRepository{
		batches: make(map[string]domain.ImportBatch),
		hashes:  make(map[string]struct{}),
	}
}

func (r *ImportBatchRepository) Create(_ context.Context, batch domain.ImportBatch) (domain.ImportBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hashes[batch.ContentHash]; exists {
		return domain.ImportBatch{}, domain.ErrDuplicateImport
	}

	batch.ID = uuid.NewString()
	batch.CreatedAt = time.Now().UTC()
	r.batches[batch.ID] = batch
	r.hashes[batch.ContentHash] = struct{}{}

	return batch, nil
}

func (r *ImportBatchRepository) ExistsByHash(_ context.Context, contentHash string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.hashes[contentHash]
	return exists, nil
}

func (r *ImportBatchRepository) UpdateCounts(_ context.Context, id string, imported, duplicates, failed int, dateFrom, dateTo *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, ok := r.batches[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	batch.Imported = imported
	batch.Duplicates = duplicates
	batch.Failed = failed
	batch.DateFrom = dateFrom
	batch.DateTo = dateTo
	r.batches[id] = batch

	return nil
}

func (r *ImportBatchRepository) List(_ context.Context) ([]domain.ImportBatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	batches := make([]domain.ImportBatch, 0, len(r.batches))
	for _, batch := range r.batches {
		batches = append(batches, batch)
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].CreatedAt.Before(batches[j].CreatedAt)
	})

	return batches, nil
}

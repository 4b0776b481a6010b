package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ImportBatchRepository interface {
	Create(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error)
	ExistsByHash(ctx context.Context, contentHash string) (bool, error)
	UpdateCounts(ctx context.Context, id string, imported, duplicates, failed int, dateFrom, dateTo *time.Time) error
	List(ctx context.Context) ([]domain.ImportBatch, error)
}

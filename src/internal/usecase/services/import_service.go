package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/models"
	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/treasury-engine/src/internal/commons"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/eventbus"
	"github.com/api-sage/treasury-engine/src/internal/logger"
	"github.com/api-sage/treasury-engine/src/internal/statement"
	"github.com/api-sage/treasury-engine/src/internal/usecase/service_interfaces"
)

var duplicateTolerance = decimal.NewFromFloat(0.01)

// ImportService turns a statement file into deduplicated movements for one
// account. The SHA-256 of the raw bytes is the batch idempotency key: a
// byte-identical re-import is rejected whole, never row-by-row.
type ImportService struct {
	accountRepo  repo_interfaces.AccountRepository
	movementRepo repo_interfaces.MovementRepository
	batchRepo    repo_interfaces.ImportBatchRepository
	ruleRepo     repo_interfaces.RuleRepository
	parsers      *statement.Registry
	matching     service_interfaces.MatchingService
	bus          *eventbus.Bus
}

func NewImportService(
	accountRepo repo_interfaces.AccountRepository,
	movementRepo repo_interfaces.MovementRepository,
	batchRepo repo_interfaces.ImportBatchRepository,
	ruleRepo repo_interfaces.RuleRepository,
	parsers *statement.Registry,
	matching service_interfaces.MatchingService,
	bus *eventbus.Bus,
) *ImportService {
	return &ImportService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		batchRepo:    batchRepo,
		ruleRepo:     ruleRepo,
		parsers:      parsers,
		matching:     matching,
		bus:          bus,
	}
}

func (s *ImportService) Import(ctx context.Context, req models.ImportStatementRequest) (commons.Response[models.ImportResponse], error) {
	logger.Info("import service statement import request", logger.Fields{
		"accountId": req.AccountID,
		"filename":  req.Filename,
		"actor":     req.Actor,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.ImportResponse]("validation failed", err.Error()), err
	}

	content, err := req.DecodedContent()
	if err != nil {
		return commons.ErrorResponse[models.ImportResponse]("validation failed", err.Error()), err
	}

	hash := sha256.Sum256(content)
	contentHash := hex.EncodeToString(hash[:])

	exists, err := s.batchRepo.ExistsByHash(ctx, contentHash)
	if err != nil {
		return commons.ErrorResponse[models.ImportResponse]("failed to import statement", "Unable to import right now"), err
	}
	if exists {
		return commons.ErrorResponse[models.ImportResponse]("File was already imported"), domain.ErrDuplicateImport
	}

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ImportResponse]("Account not found or inactive"), domain.ErrInvalidAccount
		}
		return commons.ErrorResponse[models.ImportResponse]("failed to import statement", "Unable to import right now"), err
	}
	if !account.IsActive || account.IsDeleted {
		return commons.ErrorResponse[models.ImportResponse]("Account not found or inactive"), domain.ErrInvalidAccount
	}

	parser, err := s.parsers.ForFilename(req.Filename)
	if err != nil {
		return commons.ErrorResponse[models.ImportResponse]("Unsupported file format", err.Error()), err
	}

	parsed, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		return commons.ErrorResponse[models.ImportResponse]("failed to parse statement", err.Error()), err
	}
	if len(parsed.Rows) == 0 {
		return commons.ErrorResponse[models.ImportResponse]("File produced no rows"), domain.ErrEmptyImport
	}

	// Creating the batch first claims the content hash, so a concurrent
	// re-import of the same bytes fails before touching the ledger.
	batch, err := s.batchRepo.Create(ctx, domain.ImportBatch{
		Filename:    req.Filename,
		BankKey:     parsed.Metadata.DetectedBankKey,
		AccountID:   account.ID,
		AccountIBAN: account.IBAN,
		ContentHash: contentHash,
		ImportedBy:  strings.TrimSpace(req.Actor),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateImport) {
			return commons.ErrorResponse[models.ImportResponse]("File was already imported"), domain.ErrDuplicateImport
		}
		return commons.ErrorResponse[models.ImportResponse]("failed to record import batch", "Unable to import right now"), err
	}

	rules, err := s.ruleRepo.ListActive(ctx)
	if err != nil {
		logger.Error("import service rule lookup failed", err, nil)
		rules = nil
	}

	skipDuplicates := req.ShouldSkipDuplicates()
	inserted := make([]domain.Movement, 0, len(parsed.Rows))
	duplicates := 0
	failed := parsed.Failed
	var dateFrom, dateTo *time.Time

	for index, row := range parsed.Rows {
		amount := normalizeSign(row)

		if skipDuplicates {
			isDuplicate, err := s.movementRepo.HasDuplicate(ctx, account.ID, row.Date, amount, row.Description, duplicateTolerance)
			if err != nil {
				logger.Error("import service duplicate check failed", err, logger.Fields{"rowIndex": index})
				failed++
				continue
			}
			if isDuplicate {
				duplicates++
				continue
			}
		}

		batchID := batch.ID
		movement := domain.Movement{
			AccountID:           account.ID,
			OperationDate:       row.Date,
			ValueDate:           row.ValueDate,
			Amount:              amount,
			Description:         strings.TrimSpace(row.Description),
			Counterparty:        row.Counterparty,
			Reference:           row.Reference,
			BalanceSnapshot:     row.Balance,
			Status:              domain.MovementStatusPending,
			ReconciliationState: domain.ReconciliationStateUnreconciled,
			BatchID:             &batchID,
			RowIndex:            index,
		}
		applyRules(&movement, rules)

		created, err := s.movementRepo.Create(ctx, movement)
		if err != nil {
			logger.Error("import service movement insert failed", err, logger.Fields{"rowIndex": index})
			failed++
			continue
		}

		inserted = append(inserted, created)
		if dateFrom == nil || row.Date.Before(*dateFrom) {
			date := row.Date
			dateFrom = &date
		}
		if dateTo == nil || row.Date.After(*dateTo) {
			date := row.Date
			dateTo = &date
		}
	}

	if err := s.batchRepo.UpdateCounts(ctx, batch.ID, len(inserted), duplicates, failed, dateFrom, dateTo); err != nil {
		logger.Error("import service batch count update failed", err, logger.Fields{
			"batchId": batch.ID,
		})
	}

	// Awaited synchronously: when the last publish returns, the cascade has
	// observed every insertion of this batch.
	for i := range inserted {
		s.bus.Publish(ctx, eventbus.Event{
			Kind:      eventbus.MovementCreated,
			AccountID: account.ID,
			Movement:  &inserted[i],
		})
	}

	reconciled, pendingReview, err := s.matching.AutoReconcile(ctx)
	if err != nil {
		logger.Error("import service post-import reconciliation failed", err, logger.Fields{
			"batchId": batch.ID,
		})
	}

	response := models.ImportResponse{
		BatchID:       batch.ID,
		Inserted:      len(inserted),
		Duplicates:    duplicates,
		Failed:        failed,
		Reconciled:    reconciled,
		PendingReview: pendingReview,
	}

	return commons.SuccessResponse("Statement imported", response), nil
}

func (s *ImportService) ListBatches(ctx context.Context) ([]domain.ImportBatch, error) {
	return s.batchRepo.List(ctx)
}

// normalizeSign forces outgoing charges negative and incoming credits
// positive whenever the source file carries an explicit direction.
func normalizeSign(row statement.Row) decimal.Decimal {
	switch row.Direction {
	case statement.DirectionDebit:
		return row.Amount.Abs().Neg()
	case statement.DirectionCredit:
		return row.Amount.Abs()
	default:
		return row.Amount
	}
}

func applyRules(movement *domain.Movement, rules []domain.Rule) {
	description := strings.ToLower(movement.Description)
	for _, rule := range rules {
		if rule.AccountID != nil && *rule.AccountID != movement.AccountID {
			continue
		}
		if !strings.Contains(description, strings.ToLower(rule.Pattern)) {
			continue
		}
		if rule.SetCategory != nil && movement.Category == nil {
			movement.Category = rule.SetCategory
		}
		if rule.SetCounterparty != nil && movement.Counterparty == nil {
			movement.Counterparty = rule.SetCounterparty
		}
	}
}

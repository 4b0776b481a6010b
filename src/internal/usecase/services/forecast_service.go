package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/logger"
)

// ForecastService turns confirmed document financials into forecast events
// and keeps them in sync while the user corrects OCR-derived fields.
type ForecastService struct {
	eventRepo   repo_interfaces.ForecastEventRepository
	accountRepo repo_interfaces.AccountRepository
	now         func() time.Time
}

func NewForecastService(
	eventRepo repo_interfaces.ForecastEventRepository,
	accountRepo repo_interfaces.AccountRepository,
) *ForecastService {
	return &ForecastService{
		eventRepo:   eventRepo,
		accountRepo: accountRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateFromDocument returns nil without error for capital-expenditure
// documents: they change asset value, not cash flow.
func (s *ForecastService) CreateFromDocument(ctx context.Context, doc domain.DocumentFinancials) (*domain.ForecastEvent, error) {
	if strings.TrimSpace(doc.DocumentID) == "" {
		return nil, domain.NewValidationError("documentId is required")
	}
	if doc.CapitalExpenditure {
		logger.Info("forecast service skipping capital expenditure document", logger.Fields{
			"documentId": doc.DocumentID,
		})
		return nil, nil
	}
	if doc.Amount.IsNegative() || doc.Amount.IsZero() {
		return nil, domain.NewValidationError("amount must be greater than zero")
	}

	event := domain.ForecastEvent{
		SourceID:      doc.DocumentID,
		Type:          doc.Kind,
		Amount:        doc.Amount,
		PredictedDate: s.predictedDate(doc),
		Description:   describeDocument(doc),
		PaymentMethod: doc.PaymentMethod,
		Status:        domain.ForecastEventStatusPredicted,
	}
	if event.Type == "" {
		event.Type = domain.ForecastEventTypeExpense
	}

	s.resolveAccount(ctx, doc, &event)

	created, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("create forecast event: %w", err)
	}

	logger.Info("forecast service created event", logger.Fields{
		"eventId":       created.ID,
		"documentId":    doc.DocumentID,
		"amount":        created.Amount.String(),
		"predictedDate": created.PredictedDate.Format("2006-01-02"),
	})

	return &created, nil
}

// UpdateFromDocument mutates the predicted events sourced from the document
// in place; if none exist it falls through to creation. Executed events are
// left untouched.
func (s *ForecastService) UpdateFromDocument(ctx context.Context, doc domain.DocumentFinancials) (*domain.ForecastEvent, error) {
	events, err := s.eventRepo.ListBySource(ctx, doc.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("find forecast events for document: %w", err)
	}

	var updated *domain.ForecastEvent
	for _, event := range events {
		if event.Status != domain.ForecastEventStatusPredicted {
			continue
		}
		if doc.Amount.IsNegative() || doc.Amount.IsZero() {
			return nil, domain.NewValidationError("amount must be greater than zero")
		}

		event.Amount = doc.Amount
		event.PredictedDate = s.predictedDate(doc)
		event.Description = describeDocument(doc)
		event.PaymentMethod = doc.PaymentMethod
		if doc.Kind != "" {
			event.Type = doc.Kind
		}
		s.resolveAccount(ctx, doc, &event)

		saved, err := s.eventRepo.Update(ctx, event)
		if err != nil {
			return nil, fmt.Errorf("update forecast event: %w", err)
		}
		updated = &saved
	}

	if updated == nil {
		return s.CreateFromDocument(ctx, doc)
	}

	return updated, nil
}

// predictedDate falls back in priority order: explicit predicted payment
// date, due date, today.
func (s *ForecastService) predictedDate(doc domain.DocumentFinancials) time.Time {
	if doc.PredictedPaymentDate != nil {
		return *doc.PredictedPaymentDate
	}
	if doc.DueDate != nil {
		return *doc.DueDate
	}
	return s.now()
}

func (s *ForecastService) resolveAccount(ctx context.Context, doc domain.DocumentFinancials, event *domain.ForecastEvent) {
	if doc.IBAN == nil || strings.TrimSpace(*doc.IBAN) == "" {
		return
	}

	account, err := s.accountRepo.GetByIBAN(ctx, *doc.IBAN)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			logger.Error("forecast service account lookup failed", err, logger.Fields{
				"documentId": doc.DocumentID,
			})
		}
		return
	}

	event.AccountID = &account.ID
}

func describeDocument(doc domain.DocumentFinancials) string {
	parts := make([]string, 0, 2)
	if doc.Supplier != nil && strings.TrimSpace(*doc.Supplier) != "" {
		parts = append(parts, strings.TrimSpace(*doc.Supplier))
	}
	if doc.InvoiceNumber != nil && strings.TrimSpace(*doc.InvoiceNumber) != "" {
		parts = append(parts, "invoice "+strings.TrimSpace(*doc.InvoiceNumber))
	}
	if len(parts) == 0 {
		return "document " + doc.DocumentID
	}
	return strings.Join(parts, " ")
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/adapter/http/models"
	"github.com/api-sage/treasury-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/treasury-engine/src/internal/commons"
	"github.com/api-sage/treasury-engine/src/internal/domain"
	"github.com/api-sage/treasury-engine/src/internal/eventbus"
	"github.com/api-sage/treasury-engine/src/internal/logger"
)

type AccountService struct {
	accountRepo  repo_interfaces.AccountRepository
	movementRepo repo_interfaces.MovementRepository
	ruleRepo     repo_interfaces.RuleRepository
	bus          *eventbus.Bus
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	movementRepo repo_interfaces.MovementRepository,
	ruleRepo repo_interfaces.RuleRepository,
	bus *eventbus.Bus,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		ruleRepo:     ruleRepo,
		bus:          bus,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service create account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	iban := domain.NormalizeIBAN(req.IBAN)
	if _, err := s.accountRepo.GetByIBAN(ctx, iban); err == nil {
		err := domain.NewValidationError("an account with this IBAN already exists")
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	opening, _ := decimal.NewFromString(req.OpeningBalance)
	minimum := decimal.Zero
	if req.MinimumBalance != "" {
		minimum, _ = decimal.NewFromString(req.MinimumBalance)
	}

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	account, err := s.accountRepo.Create(ctx, domain.Account{
		Name:           req.Name,
		BankName:       req.BankName,
		IBAN:           iban,
		Currency:       currency,
		OpeningBalance: opening,
		OpeningDate:    req.ParsedOpeningDate(),
		Balance:        opening,
		MinimumBalance: minimum,
		IsActive:       true,
	})
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("failed to create account", "Unable to create account right now"), err
	}

	s.bus.Publish(ctx, eventbus.Event{
		Kind:      eventbus.AccountChanged,
		AccountID: account.ID,
		Account:   &account,
	})

	return commons.SuccessResponse("Account created", models.MapAccountToResponse(account)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (commons.Response[models.AccountResponse], error) {
	if id == "" {
		err := domain.NewValidationError("account id is required")
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to get account right now"), err
	}

	return commons.SuccessResponse("Account found", models.MapAccountToResponse(account)), nil
}

func (s *AccountService) ListAccounts(ctx context.Context, includeInactive bool) (commons.Response[[]models.AccountResponse], error) {
	accounts, err := s.accountRepo.List(ctx, includeInactive)
	if err != nil {
		return commons.ErrorResponse[[]models.AccountResponse]("failed to list accounts", "Unable to list accounts right now"), err
	}

	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, models.MapAccountToResponse(account))
	}

	return commons.SuccessResponse("Accounts found", responses), nil
}

func (s *AccountService) SetMinimumBalance(ctx context.Context, req models.SetMinimumBalanceRequest) (commons.Response[models.AccountResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to update account", "Unable to update account right now"), err
	}

	account.MinimumBalance, _ = decimal.NewFromString(req.MinimumBalance)
	updated, err := s.accountRepo.Update(ctx, account)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("failed to update account", "Unable to update account right now"), err
	}

	s.bus.Publish(ctx, eventbus.Event{
		Kind:      eventbus.AccountChanged,
		AccountID: updated.ID,
		Account:   &updated,
	})

	return commons.SuccessResponse("Minimum balance updated", models.MapAccountToResponse(updated)), nil
}

// DeactivateAccount soft-deletes: history is preserved, the account drops
// out of projections and recommendations.
func (s *AccountService) DeactivateAccount(ctx context.Context, id string) (commons.Response[models.AccountResponse], error) {
	if id == "" {
		err := domain.NewValidationError("account id is required")
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.AccountResponse]("failed to deactivate account", "Unable to deactivate account right now"), err
	}

	account.IsActive = false
	updated, err := s.accountRepo.Update(ctx, account)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("failed to deactivate account", "Unable to deactivate account right now"), err
	}

	s.bus.Publish(ctx, eventbus.Event{
		Kind:      eventbus.AccountChanged,
		AccountID: updated.ID,
		Account:   &updated,
	})

	return commons.SuccessResponse("Account deactivated", models.MapAccountToResponse(updated)), nil
}

// DeleteAccount hard-deletes only when the account has no movements.
// Cascade deletion is a separate, explicit operation that also purges the
// account's movements and rules.
func (s *AccountService) DeleteAccount(ctx context.Context, id string, cascade bool) (commons.Response[models.DeleteAccountResponse], error) {
	if id == "" {
		err := domain.NewValidationError("account id is required")
		return commons.ErrorResponse[models.DeleteAccountResponse]("validation failed", err.Error()), err
	}

	if _, err := s.accountRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.DeleteAccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.DeleteAccountResponse]("failed to delete account", "Unable to delete account right now"), err
	}

	count, err := s.movementRepo.CountByAccount(ctx, id)
	if err != nil {
		return commons.ErrorResponse[models.DeleteAccountResponse]("failed to delete account", "Unable to delete account right now"), err
	}

	purgedMovements := 0
	if count > 0 {
		if !cascade {
			err := domain.NewValidationError(fmt.Sprintf("account has %d movements; use cascade delete", count))
			return commons.ErrorResponse[models.DeleteAccountResponse]("validation failed", err.Error()), err
		}

		purged, err := s.movementRepo.ListByAccount(ctx, id)
		if err != nil {
			return commons.ErrorResponse[models.DeleteAccountResponse]("failed to delete account", "Unable to delete account right now"), err
		}
		if err := s.movementRepo.DeleteByAccount(ctx, id); err != nil {
			return commons.ErrorResponse[models.DeleteAccountResponse]("failed to delete account", "Unable to delete account right now"), err
		}
		// Published while the account row still exists so listeners can
		// resolve it; the terminal ACCOUNT_CHANGED below carries no entity.
		for i := range purged {
			s.bus.Publish(ctx, eventbus.Event{
				Kind:      eventbus.MovementDeleted,
				AccountID: id,
				Movement:  &purged[i],
			})
		}
		purgedMovements = count
	}

	if err := s.ruleRepo.DeleteByAccount(ctx, id); err != nil {
		logger.Error("account service rule purge failed", err, logger.Fields{"accountId": id})
	}

	if err := s.accountRepo.Delete(ctx, id); err != nil {
		return commons.ErrorResponse[models.DeleteAccountResponse]("failed to delete account", "Unable to delete account right now"), err
	}

	s.bus.Publish(ctx, eventbus.Event{
		Kind:      eventbus.AccountChanged,
		AccountID: id,
	})

	return commons.SuccessResponse("Account deleted", models.DeleteAccountResponse{
		AccountID:       id,
		PurgedMovements: purgedMovements,
	}), nil
}

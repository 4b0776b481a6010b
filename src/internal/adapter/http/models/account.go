package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type CreateAccountRequest struct {
	Name           string `json:"name"`
	BankName       string `json:"bankName"`
	IBAN           string `json:"iban"`
	Currency       string `json:"currency,omitempty"`
	OpeningBalance string `json:"openingBalance"`
	OpeningDate    string `json:"openingDate,omitempty"`
	MinimumBalance string `json:"minimumBalance,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(r.BankName) == "" {
		errs = append(errs, "bankName is required")
	}
	if !domain.ValidIBAN(r.IBAN) {
		errs = append(errs, "iban is not valid")
	}

	ccy := strings.ToUpper(strings.TrimSpace(r.Currency))
	if ccy != "" && len(ccy) != 3 {
		errs = append(errs, "currency must be a 3-letter code")
	}

	if strings.TrimSpace(r.OpeningBalance) == "" {
		errs = append(errs, "openingBalance is required")
	} else if _, err := decimal.NewFromString(strings.TrimSpace(r.OpeningBalance)); err != nil {
		errs = append(errs, "openingBalance must be numeric")
	}

	if strings.TrimSpace(r.OpeningDate) != "" {
		if _, err := time.Parse("2006-01-02", strings.TrimSpace(r.OpeningDate)); err != nil {
			errs = append(errs, "openingDate must be formatted as YYYY-MM-DD")
		}
	}

	if strings.TrimSpace(r.MinimumBalance) != "" {
		minimum, err := decimal.NewFromString(strings.TrimSpace(r.MinimumBalance))
		if err != nil {
			errs = append(errs, "minimumBalance must be numeric")
		} else if minimum.IsNegative() {
			errs = append(errs, "minimumBalance cannot be negative")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (r CreateAccountRequest) ParsedOpeningDate() time.Time {
	if parsed, err := time.Parse("2006-01-02", strings.TrimSpace(r.OpeningDate)); err == nil {
		return parsed
	}
	return time.Now().UTC()
}

type SetMinimumBalanceRequest struct {
	AccountID      string `json:"accountId"`
	MinimumBalance string `json:"minimumBalance"`
}

func (r SetMinimumBalanceRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}

	if strings.TrimSpace(r.MinimumBalance) == "" {
		errs = append(errs, "minimumBalance is required")
	} else {
		minimum, err := decimal.NewFromString(strings.TrimSpace(r.MinimumBalance))
		if err != nil {
			errs = append(errs, "minimumBalance must be numeric")
		} else if minimum.IsNegative() {
			errs = append(errs, "minimumBalance cannot be negative")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type DeactivateAccountRequest struct {
	AccountID string `json:"accountId"`
}

type DeleteAccountRequest struct {
	AccountID string `json:"accountId"`
	Cascade   bool   `json:"cascade,omitempty"`
}

type AccountResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BankName       string `json:"bankName"`
	IBAN           string `json:"iban"`
	Currency       string `json:"currency"`
	OpeningBalance string `json:"openingBalance"`
	OpeningDate    string `json:"openingDate"`
	Balance        string `json:"balance"`
	MinimumBalance string `json:"minimumBalance"`
	IsActive       bool   `json:"isActive"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type DeleteAccountResponse struct {
	AccountID       string `json:"accountId"`
	PurgedMovements int    `json:"purgedMovements"`
}

func MapAccountToResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		Name:           account.Name,
		BankName:       account.BankName,
		IBAN:           account.IBAN,
		Currency:       account.Currency,
		OpeningBalance: account.OpeningBalance.StringFixed(2),
		OpeningDate:    account.OpeningDate.Format("2006-01-02"),
		Balance:        account.Balance.StringFixed(2),
		MinimumBalance: account.MinimumBalance.StringFixed(2),
		IsActive:       account.IsActive,
		CreatedAt:      account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      account.UpdatedAt.Format(time.RFC3339),
	}
}

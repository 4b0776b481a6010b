package models

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type ImportStatementRequest struct {
	AccountID      string `json:"accountId"`
	Filename       string `json:"filename"`
	FileContent    string `json:"fileContent"`
	SkipDuplicates *bool  `json:"skipDuplicates,omitempty"`
	Actor          string `json:"actor,omitempty"`
}

func (r ImportStatementRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}
	if strings.TrimSpace(r.Filename) == "" {
		errs = append(errs, "filename is required")
	}
	if strings.TrimSpace(r.FileContent) == "" {
		errs = append(errs, "fileContent is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// DecodedContent returns the raw statement bytes. The payload travels
// base64-encoded so binary formats survive the JSON envelope.
func (r ImportStatementRequest) DecodedContent() ([]byte, error) {
	content, err := base64.StdEncoding.DecodeString(r.FileContent)
	if err != nil {
		return nil, errors.New("fileContent must be base64 encoded")
	}
	if len(content) == 0 {
		return nil, errors.New("fileContent is empty")
	}
	return content, nil
}

func (r ImportStatementRequest) ShouldSkipDuplicates() bool {
	if r.SkipDuplicates == nil {
		return true
	}
	return *r.SkipDuplicates
}

type ImportResponse struct {
	BatchID       string `json:"batchId"`
	Inserted      int    `json:"inserted"`
	Duplicates    int    `json:"duplicates"`
	Failed        int    `json:"failed"`
	Reconciled    int    `json:"reconciled"`
	PendingReview int    `json:"pendingReview"`
}

type ImportBatchResponse struct {
	ID          string  `json:"id"`
	Filename    string  `json:"filename"`
	BankKey     *string `json:"bankKey,omitempty"`
	AccountID   string  `json:"accountId"`
	AccountIBAN string  `json:"accountIban"`
	Imported    int     `json:"imported"`
	Duplicates  int     `json:"duplicates"`
	Failed      int     `json:"failed"`
	DateFrom    *string `json:"dateFrom,omitempty"`
	DateTo      *string `json:"dateTo,omitempty"`
	ImportedBy  string  `json:"importedBy,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

func MapImportBatchToResponse(batch domain.ImportBatch) ImportBatchResponse {
	response := ImportBatchResponse{
		ID:          batch.ID,
		Filename:    batch.Filename,
		BankKey:     batch.BankKey,
		AccountID:   batch.AccountID,
		AccountIBAN: batch.AccountIBAN,
		Imported:    batch.Imported,
		Duplicates:  batch.Duplicates,
		Failed:      batch.Failed,
		ImportedBy:  batch.ImportedBy,
		CreatedAt:   batch.CreatedAt.Format(time.RFC3339),
	}
	if batch.DateFrom != nil {
		from := batch.DateFrom.Format("2006-01-02")
		response.DateFrom = &from
	}
	if batch.DateTo != nil {
		to := batch.DateTo.Format("2006-01-02")
		response.DateTo = &to
	}
	return response
}

package domain

import "time"

// ImportBatch is the audit record of one statement file ingestion. The
// content hash of the raw file bytes is the global idempotency key: a batch
// whose hash already exists is rejected outright, independent of account.
type ImportBatch struct {
	ID          string
	Filename    string
	BankKey     *string
	AccountID   string
	AccountIBAN string
	ContentHash string
	DateFrom    *time.Time
	DateTo      *time.Time
	Imported    int
	Duplicates  int
	Failed      int
	ImportedBy  string
	CreatedAt   time.Time
}

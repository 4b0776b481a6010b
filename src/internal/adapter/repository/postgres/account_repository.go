package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, name, bank_name, iban, currency, opening_balance, opening_date, balance, minimum_balance, is_active, is_deleted, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
INSERT INTO accounts (
	name,
	bank_name,
	iban,
	currency,
	opening_balance,
	opening_date,
	balance,
	minimum_balance,
	is_active,
	is_deleted
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.Name,
		account.BankName,
		account.IBAN,
		account.Currency,
		account.OpeningBalance,
		account.OpeningDate,
		account.Balance,
		account.MinimumBalance,
		account.IsActive,
		account.IsDeleted,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND is_deleted = FALSE`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) GetByIBAN(ctx context.Context, iban string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE iban = $1 AND is_deleted = FALSE`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, domain.NormalizeIBAN(iban)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by iban: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) List(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE is_deleted = FALSE`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func (r *AccountRepository) Update(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
UPDATE accounts SET
	name = $2,
	bank_name = $3,
	currency = $4,
	opening_balance = $5,
	opening_date = $6,
	balance = $7,
	minimum_balance = $8,
	is_active = $9,
	is_deleted = $10,
	updated_at = NOW()
WHERE id = $1
RETURNING updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.Name,
		account.BankName,
		account.Currency,
		account.OpeningBalance,
		account.OpeningDate,
		account.Balance,
		account.MinimumBalance,
		account.IsActive,
		account.IsDeleted,
	).Scan(&account.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("update account: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.BankName,
		&account.IBAN,
		&account.Currency,
		&account.OpeningBalance,
		&account.OpeningDate,
		&account.Balance,
		&account.MinimumBalance,
		&account.IsActive,
		&account.IsDeleted,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	return account, err
}

package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
)

var _ BankStore = (*BankRepository)(nil)

// BankRepository stores the company bank-account list.
type BankRepository struct {
	db *pgxpool.Pool
}

func NewBankRepository(db *pgxpool.Pool) *BankRepository {
	return &BankRepository{db: db}
}

// List returns the accounts in their saved order.
func (r *BankRepository) List(ctx context.Context) ([]domain.CompanyBankAccount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT bank_name, account_number, holder_name
		FROM company_bank_accounts
		ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.CompanyBankAccount
	for rows.Next() {
		var acc domain.CompanyBankAccount
		if err := rows.Scan(&acc.BankName, &acc.AccountNumber, &acc.HolderName); err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// ReplaceAll swaps the whole list atomically. The console edits the
// list as a unit, so a partial save must never be observable.
func (r *BankRepository) ReplaceAll(ctx context.Context, accounts []domain.CompanyBankAccount) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM company_bank_accounts`); err != nil {
		return err
	}
	for i, acc := range accounts {
		_, err := tx.Exec(ctx, `
			INSERT INTO company_bank_accounts (position, bank_name, account_number, holder_name)
			VALUES ($1, $2, $3, $4)`, i, acc.BankName, acc.AccountNumber, acc.HolderName)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

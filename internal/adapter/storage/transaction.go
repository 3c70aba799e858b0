package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
)

var _ TransactionStore = (*TransactionRepository)(nil)

// TransactionRepository reads and moderates the ledger written by the
// customer-facing service.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// List returns every transaction joined with its owner's email and
// full name so the console can search across them.
func (r *TransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.user_id, t.type, t.amount, t.status, t.created_at,
		       COALESCE(p.email, ''), COALESCE(p.full_name, '')
		FROM transactions t
		LEFT JOIN profiles p ON p.id = t.user_id
		ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Status,
			&tx.CreatedAt, &tx.OwnerEmail, &tx.OwnerName); err != nil {
			return nil, err
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	var tx domain.Transaction
	err := r.db.QueryRow(ctx, `
		SELECT t.id, t.user_id, t.type, t.amount, t.status, t.created_at,
		       COALESCE(p.email, ''), COALESCE(p.full_name, '')
		FROM transactions t
		LEFT JOIN profiles p ON p.id = t.user_id
		WHERE t.id = $1`, id).
		Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Status,
			&tx.CreatedAt, &tx.OwnerEmail, &tx.OwnerName)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Transaction{}, ErrNotFound
	}
	if err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE transactions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

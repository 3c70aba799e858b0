package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusSuccess   TransactionStatus = "SUCCESS"
	StatusRejected  TransactionStatus = "REJECTED"
	StatusCancelled TransactionStatus = "CANCELLED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Transaction is a movement of money owned by a single user. The owner
// email and name are carried alongside for the admin view; they come
// from a join, not from the transactions table itself.
type Transaction struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	Type       TransactionType   `json:"type"`
	Amount     float64           `json:"amount"`
	Status     TransactionStatus `json:"status"`
	OwnerEmail string            `json:"owner_email,omitempty"`
	OwnerName  string            `json:"owner_name,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// AllowedStatusTargets returns the statuses an operator may move a
// transaction of the given type into. Transfers are system-managed and
// have no manual targets; withdrawals additionally allow CANCELLED and
// FAILED because the payout leg can be aborted after approval.
func AllowedStatusTargets(t TransactionType) []TransactionStatus {
	switch t {
	case Deposit:
		return []TransactionStatus{StatusPending, StatusSuccess, StatusRejected}
	case Withdrawal:
		return []TransactionStatus{StatusPending, StatusSuccess, StatusRejected, StatusCancelled, StatusFailed}
	default:
		return nil
	}
}

// CanTransition reports whether a transaction of type t may be manually
// moved into target.
func CanTransition(t TransactionType, target TransactionStatus) bool {
	for _, s := range AllowedStatusTargets(t) {
		if s == target {
			return true
		}
	}
	return false
}

// FilterTransactions returns the transactions whose id, owner id, owner
// email or owner full name contains query, case-insensitively. An empty
// query returns the input unchanged.
func FilterTransactions(txs []Transaction, query string) []Transaction {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return txs
	}
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if strings.Contains(strings.ToLower(tx.ID.String()), query) ||
			strings.Contains(strings.ToLower(tx.UserID.String()), query) ||
			strings.Contains(strings.ToLower(tx.OwnerEmail), query) ||
			strings.Contains(strings.ToLower(tx.OwnerName), query) {
			out = append(out, tx)
		}
	}
	return out
}

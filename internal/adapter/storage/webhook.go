package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var _ WebhookQueue = (*WebhookJobRepository)(nil)

// WebhookJobRepository enqueues outbound webhook jobs; the background
// worker drains them.
type WebhookJobRepository struct {
	db *pgxpool.Pool
}

func NewWebhookJobRepository(db *pgxpool.Pool) *WebhookJobRepository {
	return &WebhookJobRepository{db: db}
}

func (r *WebhookJobRepository) Enqueue(ctx context.Context, url string, payload []byte) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO webhook_jobs (url, payload) VALUES ($1, $2)`, url, payload)
	return err
}

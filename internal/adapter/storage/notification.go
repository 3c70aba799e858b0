package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibrahimkeyboad/payadmin/internal/core/domain"
)

var _ NotificationStore = (*NotificationRepository)(nil)

// NotificationRepository is the Postgres-backed NotificationStore.
type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ListByUser returns the user's notifications newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, message, date, read
		FROM notifications
		WHERE user_id = $1
		ORDER BY date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Date, &n.Read); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// Add appends an unread notification stamped with the current time.
func (r *NotificationRepository) Add(ctx context.Context, userID uuid.UUID, message string) (domain.Notification, error) {
	var n domain.Notification
	err := r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, message)
		VALUES ($1, $2)
		RETURNING id, user_id, message, date, read`, userID, message).
		Scan(&n.ID, &n.UserID, &n.Message, &n.Date, &n.Read)
	if err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

// SetRead flips the read flag. The user_id predicate keeps one user
// from touching another user's notifications.
func (r *NotificationRepository) SetRead(ctx context.Context, userID, notificationID uuid.UUID, read bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE notifications SET read = $1
		WHERE id = $2 AND user_id = $3`, read, notificationID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

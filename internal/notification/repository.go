package notification

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Repository interface {
	Insert(ctx context.Context, userID int, notifType, title, body string) (*Notification, error)
	ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, userID int, notifType, title, body string) (*Notification, error) {
	query := `
		INSERT INTO notifications (user_id, type, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, type, title, body, read_at, created_at
	`

	var n Notification
	err := r.db.GetContext(ctx, &n, query, userID, notifType, title, body)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *repository) ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]Notification, error) {
	query := `
		SELECT id, user_id, type, title, body, read_at, created_at
		FROM notifications
		WHERE user_id = $1
	`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	var notifications []Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *repository) MarkRead(ctx context.Context, notificationID, userID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`, notificationID, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pulseboard/notification-relay/internal/modules/notification/domain"
)

type PgNotificationRepository struct {
	db *sqlx.DB
}

func NewPgNotificationRepository(db *sqlx.DB) *PgNotificationRepository {
	return &PgNotificationRepository{db: db}
}

func (r *PgNotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	if n.Timestamp == 0 {
		n.Timestamp = time.Now().UnixMilli()
	}
	query := `
		INSERT INTO notifications (message, timestamp, type, read)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.db.GetContext(ctx, &n.ID, query, n.Message, n.Timestamp, n.Type, n.Read); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *PgNotificationRepository) List(ctx context.Context) ([]domain.Notification, error) {
	query := `
		SELECT id, message, timestamp, type, read FROM notifications
		ORDER BY timestamp DESC
	`
	notifications := []domain.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (r *PgNotificationRepository) UpdateRead(ctx context.Context, id int64, read bool) (*domain.Notification, error) {
	query := `
		UPDATE notifications
		SET read = $1
		WHERE id = $2
		RETURNING id, message, timestamp, type, read
	`
	var n domain.Notification
	err := r.db.GetContext(ctx, &n, query, read, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update notification: %w", err)
	}
	return &n, nil
}

func (r *PgNotificationRepository) UpdateAllRead(ctx context.Context, read bool) (int64, error) {
	query := `
		UPDATE notifications
		SET read = $1
	`
	res, err := r.db.ExecContext(ctx, query, read)
	if err != nil {
		return 0, fmt.Errorf("update all notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update all notifications: %w", err)
	}
	return affected, nil
}

func (r *PgNotificationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM notifications
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete notification: %w", err)
	}
	return affected > 0, nil
}

func (r *PgNotificationRepository) UnreadCount(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE read = FALSE
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return count, nil
}

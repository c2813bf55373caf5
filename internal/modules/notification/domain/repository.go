package domain

import (
	"context"
)

type NotificationRepository interface {
	Insert(ctx context.Context, notification *Notification) error
	List(ctx context.Context) ([]Notification, error)
	UpdateRead(ctx context.Context, id int64, read bool) (*Notification, error)
	UpdateAllRead(ctx context.Context, read bool) (int64, error)
	Delete(ctx context.Context, id int64) (bool, error)
	UnreadCount(ctx context.Context) (int, error)
}

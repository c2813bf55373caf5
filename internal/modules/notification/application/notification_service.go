package application

import (
	"context"

	"github.com/pulseboard/notification-relay/internal/modules/notification/domain"
)

// NotificationService is the single entry point for callers. It owns
// validation and hands committed mutations to the broadcaster; callers
// never reach the repository directly.
type NotificationService struct {
	repo        domain.NotificationRepository
	broadcaster *Broadcaster
}

func NewNotificationService(repo domain.NotificationRepository, broadcaster *Broadcaster) *NotificationService {
	return &NotificationService{repo: repo, broadcaster: broadcaster}
}

// Create validates and stores a new notification. The type is coerced
// to "general" when unknown; an empty message is rejected before any
// store access.
func (s *NotificationService) Create(ctx context.Context, message, notificationType string) (*domain.Notification, error) {
	if message == "" {
		return nil, domain.ErrMessageRequired
	}

	n := &domain.Notification{
		Message: message,
		Type:    domain.ParseNotificationType(notificationType),
		Read:    false,
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return nil, err
	}

	s.broadcaster.NotificationCreated(n)
	return n, nil
}

// List returns all notifications, newest first.
func (s *NotificationService) List(ctx context.Context) ([]domain.Notification, error) {
	return s.repo.List(ctx)
}

// Update sets the read flag on a single record and returns the
// refreshed row, or domain.ErrNotificationNotFound.
func (s *NotificationService) Update(ctx context.Context, id int64, read bool) (*domain.Notification, error) {
	n, err := s.repo.UpdateRead(ctx, id, read)
	if err != nil {
		return nil, err
	}

	s.broadcaster.ReadStateChanged()
	return n, nil
}

// UpdateAll sets the read flag uniformly on every record and reports
// how many rows were touched.
func (s *NotificationService) UpdateAll(ctx context.Context, read bool) (int64, error) {
	affected, err := s.repo.UpdateAllRead(ctx, read)
	if err != nil {
		return 0, err
	}

	s.broadcaster.ReadStateChanged()
	return affected, nil
}

// Delete removes a record by id. A missing id is reported as false,
// never as an error.
func (s *NotificationService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	s.broadcaster.ReadStateChanged()
	return deleted, nil
}

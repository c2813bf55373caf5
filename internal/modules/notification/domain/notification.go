package domain

import (
	"errors"
)

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
	NotificationTypeGeneral NotificationType = "general"
)

// ParseNotificationType coerces arbitrary input to a known type.
// Unknown or empty values become NotificationTypeGeneral, never an error.
func ParseNotificationType(s string) NotificationType {
	switch NotificationType(s) {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning, NotificationTypeError, NotificationTypeGeneral:
		return NotificationType(s)
	default:
		return NotificationTypeGeneral
	}
}

// Notification is a single stored record. ID is assigned by the store
// on insert and never reused; Timestamp is epoch milliseconds set at
// creation and immutable after that. Read is the only mutable field.
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	Message   string           `json:"message" db:"message"`
	Timestamp int64            `json:"timestamp" db:"timestamp"`
	Type      NotificationType `json:"type" db:"type"`
	Read      bool             `json:"read" db:"read"`
}

var (
	ErrMessageRequired      = errors.New("message is required")
	ErrNotificationNotFound = errors.New("notification not found")
)

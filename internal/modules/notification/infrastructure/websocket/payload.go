package websocket

import (
	"encoding/json"
	"time"

	"github.com/pulseboard/notification-relay/internal/modules/notification/domain"
)

// Push payload discriminators. Every frame sent over the push channel
// carries one of these in its "type" field plus a server-side timestamp.
const (
	PayloadTypeConnection   = "connection"
	PayloadTypeNotification = "notification"
	PayloadTypeCount        = "notification_count"
)

type envelope struct {
	Type         string               `json:"type"`
	Message      string               `json:"message,omitempty"`
	Notification *domain.Notification `json:"notification,omitempty"`
	UnreadCount  *int                 `json:"unreadCount,omitempty"`
	Timestamp    int64                `json:"timestamp"`
}

// ConnectionAck is the one-time payload sent to a listener right after
// it is registered, and to nobody else.
func ConnectionAck() ([]byte, error) {
	return json.Marshal(envelope{
		Type:      PayloadTypeConnection,
		Message:   "Connected to notification stream",
		Timestamp: time.Now().UnixMilli(),
	})
}

// NotificationPayload wraps a freshly created record for broadcast.
func NotificationPayload(n *domain.Notification) ([]byte, error) {
	return json.Marshal(envelope{
		Type:         PayloadTypeNotification,
		Notification: n,
		Timestamp:    time.Now().UnixMilli(),
	})
}

// CountPayload carries the current unread count.
func CountPayload(unread int) ([]byte, error) {
	return json.Marshal(envelope{
		Type:        PayloadTypeCount,
		UnreadCount: &unread,
		Timestamp:   time.Now().UnixMilli(),
	})
}

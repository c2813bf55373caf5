package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pulseboard/notification-relay/internal/modules/notification/domain"
	"github.com/pulseboard/notification-relay/internal/modules/notification/infrastructure/websocket"
)

// broadcastEvent is the handoff between a committed mutation and the
// push side. A non-nil notification marks a creation, which gets a
// full-record payload before the count payload.
type broadcastEvent struct {
	notification *domain.Notification
}

// Broadcaster turns store mutations into push payloads. Events are
// dispatched by a single goroutine, so the payloads of one mutation
// are never reordered, and the mutation's caller never waits on a
// slow listener.
type Broadcaster struct {
	repo   domain.NotificationRepository
	hub    *websocket.Hub
	logger *slog.Logger

	events   chan broadcastEvent
	stop     chan struct{}
	stopOnce sync.Once
}

func NewBroadcaster(repo domain.NotificationRepository, hub *websocket.Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		repo:   repo,
		hub:    hub,
		logger: logger,
		events: make(chan broadcastEvent, 64),
		stop:   make(chan struct{}),
	}
}

func (b *Broadcaster) Run() {
	for {
		select {
		case ev := <-b.events:
			b.dispatch(ev)
		case <-b.stop:
			return
		}
	}
}

func (b *Broadcaster) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
}

// NotificationCreated queues a full-record broadcast followed by an
// unread-count broadcast for a freshly committed record.
func (b *Broadcaster) NotificationCreated(n *domain.Notification) {
	select {
	case b.events <- broadcastEvent{notification: n}:
	case <-b.stop:
	}
}

// ReadStateChanged queues an unread-count broadcast after any mutation
// that can change the read/unread composition.
func (b *Broadcaster) ReadStateChanged() {
	select {
	case b.events <- broadcastEvent{}:
	case <-b.stop:
	}
}

func (b *Broadcaster) dispatch(ev broadcastEvent) {
	if ev.notification != nil {
		payload, err := websocket.NotificationPayload(ev.notification)
		if err != nil {
			b.logger.Error("marshal notification payload", "error", err)
		} else {
			b.hub.BroadcastMessage(websocket.PayloadTypeNotification, payload)
		}
	}
	b.broadcastUnreadCount()
}

// broadcastUnreadCount requeries the store rather than keeping a
// running counter, so the pushed number is a real snapshot even when
// mutations interleave.
func (b *Broadcaster) broadcastUnreadCount() {
	count, err := b.repo.UnreadCount(context.Background())
	if err != nil {
		b.logger.Error("unread count for broadcast", "error", err)
		return
	}
	payload, err := websocket.CountPayload(count)
	if err != nil {
		b.logger.Error("marshal count payload", "error", err)
		return
	}
	b.hub.BroadcastMessage(websocket.PayloadTypeCount, payload)
}

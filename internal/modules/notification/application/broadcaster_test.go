package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/pulseboard/notification-relay/internal/modules/notification/domain"
	ws "github.com/pulseboard/notification-relay/internal/modules/notification/infrastructure/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushFrame struct {
	Type         string               `json:"type"`
	Message      string               `json:"message"`
	Notification *domain.Notification `json:"notification"`
	UnreadCount  *int                 `json:"unreadCount"`
	Timestamp    int64                `json:"timestamp"`
}

func dialHub(t *testing.T, hub *ws.Hub) *gorillaws.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, discardLogger(), w, r)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := gorillaws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *gorillaws.Conn) pushFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, body, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame pushFrame
	require.NoError(t, json.Unmarshal(body, &frame))
	return frame
}

// A creation pushes the full record first and the recomputed unread
// count second, so listeners see the new item before the count that
// accounts for it.
func TestBroadcaster_CreationOrdering(t *testing.T) {
	unread := atomic.Int32{}
	unread.Store(3)
	repo := notificationRepoMock{
		insertFn: func(_ context.Context, n *domain.Notification) error {
			n.ID = 21
			unread.Add(1)
			return nil
		},
		unreadCountFn: func(context.Context) (int, error) { return int(unread.Load()), nil },
	}

	hub := ws.NewHub(discardLogger())
	go hub.Run()
	defer hub.Stop()
	broadcaster := NewBroadcaster(repo, hub, discardLogger())
	go broadcaster.Run()
	defer broadcaster.Stop()
	svc := NewNotificationService(repo, broadcaster)

	conn := dialHub(t, hub)
	ack := readFrame(t, conn)
	require.Equal(t, "connection", ack.Type)

	created, err := svc.Create(context.Background(), "Build succeeded", "success")
	require.NoError(t, err)

	full := readFrame(t, conn)
	require.Equal(t, "notification", full.Type)
	require.NotNil(t, full.Notification)
	assert.Equal(t, created.ID, full.Notification.ID)
	assert.Equal(t, "Build succeeded", full.Notification.Message)
	assert.Equal(t, domain.NotificationTypeSuccess, full.Notification.Type)
	assert.False(t, full.Notification.Read)

	count := readFrame(t, conn)
	require.Equal(t, "notification_count", count.Type)
	require.NotNil(t, count.UnreadCount)
	assert.Equal(t, 4, *count.UnreadCount)
	assert.NotZero(t, count.Timestamp)
}

// The count is recomputed from the store on every broadcast, so two
// consecutive mutations push two distinct snapshots rather than a
// stale increment.
func TestBroadcaster_CountRequeriedPerMutation(t *testing.T) {
	unread := atomic.Int32{}
	unread.Store(7)
	repo := notificationRepoMock{
		updateAllReadFn: func(_ context.Context, read bool) (int64, error) {
			if read {
				unread.Store(0)
			}
			return 7, nil
		},
		deleteFn:      func(context.Context, int64) (bool, error) { return true, nil },
		unreadCountFn: func(context.Context) (int, error) { return int(unread.Load()), nil },
	}

	hub := ws.NewHub(discardLogger())
	go hub.Run()
	defer hub.Stop()
	broadcaster := NewBroadcaster(repo, hub, discardLogger())
	go broadcaster.Run()
	defer broadcaster.Stop()
	svc := NewNotificationService(repo, broadcaster)

	conn := dialHub(t, hub)
	readFrame(t, conn) // ack

	_, err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	first := readFrame(t, conn)
	require.Equal(t, "notification_count", first.Type)
	assert.Equal(t, 7, *first.UnreadCount)

	_, err = svc.UpdateAll(context.Background(), true)
	require.NoError(t, err)
	second := readFrame(t, conn)
	require.Equal(t, "notification_count", second.Type)
	assert.Equal(t, 0, *second.UnreadCount)
}

// A store failure while recomputing the count is contained: nothing is
// pushed, nothing propagates to the mutation's caller, and the next
// broadcast works again.
func TestBroadcaster_CountFailureIsContained(t *testing.T) {
	fail := atomic.Bool{}
	fail.Store(true)
	repo := notificationRepoMock{
		deleteFn: func(context.Context, int64) (bool, error) { return true, nil },
		unreadCountFn: func(context.Context) (int, error) {
			if fail.Load() {
				return 0, errors.New("store down")
			}
			return 2, nil
		},
	}

	hub := ws.NewHub(discardLogger())
	go hub.Run()
	defer hub.Stop()
	broadcaster := NewBroadcaster(repo, hub, discardLogger())
	go broadcaster.Run()
	defer broadcaster.Stop()
	svc := NewNotificationService(repo, broadcaster)

	conn := dialHub(t, hub)
	readFrame(t, conn) // ack

	deleted, err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	fail.Store(false)
	_, err = svc.Delete(context.Background(), 2)
	require.NoError(t, err)

	// Only the second mutation's count arrives.
	frame := readFrame(t, conn)
	require.Equal(t, "notification_count", frame.Type)
	assert.Equal(t, 2, *frame.UnreadCount)
}

package notification

import (
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pulseboard/notification-relay/internal/modules/notification/application"
	"github.com/pulseboard/notification-relay/internal/modules/notification/infrastructure/postgres"
	"github.com/pulseboard/notification-relay/internal/modules/notification/infrastructure/websocket"
	notification_http "github.com/pulseboard/notification-relay/internal/modules/notification/interfaces/http"
)

type Module struct {
	service     *application.NotificationService
	broadcaster *application.Broadcaster
	handler     *notification_http.NotificationHandler
	hub         *websocket.Hub
}

func NewModule(db *sqlx.DB, logger *slog.Logger) *Module {
	repo := postgres.NewPgNotificationRepository(db)

	hub := websocket.NewHub(logger)
	go hub.Run()

	broadcaster := application.NewBroadcaster(repo, hub, logger)
	go broadcaster.Run()

	service := application.NewNotificationService(repo, broadcaster)
	handler := notification_http.NewNotificationHandler(service, hub, logger)

	return &Module{
		service:     service,
		broadcaster: broadcaster,
		handler:     handler,
		hub:         hub,
	}
}

func (m *Module) HTTPHandler() *notification_http.NotificationHandler {
	return m.handler
}

func (m *Module) Service() *application.NotificationService {
	return m.service
}

// Stop shuts down the broadcast path: first the dispatcher, then the
// hub, which closes every remaining listener.
func (m *Module) Stop() {
	m.broadcaster.Stop()
	m.hub.Stop()
}

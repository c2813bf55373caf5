package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	notification_http "github.com/pulseboard/notification-relay/internal/modules/notification/interfaces/http"
)

// RouterConfig holds the handlers needed for routing.
type RouterConfig struct {
	NotificationHandler *notification_http.NotificationHandler
}

// SetupRoutes builds the route table. The relay is unauthenticated;
// the handler layer owns all request validation.
func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", config.NotificationHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Notification CRUD
	mux.HandleFunc("GET /notifications", config.NotificationHandler.List)
	mux.HandleFunc("POST /notifications", config.NotificationHandler.Create)
	mux.HandleFunc("DELETE /notifications/{id}", config.NotificationHandler.Delete)
	mux.HandleFunc("PATCH /notifications/{id}", config.NotificationHandler.Update)
	mux.HandleFunc("PATCH /notifications", config.NotificationHandler.UpdateAll)

	// Live push stream
	mux.HandleFunc("GET /notifications/stream", config.NotificationHandler.Subscribe)

	return mux
}

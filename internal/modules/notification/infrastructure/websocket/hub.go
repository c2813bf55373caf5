package websocket

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notification_ws_connected_clients",
		Help: "Number of currently connected push listeners.",
	})

	broadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_ws_broadcasts_total",
		Help: "Total number of payloads fanned out to listeners.",
	}, []string{"payload"})
)

// Hub maintains the set of active push listeners and fans payloads out
// to them. The client set is owned exclusively by the Run goroutine;
// all mutation goes through the register/unregister/broadcast channels.
type Hub struct {
	// Registered listeners.
	clients map[*Client]bool

	// Payloads to fan out to every listener.
	broadcast chan broadcastMessage

	// Register requests from new connections.
	register chan *Client

	// Unregister requests from closing connections.
	unregister chan *Client

	// Channel to signal termination.
	stop     chan struct{}
	stopOnce sync.Once

	logger *slog.Logger
}

type broadcastMessage struct {
	payload     []byte
	payloadType string
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan broadcastMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),

		clients: make(map[*Client]bool),
		stop:    make(chan struct{}),
		logger:  logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			connectedClients.Set(float64(len(h.clients)))
			h.logger.Info("listener registered", "client_id", client.id, "clients", len(h.clients))

			// One-time connection acknowledgment, to this listener only.
			if ack, err := ConnectionAck(); err == nil {
				select {
				case client.send <- ack:
				default:
					h.drop(client)
				}
			}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("listener unregistered", "client_id", client.id, "clients", len(h.clients))
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg.payload:
				default:
					// Listener too slow or gone: prune it rather than
					// stall delivery to the others.
					h.drop(client)
					h.logger.Warn("listener dropped during broadcast", "client_id", client.id)
				}
			}
			broadcastsTotal.WithLabelValues(msg.payloadType).Inc()
		case <-h.stop:
			h.logger.Info("hub stopping", "clients", len(h.clients))
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

// drop removes a client from the set and closes its send channel.
// Only ever called from the Run goroutine.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	connectedClients.Set(float64(len(h.clients)))
}

// Register adds a listener to the active set.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stop:
	}
}

// Unregister removes a listener. Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// BroadcastMessage sends payload to every currently registered
// listener. Best effort per listener: a dead listener is pruned, never
// an error surfaced to the caller.
func (h *Hub) BroadcastMessage(payloadType string, payload []byte) {
	select {
	case h.broadcast <- broadcastMessage{payload: payload, payloadType: payloadType}:
	case <-h.stop:
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
}

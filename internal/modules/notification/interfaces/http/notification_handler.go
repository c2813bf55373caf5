package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pulseboard/notification-relay/internal/modules/notification/application"
	"github.com/pulseboard/notification-relay/internal/modules/notification/domain"
	"github.com/pulseboard/notification-relay/internal/modules/notification/infrastructure/websocket"
	"github.com/pulseboard/notification-relay/internal/shared/utils"
)

type NotificationHandler struct {
	service *application.NotificationService
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewNotificationHandler(service *application.NotificationService, hub *websocket.Hub, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, hub: hub, logger: logger}
}

type createRequest struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// readRequest decodes {"read": bool}. A pointer distinguishes an
// absent field from false; a mistyped value fails the decode. Either
// way the request is rejected before the store is touched.
type readRequest struct {
	Read *bool `json:"read"`
}

type updateAllResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

// Subscribe upgrades the request to a websocket connection and joins
// the push stream.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.hub, h.logger, w, r)
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list notifications", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch notifications", nil)
		return
	}
	utils.WriteJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	notification, err := h.service.Create(r.Context(), req.Message, req.Type)
	if errors.Is(err, domain.ErrMessageRequired) {
		utils.WriteError(w, http.StatusBadRequest, "Message is required", nil)
		return
	}
	if err != nil {
		h.logger.Error("create notification", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create notification", nil)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, notification)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid notification id", nil)
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("delete notification", "error", err, "id", id)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to delete notification", nil)
		return
	}
	if !deleted {
		utils.WriteError(w, http.StatusNotFound, "Notification not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid notification id", nil)
		return
	}

	var req readRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Read == nil {
		utils.WriteError(w, http.StatusBadRequest, "read field must be a boolean", nil)
		return
	}

	notification, err := h.service.Update(r.Context(), id, *req.Read)
	if errors.Is(err, domain.ErrNotificationNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Notification not found", nil)
		return
	}
	if err != nil {
		h.logger.Error("update notification", "error", err, "id", id)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update notification", nil)
		return
	}
	utils.WriteJSON(w, http.StatusOK, notification)
}

func (h *NotificationHandler) UpdateAll(w http.ResponseWriter, r *http.Request) {
	var req readRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Read == nil {
		utils.WriteError(w, http.StatusBadRequest, "read field must be a boolean", nil)
		return
	}

	updated, err := h.service.UpdateAll(r.Context(), *req.Read)
	if err != nil {
		h.logger.Error("update all notifications", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update notifications", nil)
		return
	}

	state := "unread"
	if *req.Read {
		state = "read"
	}
	utils.WriteJSON(w, http.StatusOK, updateAllResponse{
		Message: "All notifications marked as " + state,
		Updated: updated,
	})
}

// Health reports the static capability descriptor for the relay.
func (h *NotificationHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Backend is working",
		"features": map[string]string{
			"notifications": "active",
			"websockets":    "active",
		},
	})
}

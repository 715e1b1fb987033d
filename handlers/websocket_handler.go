package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/horse-tournament/brackets"
	"github.com/Dosada05/horse-tournament/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub           *brackets.Hub
	editorService services.EditorService
	upgrader      websocket.Upgrader
	logger        *slog.Logger
}

// NewWebSocketHandler creates the handler. An allowed origin of "*" accepts any Origin.
func NewWebSocketHandler(hub *brackets.Hub, es services.EditorService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	h := &WebSocketHandler{hub: hub, editorService: es, logger: logger}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
	return h
}

// ServeWs подключает клиента к комнате сессии редактора.
// Клиент подключается к /ws/editor/{sessionID} и сразу получает текущее состояние.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	_, view, err := h.editorService.Get(sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой.
		h.logger.Warn("websocket upgrade failed", slog.String("session_id", sessionID), slog.Any("error", err))
		return
	}

	client := brackets.NewClient(h.hub, conn, sessionID)
	initial, err := json.Marshal(brackets.WebSocketMessage{
		Type:    brackets.MessageBracketUpdated,
		Payload: view,
		RoomID:  sessionID,
	})
	if err == nil {
		client.Send <- initial
	}
	if !h.hub.Join(client) {
		h.logger.Warn("websocket hub stopped, dropping client", slog.String("session_id", sessionID))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Info("websocket client joined", slog.String("session_id", sessionID))
}

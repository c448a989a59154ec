package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/sportsys/tournament-admin/live"
	"github.com/sportsys/tournament-admin/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: ограничить Origin, когда будет известен домен фронтенда.
		return true
	},
}

type WebSocketHandler struct {
	hub          *live.Hub
	eventService services.EventService
	logger       *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, es services.EventService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, eventService: es, logger: logger}
}

// ServeWs подключает клиента к комнате события: /ws/events/{eventID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.Atoi(chi.URLParam(r, "eventID"))
	if err != nil || eventID < 1 {
		http.Error(w, "invalid eventID", http.StatusBadRequest)
		return
	}

	if _, err := h.eventService.GetByID(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.Int("event_id", eventID),
			slog.Any("error", err))
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: "event_" + strconv.Itoa(eventID),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

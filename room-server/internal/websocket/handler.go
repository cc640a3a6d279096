package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/Thanush-41/AgriXchange/shared/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development (use proper CORS in production)
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler handles WebSocket connections
type Handler struct {
	ctx   context.Context
	hub   *Hub
	proto *Protocol
}

// NewHandler creates a new WebSocket handler. Sessions live until ctx is done
// or the client disconnects.
func NewHandler(ctx context.Context, hub *Hub, proto *Protocol) *Handler {
	return &Handler{
		ctx:   ctx,
		hub:   hub,
		proto: proto,
	}
}

// SetupRoutes configures WebSocket routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// WebSocket endpoint, one session per connection
	router.HandleFunc("/ws", h.HandleWebSocket)

	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/stats/rooms/{id}", h.GetStats).Methods("GET")

	return router
}

// HandleWebSocket upgrades the HTTP connection and starts a session
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("failed to upgrade connection", map[string]any{"error": err.Error()})
		return
	}

	s := newSession(conn)
	h.hub.Register(s)

	go s.writePump()
	go s.readPump(h.ctx, h.hub, h.proto)
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "room-server",
	})
}

// GetStats returns the number of sessions in a room
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, map[string]any{
		"roomId":      roomID,
		"subscribers": h.hub.GetSubscriberCount(roomID),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package handlers

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/JimmyISL/atu-med-edu-sub000/internal/logger"
	"github.com/JimmyISL/atu-med-edu-sub000/internal/middleware"
)

// Event types sent over WebSocket
const (
	EventTraineeEnrolled = "trainee_enrolled"
	EventTraineeRemoved  = "trainee_removed"
	EventTraineeUpdated  = "trainee_updated"
	EventProgressUpdated = "progress_updated"
	EventStepsReplaced   = "steps_replaced"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type     string      `json:"type"`
	PathID   string      `json:"path_id"`
	PersonID string      `json:"person_id,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// connection wraps a websocket connection with its authenticated person ID
type connection struct {
	conn     *websocket.Conn
	personID uuid.UUID
}

// Hub manages WebSocket connections per training path
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*connection]bool // pathID -> set of connections
}

// Global hub instance
var WS = &Hub{
	rooms: make(map[uuid.UUID]map[*connection]bool),
}

// register adds a connection to a path room
func (h *Hub) register(pathID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[pathID] == nil {
		h.rooms[pathID] = make(map[*connection]bool)
	}
	h.rooms[pathID][conn] = true
	logger.L.Debug("ws register", "person_id", conn.personID, "path_id", pathID, "total", len(h.rooms[pathID]))
}

// unregister removes a connection from a path room
func (h *Hub) unregister(pathID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[pathID]; ok {
		delete(conns, conn)
		logger.L.Debug("ws unregister", "person_id", conn.personID, "path_id", pathID, "remaining", len(conns))
		if len(conns) == 0 {
			delete(h.rooms, pathID)
		}
	}
}

// Broadcast sends an event to all connections in a path room, excluding the sender
func (h *Hub) Broadcast(pathID uuid.UUID, excludePersonID uuid.UUID, event WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[pathID]
	if !ok {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		logger.L.Error("ws broadcast marshal error", "error", err)
		return
	}

	for c := range conns {
		// Don't send to the person who triggered the event
		if c.personID == excludePersonID {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.L.Warn("ws write error", "error", err)
		}
	}
}

// WebSocketUpgrade is the middleware that checks the upgrade request and validates JWT
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Authenticate via query param: ?token=<jwt>
		tokenString := c.Query("token")
		if tokenString == "" {
			// Also check Authorization header for non-browser clients
			authHeader := c.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := middleware.ParseToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("personId", claims.PersonID)
		return c.Next()
	}
}

// HandleWebSocket handles a WebSocket connection for a specific training path
func HandleWebSocket(c *websocket.Conn) {
	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Close()
		return
	}

	personID, ok := c.Locals("personId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	conn := &connection{conn: c, personID: personID}
	WS.register(pathID, conn)
	defer WS.unregister(pathID, conn)

	// Keep connection alive — read messages (client sends pings/keepalives)
	for {
		_, _, err := c.ReadMessage()
		if err != nil {
			break
		}
	}
}

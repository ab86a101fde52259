package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 32
	handlerTimeout = 10 * time.Second
)

const (
	EventConnected      = "connected"
	EventError          = "error"
	EventJoinRoom       = "join_room"
	EventLeaveRoom      = "leave_room"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
)

const AdminRoom = "admin"

func UserRoom(userID uint) string {
	return "user:" + strconv.FormatUint(uint64(userID), 10)
}

func ConversationRoom(conversationID string) string {
	return "conversation:" + conversationID
}

// Frame is the wire format in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outFrame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// HandlerFunc processes one inbound event from a client.
type HandlerFunc func(ctx context.Context, c *Client, data json.RawMessage) error

// Hub tracks live connections by room and routes inbound events to handlers.
type Hub struct {
	rooms    map[string]map[*Client]bool
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	upgrader websocket.Upgrader
}

func NewHub(origins []string) *Hub {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return &Hub{
		rooms:    make(map[string]map[*Client]bool),
		handlers: make(map[string]HandlerFunc),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// Handle registers fn for an inbound event. It must be called before serving.
func (h *Hub) Handle(event string, fn HandlerFunc) {
	h.handlers[event] = fn
}

// Serve upgrades the request and runs the connection until it closes. The
// caller must already have authenticated userID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uint, role string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := newClient(h, conn, userID, role)

	h.Join(c, UserRoom(userID))
	if role == "admin" {
		h.Join(c, AdminRoom)
	}

	go c.writePump()

	c.Emit(EventConnected, map[string]interface{}{
		"clientId": c.ID,
		"userId":   userID,
		"message":  "WebSocket connection established",
	})

	c.readPump()
	return nil
}

func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	c.rooms[room] = true
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leave(c, room)
}

func (h *Hub) leave(c *Client, room string) {
	if clients, exists := h.rooms[room]; exists {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	for room := range c.rooms {
		h.leave(c, room)
	}
	h.mu.Unlock()

	c.close()
}

// EmitToRoom sends an event to every client in room and returns how many were reached.
func (h *Hub) EmitToRoom(room, event string, data interface{}) int {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range clients {
		if c.Emit(event, data) {
			delivered++
		}
	}
	return delivered
}

// EmitToUser sends an event to every connection of a user.
func (h *Hub) EmitToUser(userID uint, event string, data interface{}) bool {
	return h.EmitToRoom(UserRoom(userID), event, data) > 0
}

func (h *Hub) Online(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[UserRoom(userID)]) > 0
}

// Connections returns the number of live connections.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[*Client]bool)
	for _, clients := range h.rooms {
		for c := range clients {
			seen[c] = true
		}
	}
	return len(seen)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	var clients []*Client
	for _, room := range h.rooms {
		for c := range room {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if c.conn != nil {
			c.conn.Close()
		}
	}
}

func (h *Hub) dispatch(c *Client, frame Frame) {
	handler, ok := h.handlers[frame.Event]
	if !ok {
		c.Emit(EventError, map[string]string{"message": "Unknown event: " + frame.Event})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := handler(ctx, c, frame.Data); err != nil {
		log.WithField("user_id", c.UserID).Printf("Socket event %s failed: %v", frame.Event, err)
		c.Emit(EventError, map[string]string{"event": frame.Event, "message": errorMessage(err)})
	}
}

// PublicError marks handler errors whose message may be shown to the client.
type PublicError interface {
	PublicMessage() string
}

func errorMessage(err error) string {
	var pe PublicError
	if errors.As(err, &pe) {
		return pe.PublicMessage()
	}
	return "Something went wrong"
}

package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is one websocket connection owned by an authenticated user
type Client struct {
	Conn   *websocket.Conn
	UserID uuid.UUID
}

type directMessage struct {
	userIDs map[uuid.UUID]struct{}
	payload []byte
}

type Hub struct {
	clients    map[*websocket.Conn]uuid.UUID
	register   chan *Client
	unregister chan *websocket.Conn
	broadcast  chan []byte
	direct     chan directMessage
	done       chan struct{}
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]uuid.UUID),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 256),
		direct:     make(chan directMessage, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves the hub until ctx is cancelled, then closes every connection
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c.Conn] = c.UserID
			h.mutex.Unlock()
			h.log.Debug("ws client connected", zap.String("user_id", c.UserID.String()))

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				h.write(conn, message)
			}
			h.mutex.Unlock()

		case msg := <-h.direct:
			h.mutex.Lock()
			for conn, userID := range h.clients {
				if _, ok := msg.userIDs[userID]; ok {
					h.write(conn, msg.payload)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds c to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes conn; after shutdown the connection is already closed
func (h *Hub) Unregister(conn *websocket.Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// write must be called with the mutex held
func (h *Hub) write(conn *websocket.Conn, message []byte) {
	if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
		conn.Close()
		delete(h.clients, conn)
	}
}

// BroadcastJSON queues v for every connected client. Messages are dropped
// when the queue is full.
func (h *Hub) BroadcastJSON(v interface{}) {
	msg, err := json.Marshal(v)
	if err != nil {
		h.log.Error("ws marshal", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("ws broadcast queue full, message dropped")
	}
}

// SendJSONToUsers queues v for the connections of the given users only
func (h *Hub) SendJSONToUsers(userIDs []uuid.UUID, v interface{}) {
	if len(userIDs) == 0 {
		return
	}
	msg, err := json.Marshal(v)
	if err != nil {
		h.log.Error("ws marshal", zap.Error(err))
		return
	}
	set := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		set[id] = struct{}{}
	}
	select {
	case h.direct <- directMessage{userIDs: set, payload: msg}:
	default:
		h.log.Warn("ws direct queue full, message dropped")
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

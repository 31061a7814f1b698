package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Connection represents one live signaling socket. The ID is assigned at
// connect time and is how peers address each other when relaying signals.
type Connection struct {
	ID          string
	RoomID      string // current room, empty while unjoined; guarded by the service lock
	ConnectedAt time.Time
	Socket      *websocket.Conn
	Events      chan SignalMessage

	mu     sync.Mutex
	closed bool
}

func NewConnection(socket *websocket.Conn) *Connection {
	return &Connection{
		ID:          uuid.New().String(),
		ConnectedAt: time.Now().UTC(),
		Socket:      socket,
		Events:      make(chan SignalMessage, 16),
	}
}

// Enqueue hands an event to the connection's write pump without blocking.
// Events for a slow consumer are dropped once the buffer is full; delivery
// is best-effort. Returns false when the event was not queued.
func (c *Connection) Enqueue(event SignalMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Events <- event:
		return true
	default:
		return false
	}
}

// CloseEvents closes the Events channel exactly once, stopping the write pump.
// Enqueue after CloseEvents is a no-op rather than a panic.
func (c *Connection) CloseEvents() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Events)
}

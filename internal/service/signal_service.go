package service

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/immersio/meet-relay/internal/domain"
	"github.com/immersio/meet-relay/internal/registry"
)

const maxChatMessageLength = 4000
const maxChatSenderLength = 255

// SignalService routes signaling events between connections that share a
// room. Delivery is best-effort: a message addressed to a connection that is
// gone, slow, or not in a room is dropped, never surfaced to the sender.
//
// A single mutex serializes every membership mutation together with the
// notifications it emits, so all members of a room observe joins and leaves
// in the order the registry recorded them.
type SignalService struct {
	registry *registry.Registry
	log      *slog.Logger

	mu    sync.Mutex
	conns map[string]*domain.Connection
}

func NewSignalService(reg *registry.Registry, log *slog.Logger) *SignalService {
	if log == nil {
		log = slog.Default()
	}
	return &SignalService{
		registry: reg,
		log:      log,
		conns:    make(map[string]*domain.Connection),
	}
}

// Register creates the Connection record for a freshly upgraded socket and
// sends it its assigned id. No other connection observes anything yet.
func (s *SignalService) Register(socket *websocket.Conn) *domain.Connection {
	conn := domain.NewConnection(socket)

	s.mu.Lock()
	s.conns[conn.ID] = conn
	conn.Enqueue(domain.SignalMessage{
		Type:         domain.EventConnected,
		ConnectionID: conn.ID,
	})
	s.mu.Unlock()

	s.log.Info("connection registered", slog.String("conn_id", conn.ID))
	return conn
}

// Unregister is the mandatory cleanup path for any transport loss. It leaves
// the current room (notifying remaining members) and destroys the Connection
// record. Safe to call for an already-unregistered connection.
func (s *SignalService) Unregister(conn *domain.Connection) {
	s.mu.Lock()
	s.leaveLocked(conn)
	delete(s.conns, conn.ID)
	conn.CloseEvents()
	s.mu.Unlock()

	s.log.Info("connection unregistered", slog.String("conn_id", conn.ID))
}

// Join moves the connection into roomID. A connection belongs to at most one
// room: a previous room is left first, and its remaining members see the
// leave notification before any member of the new room sees the join.
func (s *SignalService) Join(conn *domain.Connection, roomID string) {
	const op = "service.signal.join"
	log := s.log.With(
		slog.String("op", op),
		slog.String("conn_id", conn.ID),
		slog.String("room_id", roomID),
	)

	if roomID == "" {
		log.Warn("join with empty room id dropped")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if conn.RoomID == roomID {
		// Re-affirming the current room: confirm again, notify nobody.
		conn.Enqueue(domain.SignalMessage{
			Type:      domain.EventRoomJoined,
			Room:      roomID,
			UserCount: s.registry.MemberCount(roomID),
		})
		return
	}

	if conn.RoomID != "" {
		s.leaveLocked(conn)
	}

	count := s.registry.Join(roomID, conn.ID)
	conn.RoomID = roomID

	s.notifyRoomLocked(roomID, conn.ID, domain.SignalMessage{
		Type:         domain.EventUserConnected,
		ConnectionID: conn.ID,
	})
	conn.Enqueue(domain.SignalMessage{
		Type:      domain.EventRoomJoined,
		Room:      roomID,
		UserCount: count,
	})

	log.Info("joined room", slog.Int("user_count", count))
}

// Leave takes the connection out of its current room and notifies the
// remaining members. A no-op for a connection that is not in a room.
func (s *SignalService) Leave(conn *domain.Connection) {
	s.mu.Lock()
	s.leaveLocked(conn)
	s.mu.Unlock()
}

// Relay forwards an opaque SDP/ICE payload to the target connection. The
// sender must currently be in a room; a dead or unknown target means the
// payload is dropped, which callers expect since signaling races with peer
// disconnection.
func (s *SignalService) Relay(conn *domain.Connection, target string, signal json.RawMessage) {
	const op = "service.signal.relay"

	s.mu.Lock()
	defer s.mu.Unlock()

	if conn.RoomID == "" {
		s.log.Warn("signal from roomless connection dropped",
			slog.String("op", op), slog.String("conn_id", conn.ID))
		return
	}

	targetConn, ok := s.conns[target]
	if !ok {
		s.log.Debug("signal target no longer connected",
			slog.String("op", op), slog.String("conn_id", conn.ID), slog.String("target", target))
		return
	}

	targetConn.Enqueue(domain.SignalMessage{
		Type:   domain.EventSignal,
		Signal: signal,
		From:   conn.ID,
	})
}

// Chat broadcasts a text message to the other members of the sender's room
// with a server-assigned timestamp. The sender gets no echo.
func (s *SignalService) Chat(conn *domain.Connection, username, message string) {
	const op = "service.signal.chat"
	log := s.log.With(slog.String("op", op), slog.String("conn_id", conn.ID))

	message = strings.TrimSpace(message)
	if message == "" {
		log.Warn("empty chat message dropped")
		return
	}
	if utf8.RuneCountInString(message) > maxChatMessageLength {
		log.Warn("oversized chat message dropped")
		return
	}
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) > maxChatSenderLength {
		log.Warn("oversized chat sender dropped")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if conn.RoomID == "" {
		log.Warn("chat from roomless connection dropped")
		return
	}

	chatMsg := domain.NewChatMessage(conn.RoomID, conn, username, message)
	s.notifyRoomLocked(conn.RoomID, conn.ID, domain.SignalMessage{
		Type:      domain.EventChat,
		Message:   chatMsg.Content,
		Username:  chatMsg.Username,
		Timestamp: chatMsg.CreatedAt.Format(time.RFC3339Nano),
	})
}

// Stats returns a snapshot for the health endpoint.
func (s *SignalService) Stats() domain.Stats {
	s.mu.Lock()
	total := len(s.conns)
	s.mu.Unlock()

	return domain.Stats{
		ActiveRooms:      s.registry.RoomCount(),
		TotalConnections: total,
		Rooms:            s.registry.Rooms(),
		Timestamp:        time.Now().UTC(),
	}
}

// leaveLocked removes the connection from its current room and emits the
// leave notification as one unit. Callers hold s.mu.
func (s *SignalService) leaveLocked(conn *domain.Connection) {
	roomID := conn.RoomID
	if roomID == "" {
		return
	}

	s.registry.Leave(roomID, conn.ID)
	conn.RoomID = ""

	s.notifyRoomLocked(roomID, conn.ID, domain.SignalMessage{
		Type:         domain.EventUserDisconnected,
		ConnectionID: conn.ID,
	})

	s.log.Info("left room",
		slog.String("conn_id", conn.ID),
		slog.String("room_id", roomID),
	)
}

// notifyRoomLocked enqueues the event for every current member of the room
// except excludeID. Callers hold s.mu.
func (s *SignalService) notifyRoomLocked(roomID, excludeID string, event domain.SignalMessage) {
	for _, id := range s.registry.MembersOf(roomID, excludeID) {
		member, ok := s.conns[id]
		if !ok {
			continue
		}
		if !member.Enqueue(event) {
			s.log.Debug("dropping event",
				slog.String("conn_id", id),
				slog.String("type", event.Type),
			)
		}
	}
}

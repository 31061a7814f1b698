package http

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/immersio/meet-relay/internal/domain"
	"github.com/immersio/meet-relay/lib/logger/sl"
)

// readPump pumps inbound events from the socket into the service. It is the
// only reader of the connection and owns the disconnect cleanup: whatever
// ends the loop (leave, network drop, oversized frame) unregisters the
// connection.
func (c *RoomController) readPump(conn *domain.Connection) {
	defer func() {
		c.signals.Unregister(conn)
		conn.Socket.Close()
	}()

	sig := c.cfg.Signaling
	conn.Socket.SetReadLimit(sig.MaxMessageBytes)
	_ = conn.Socket.SetReadDeadline(time.Now().Add(sig.PongWait))
	conn.Socket.SetPongHandler(func(string) error {
		return conn.Socket.SetReadDeadline(time.Now().Add(sig.PongWait))
	})

	for {
		var msg domain.SignalMessage
		if err := conn.Socket.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read failed", slog.String("conn_id", conn.ID), sl.Err(err))
			}
			return
		}
		c.dispatch(conn, &msg)
	}
}

func (c *RoomController) dispatch(conn *domain.Connection, msg *domain.SignalMessage) {
	switch msg.Type {
	case domain.EventJoinRoom:
		c.signals.Join(conn, msg.Room)
	case domain.EventSignal:
		c.signals.Relay(conn, msg.Target, msg.Signal)
	case domain.EventChat:
		c.signals.Chat(conn, msg.Username, msg.Message)
	case domain.EventLeaveRoom:
		c.signals.Leave(conn)
	default:
		c.log.Warn("unknown signaling event",
			slog.String("conn_id", conn.ID),
			slog.String("type", msg.Type),
		)
	}
}

// writePump is the only writer of the socket. It drains the connection's
// Events channel and keeps the transport alive with periodic pings; the read
// deadline on the peer side is refreshed by the resulting pongs.
func (c *RoomController) writePump(conn *domain.Connection) {
	sig := c.cfg.Signaling
	ticker := time.NewTicker(sig.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Socket.Close()
	}()

	for {
		select {
		case event, ok := <-conn.Events:
			_ = conn.Socket.SetWriteDeadline(time.Now().Add(sig.WriteWait))
			if !ok {
				_ = conn.Socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Socket.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.Socket.SetWriteDeadline(time.Now().Add(sig.WriteWait))
			if err := conn.Socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

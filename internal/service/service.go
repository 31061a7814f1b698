package service

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/immersio/meet-relay/internal/domain"
)

// SignalInteractor is the contract the transport layer drives on behalf of
// each connected socket.
type SignalInteractor interface {
	Register(socket *websocket.Conn) *domain.Connection
	Unregister(conn *domain.Connection)
	Join(conn *domain.Connection, roomID string)
	Leave(conn *domain.Connection)
	Relay(conn *domain.Connection, target string, signal json.RawMessage)
	Chat(conn *domain.Connection, username, message string)
	Stats() domain.Stats
}

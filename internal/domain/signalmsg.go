package domain

import "encoding/json"

// Inbound event types.
const (
	EventJoinRoom  = "join-room"
	EventSignal    = "signal"
	EventChat      = "chat"
	EventLeaveRoom = "leave-room"
)

// Outbound event types.
const (
	EventConnected        = "connected"
	EventRoomJoined       = "room-joined"
	EventUserConnected    = "user-connected"
	EventUserDisconnected = "user-disconnected"
)

// SignalMessage is the envelope for every event exchanged over the signaling
// socket. Signal carries an opaque SDP/ICE blob that is relayed verbatim and
// never interpreted by the server.
type SignalMessage struct {
	Type         string          `json:"type"`
	Room         string          `json:"room,omitempty"`
	Target       string          `json:"target,omitempty"`
	From         string          `json:"from,omitempty"`
	Signal       json.RawMessage `json:"signal,omitempty"`
	Message      string          `json:"message,omitempty"`
	Username     string          `json:"username,omitempty"`
	Timestamp    string          `json:"timestamp,omitempty"`
	UserCount    int             `json:"user_count,omitempty"`
	ConnectionID string          `json:"connection_id,omitempty"`
}

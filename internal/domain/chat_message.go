package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is an ephemeral room-scoped text message. It is relayed to the
// other members of the sender's room and then discarded; nothing is stored.
type ChatMessage struct {
	ID           uuid.UUID
	RoomID       string
	ConnectionID string
	Username     string
	Content      string
	CreatedAt    time.Time
}

func NewChatMessage(roomID string, conn *Connection, username, content string) *ChatMessage {
	msg := &ChatMessage{
		ID:        uuid.New(),
		RoomID:    roomID,
		Username:  username,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if conn != nil {
		msg.ConnectionID = conn.ID
	}
	return msg
}

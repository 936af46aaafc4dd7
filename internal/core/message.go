package core

import (
	"time"

	"github.com/vovakirdan/roomrelay/internal/store"
)

// Message is the domain model for a chat message.
type Message struct {
	ID        int64
	Room      string
	UserID    string
	Username  string
	Text      string
	CreatedAt time.Time
}

func fromStoreMessage(m *store.Message) Message {
	return Message{
		ID:        m.ID,
		Room:      m.RoomID,
		UserID:    m.UserID,
		Username:  m.Username,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func fromStoreMessages(msgs []*store.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, fromStoreMessage(m))
	}
	return out
}

package store

import (
	"context"
	"time"
)

// Message is a persisted chat message. ID and CreatedAt are assigned by the
// store on append and never change afterwards.
type Message struct {
	ID        int64
	RoomID    string
	UserID    string
	Username  string
	Text      string
	CreatedAt time.Time
}

// MessageStore is an append-only ordered log keyed by room.
type MessageStore interface {
	// AppendMessage persists a message, assigning its id and timestamp, and
	// returns the materialized record.
	AppendMessage(ctx context.Context, roomID, userID, username, text string) (*Message, error)

	// ListMessages returns up to limit messages in roomID strictly older than
	// before, ordered ascending by creation time. The newest matching
	// messages win when more than limit qualify.
	ListMessages(ctx context.Context, roomID string, before time.Time, limit int) ([]*Message, error)

	// Close releases the underlying storage.
	Close() error
}

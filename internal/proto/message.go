package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

const (
	ProtocolVersion = 1

	InboundTypeIdentityInit = "identity-init"
	InboundTypeRoomJoin     = "room-join"
	InboundTypeRoomLeave    = "room-leave"
	InboundTypeTypingStart  = "typing-start"
	InboundTypeTypingStop   = "typing-stop"
	InboundTypeMessageSend  = "message-send"

	OutboundTypeIdentityAck      = "identity-ack"
	OutboundTypeHistorySeed      = "history-seed"
	OutboundTypePresenceSnapshot = "presence-snapshot"
	OutboundTypePresenceOnline   = "presence-online"
	OutboundTypePresenceOffline  = "presence-offline"
	OutboundTypeTypingStart      = "typing-start"
	OutboundTypeTypingStop       = "typing-stop"
	OutboundTypeMessageNew       = "message-new"
)

// IdentityInitData binds a client-declared identity to the connection.
type IdentityInitData struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// IdentityAckData confirms an identity bind.
type IdentityAckData struct {
	OK bool `json:"ok"`
}

// RoomData addresses a room for join/leave/typing frames.
type RoomData struct {
	RoomID string `json:"roomId"`
}

// MessageSendData is a chat message from the client.
type MessageSendData struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}

// MessagePayload is a materialized chat message on the wire.
type MessagePayload struct {
	ID        int64     `json:"id"`
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistorySeedData delivers recent room history to a joining connection.
type HistorySeedData struct {
	RoomID   string           `json:"roomId"`
	Messages []MessagePayload `json:"messages"`
}

// PresenceUser is one entry of a presence snapshot.
type PresenceUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Status   string `json:"status"`
	Typing   bool   `json:"typing"`
}

// PresenceSnapshotData is the full presence list of a room.
type PresenceSnapshotData struct {
	RoomID string         `json:"roomId"`
	Users  []PresenceUser `json:"users"`
}

// PresenceChangeData is a discrete online/offline notice.
type PresenceChangeData struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

// TypingData is a typing-start/typing-stop notice fanned out to a room.
type TypingData struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

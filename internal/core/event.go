package core

// EventKind is a notification the hub emits to clients.
type EventKind int

const (
	// EventIdentityAck confirms an identity bind to the originating connection.
	EventIdentityAck EventKind = iota
	// EventHistorySeed delivers recent room history to a joining connection.
	EventHistorySeed
	// EventPresenceSnapshot carries the full presence list of a room.
	EventPresenceSnapshot
	// EventPresenceOnline notifies a room that a user came online.
	EventPresenceOnline
	// EventPresenceOffline notifies a room that a user went offline.
	EventPresenceOffline
	// EventTyping notifies a room of a typing state change.
	EventTyping
	// EventMessageNew fans a persisted chat message out to a room.
	EventMessageNew
)

// Event describes what happened in the system. Only the fields relevant to
// the kind are set.
type Event struct {
	Kind     EventKind
	Room     string
	UserID   string
	Username string
	Typing   bool            // for EventTyping: true on start, false on stop
	Users    []PresenceEntry // for EventPresenceSnapshot
	Message  Message         // for EventMessageNew
	Messages []Message       // for EventHistorySeed
}

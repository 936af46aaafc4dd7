package core

import "sync"

// Client is one live connection as seen by the hub. Identity is declared by
// the client itself and bound per connection; the server does not verify
// claims, so two connections may legitimately carry the same user.
type Client struct {
	ID     string
	Events chan *Event

	mu       sync.Mutex
	userID   string
	username string
	bound    bool
	rooms    map[string]struct{}
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 16),
		rooms:  make(map[string]struct{}),
	}
}

// bind associates an identity with the connection. Rebinding is allowed and
// the last call wins.
func (c *Client) bind(userID, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.username = username
	c.bound = true
}

// Identity returns the bound identity, if any.
func (c *Client) Identity() (userID, username string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID, c.username, c.bound
}

func (c *Client) addRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[roomID] = struct{}{}
}

func (c *Client) removeRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, roomID)
}

// roomsSnapshot returns the rooms the connection is currently joined to.
// Disconnect cleanup iterates over this copy so that concurrent membership
// changes cannot skip or repeat a room.
func (c *Client) roomsSnapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	rooms := make([]string, 0, len(c.rooms))
	for roomID := range c.rooms {
		rooms = append(rooms, roomID)
	}
	return rooms
}

// send delivers an event without blocking. Slow consumers drop events rather
// than stalling the room that is broadcasting.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}

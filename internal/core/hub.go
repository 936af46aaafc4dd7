package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/store"
)

const defaultHistorySeedLimit = 50

// Hub is the session gateway and room coordinator. It binds client-declared
// identities to connections, owns all per-room live state, and fans room
// events out to subscribed connections. Room state is created lazily on first
// reference and pruned once nothing references it.
//
// Identity is trusted as declared: a later identity-init on the same
// connection simply wins, and nothing stops two connections from claiming the
// same user. Malformed or out-of-order events (no identity bound, empty room,
// blank text) are dropped without a response; that is protocol behavior, not
// an error path.
//
// One room's mutations are serialized by that room's lock. Unrelated rooms
// proceed concurrently.
type Hub struct {
	store     store.MessageStore
	log       *zerolog.Logger
	seedLimit int

	mu      sync.RWMutex
	rooms   map[string]*room
	clients map[*Client]struct{}
}

// NewHub constructs a hub backed by the given message log. seedLimit caps the
// join-time history seed; values <= 0 fall back to the default of 50.
func NewHub(st store.MessageStore, logger *zerolog.Logger, seedLimit int) *Hub {
	if seedLimit <= 0 {
		seedLimit = defaultHistorySeedLimit
	}
	return &Hub{
		store:     st,
		log:       logger,
		seedLimit: seedLimit,
		rooms:     make(map[string]*room),
		clients:   make(map[*Client]struct{}),
	}
}

// RegisterClient makes a new connection known to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug().Str("client_id", c.ID).Msg("client registered")
}

// UnregisterClient runs disconnect cleanup: a leave-equivalent for every room
// the connection was joined to, over a snapshot of its membership. Safe to
// call again (the snapshot is then empty) and safe against a join racing the
// disconnect; whichever grabs the room lock last wins.
func (h *Hub) UnregisterClient(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	for _, roomID := range c.roomsSnapshot() {
		h.leaveRoom(c, roomID)
	}
	h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
}

// ClientCount reports the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BindIdentity associates a client-declared identity with the connection and
// acknowledges to the originating connection only. Rebinding overwrites.
func (h *Hub) BindIdentity(c *Client, userID, username string) {
	if userID == "" {
		h.log.Debug().Str("client_id", c.ID).Msg("identity-init without userId dropped")
		return
	}
	if username == "" {
		username = userID
	}
	c.bind(userID, username)
	c.send(&Event{Kind: EventIdentityAck})
	h.log.Debug().Str("client_id", c.ID).Str("user_id", userID).Msg("identity bound")
}

// Join subscribes the connection to a room, registers its presence, seeds it
// with recent history, and announces it to the other members.
func (h *Hub) Join(ctx context.Context, c *Client, roomID string) {
	userID, username, ok := c.Identity()
	if !ok || roomID == "" {
		h.log.Debug().Str("client_id", c.ID).Str("room_id", roomID).Msg("join dropped")
		return
	}

	r := h.lockRoom(roomID)
	defer r.mu.Unlock()

	r.subs[c] = struct{}{}
	c.addRoom(roomID)
	r.presence.set(userID, username)

	history, err := h.store.ListMessages(ctx, roomID, time.Now(), h.seedLimit)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Msg("history seed failed")
	} else {
		c.send(&Event{Kind: EventHistorySeed, Room: roomID, Messages: fromStoreMessages(history)})
	}

	r.broadcast(&Event{Kind: EventPresenceOnline, Room: roomID, UserID: userID, Username: username}, c)
	r.broadcast(&Event{Kind: EventPresenceSnapshot, Room: roomID, Users: r.presence.snapshot()}, nil)

	h.log.Debug().Str("user_id", userID).Str("room_id", roomID).Msg("user joined room")
}

// Leave removes the connection from a room. No-op if the identity holds no
// presence there; leaving twice emits nothing the second time.
func (h *Hub) Leave(c *Client, roomID string) {
	if roomID == "" {
		h.log.Debug().Str("client_id", c.ID).Msg("leave without roomId dropped")
		return
	}
	h.leaveRoom(c, roomID)
}

func (h *Hub) leaveRoom(c *Client, roomID string) {
	userID, username, ok := c.Identity()
	if !ok {
		return
	}

	r, found := h.getRoom(roomID)
	if !found {
		c.removeRoom(roomID)
		return
	}

	r.mu.Lock()
	delete(r.subs, c)
	c.removeRoom(roomID)
	if r.presence.remove(userID) {
		r.broadcast(&Event{Kind: EventPresenceOffline, Room: roomID, UserID: userID, Username: username}, nil)
		r.broadcast(&Event{Kind: EventPresenceSnapshot, Room: roomID, Users: r.presence.snapshot()}, nil)
		h.log.Debug().Str("user_id", userID).Str("room_id", roomID).Msg("user left room")
	}
	r.mu.Unlock()

	h.pruneRoom(r)
}

// SetTyping flips the typing flag on the caller's presence entry. The change
// goes out both as a discrete event (excluding the typer) and inside a fresh
// snapshot, so late joiners see current typing state. The server never expires
// typing on its own; clients re-emit typing-stop after their own timeout.
func (h *Hub) SetTyping(c *Client, roomID string, typing bool) {
	userID, username, ok := c.Identity()
	if !ok || roomID == "" {
		h.log.Debug().Str("client_id", c.ID).Str("room_id", roomID).Msg("typing dropped")
		return
	}

	r, found := h.getRoom(roomID)
	if !found {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, present := r.presence.get(userID)
	if !present {
		return
	}
	entry.Typing = typing

	r.broadcast(&Event{Kind: EventTyping, Room: roomID, UserID: userID, Username: username, Typing: typing}, c)
	r.broadcast(&Event{Kind: EventPresenceSnapshot, Room: roomID, Users: r.presence.snapshot()}, nil)
}

// SendMessage persists a chat message and fans it out to every subscribed
// connection, the sender included. Presence is not required to send; a sender
// that never joined simply gets no echo because it is not subscribed. The
// message is broadcast only after the append succeeds, so every live message
// corresponds to a durable record.
func (h *Hub) SendMessage(ctx context.Context, c *Client, roomID, text string) {
	userID, username, ok := c.Identity()
	text = strings.TrimSpace(text)
	if !ok || roomID == "" || text == "" {
		h.log.Debug().Str("client_id", c.ID).Str("room_id", roomID).Msg("message dropped")
		return
	}

	r := h.lockRoom(roomID)

	msg, err := h.store.AppendMessage(ctx, roomID, userID, username, text)
	if err != nil {
		h.log.Error().Err(err).Str("room_id", roomID).Str("user_id", userID).Msg("message append failed")
	} else {
		r.broadcast(&Event{Kind: EventMessageNew, Room: roomID, Message: fromStoreMessage(msg)}, nil)
	}

	r.mu.Unlock()
	h.pruneRoom(r)
}

func (h *Hub) getRoom(roomID string) (*room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[roomID]
	return r, ok
}

func (h *Hub) getOrCreateRoom(roomID string) *room {
	h.mu.RLock()
	r, ok := h.rooms[roomID]
	h.mu.RUnlock()
	if ok {
		return r
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[roomID]; ok {
		return r
	}
	r = newRoom(roomID)
	h.rooms[roomID] = r
	return r
}

// lockRoom returns the live state for roomID with its lock held, creating it
// on first reference. Retries if the room was pruned between lookup and lock.
func (h *Hub) lockRoom(roomID string) *room {
	for {
		r := h.getOrCreateRoom(roomID)
		r.mu.Lock()
		if !r.dead {
			return r
		}
		r.mu.Unlock()
	}
}

// pruneRoom drops room state once it has no subscribers and no presence.
// Lock order is hub then room, matching lockRoom's retry protocol.
func (h *Hub) pruneRoom(r *room) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.subs) == 0 && r.presence.empty() && h.rooms[r.id] == r {
		r.dead = true
		delete(h.rooms, r.id)
	}
}

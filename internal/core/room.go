package core

import "sync"

// room is the live state for one roomID: the broadcast group plus the
// presence table. All fields are guarded by mu; the hub serializes a room's
// mutations by holding it across each operation, store round-trips included,
// so events apply in arrival order and the live feed matches append order.
type room struct {
	id string

	mu       sync.Mutex
	subs     map[*Client]struct{}
	presence *presenceTable
	dead     bool // set when pruned; lookups must retry
}

func newRoom(id string) *room {
	return &room{
		id:       id,
		subs:     make(map[*Client]struct{}),
		presence: newPresenceTable(),
	}
}

// broadcast sends an event to every subscribed connection except the given
// one. Callers must hold r.mu.
func (r *room) broadcast(ev *Event, except *Client) {
	for c := range r.subs {
		if c == except {
			continue
		}
		c.send(ev)
	}
}

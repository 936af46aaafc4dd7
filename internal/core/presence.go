package core

// StatusOnline is the only live status a presence entry can carry.
const StatusOnline = "online"

// PresenceEntry is the live status record for one identity within one room.
type PresenceEntry struct {
	UserID   string
	Username string
	Status   string
	Typing   bool
}

// presenceTable holds a room's entries keyed by user, preserving insertion
// order for snapshots. At most one entry per user; a rejoin overwrites the
// existing entry in place instead of duplicating it.
type presenceTable struct {
	order  []*PresenceEntry
	byUser map[string]*PresenceEntry
}

func newPresenceTable() *presenceTable {
	return &presenceTable{byUser: make(map[string]*PresenceEntry)}
}

// set registers or overwrites the entry for userID and resets it to
// online/not-typing. Overwriting keeps the original insertion slot.
func (p *presenceTable) set(userID, username string) *PresenceEntry {
	if entry, ok := p.byUser[userID]; ok {
		entry.Username = username
		entry.Status = StatusOnline
		entry.Typing = false
		return entry
	}
	entry := &PresenceEntry{UserID: userID, Username: username, Status: StatusOnline}
	p.byUser[userID] = entry
	p.order = append(p.order, entry)
	return entry
}

func (p *presenceTable) get(userID string) (*PresenceEntry, bool) {
	entry, ok := p.byUser[userID]
	return entry, ok
}

// remove deletes the entry for userID. Returns false if absent.
func (p *presenceTable) remove(userID string) bool {
	if _, ok := p.byUser[userID]; !ok {
		return false
	}
	delete(p.byUser, userID)
	for i, entry := range p.order {
		if entry.UserID == userID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// snapshot returns a full copy of all entries in insertion order. The copy is
// recomputed on every call so receivers never alias live state.
func (p *presenceTable) snapshot() []PresenceEntry {
	users := make([]PresenceEntry, 0, len(p.order))
	for _, entry := range p.order {
		users = append(users, *entry)
	}
	return users
}

func (p *presenceTable) empty() bool {
	return len(p.byUser) == 0
}

package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/store"
)

// memStore is an in-memory append-only message log for hub tests.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	msgs   map[string][]*store.Message
	fail   bool
}

func newMemStore() *memStore {
	return &memStore{msgs: make(map[string][]*store.Message)}
}

func (s *memStore) AppendMessage(_ context.Context, roomID, userID, username, text string) (*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store unavailable")
	}
	s.nextID++
	msg := &store.Message{
		ID:        s.nextID,
		RoomID:    roomID,
		UserID:    userID,
		Username:  username,
		Text:      text,
		CreatedAt: time.Now(),
	}
	s.msgs[roomID] = append(s.msgs[roomID], msg)
	return msg, nil
}

func (s *memStore) ListMessages(_ context.Context, roomID string, before time.Time, limit int) ([]*store.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store unavailable")
	}
	var older []*store.Message
	for _, msg := range s.msgs[roomID] {
		if msg.CreatedAt.Before(before) {
			older = append(older, msg)
		}
	}
	if len(older) > limit {
		older = older[len(older)-limit:]
	}
	return older, nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) count(roomID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs[roomID])
}

func newTestHub(st store.MessageStore) *Hub {
	logger := zerolog.Nop()
	return NewHub(st, &logger, 0)
}

// mustEvent pops events until one of the wanted kind shows up. Hub calls
// deliver synchronously, so an empty channel means the event never came.
func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()
	for {
		select {
		case ev := <-ch:
			if ev.Kind == kind {
				return ev
			}
		default:
			t.Fatalf("expected event kind %v not received", kind)
			return nil
		}
	}
}

// assertNoEvent fails if an event of the given kind is pending.
func assertNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()
	for {
		select {
		case ev := <-ch:
			if ev.Kind == kind {
				t.Fatalf("unexpected event kind %v: %+v", kind, ev)
			}
		default:
			return
		}
	}
}

// collectEvents pops every event currently pending.
func collectEvents(ch <-chan *Event) []*Event {
	var events []*Event
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func drainEvents(ch <-chan *Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/maelqr/ecomeet/core/model"
	"github.com/maelqr/ecomeet/core/storage"
)

// MemoryStore is an in-memory storage.Store used for tests and for running
// the service without a database file.
type MemoryStore struct {
	mu           sync.RWMutex
	events       map[string]model.Event
	participants map[string]model.Participant
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:       make(map[string]model.Event),
		participants: make(map[string]model.Participant),
	}
}

// CreateEvent stores an event. Participants listed on the event are stored
// individually as well.
func (m *MemoryStore) CreateEvent(_ context.Context, ev model.Event) error {
	if ev.ID == "" {
		return fmt.Errorf("store: event id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[ev.ID]; ok {
		return fmt.Errorf("store: event %s already exists", ev.ID)
	}
	for _, p := range ev.Participants {
		m.participants[p.ID] = p
	}
	ev.Participants = nil
	m.events[ev.ID] = ev
	return nil
}

// CreateParticipant stores a participant.
func (m *MemoryStore) CreateParticipant(_ context.Context, p model.Participant) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[p.EventID]; !ok {
		return fmt.Errorf("store: event %s: %w", p.EventID, storage.ErrNotFound)
	}
	m.participants[p.ID] = p
	return nil
}

// GetEvent returns the event with its full participant set.
func (m *MemoryStore) GetEvent(_ context.Context, id string) (model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ev, ok := m.events[id]
	if !ok {
		return model.Event{}, fmt.Errorf("store: event %s: %w", id, storage.ErrNotFound)
	}
	for _, p := range m.participants {
		if p.EventID == id {
			ev.Participants = append(ev.Participants, p)
		}
	}
	return ev, nil
}

// SetParticipantActive flips the live-connection flag.
func (m *MemoryStore) SetParticipantActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return fmt.Errorf("store: participant %s: %w", id, storage.ErrNotFound)
	}
	p.Active = active
	m.participants[id] = p
	return nil
}

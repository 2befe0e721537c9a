package mqtt

import (
	"fmt"
	"sync"

	"github.com/maelqr/ecomeet/core/eventcost"
)

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Messages map[string][]eventcost.Result
	FailIDs  map[string]bool
	mu       sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Messages: make(map[string][]eventcost.Result),
		FailIDs:  make(map[string]bool),
	}
}

// PublishFootprint records the result or returns an error if configured to fail.
func (m *MockPublisher) PublishFootprint(eventID string, result eventcost.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[eventID] {
		return fmt.Errorf("publish failed")
	}
	m.Messages[eventID] = append(m.Messages[eventID], result)
	return nil
}

// Disconnect is a no-op.
func (m *MockPublisher) Disconnect(uint) {}

// Published returns the number of results recorded for an event.
func (m *MockPublisher) Published(eventID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages[eventID])
}

// Package storage defines the persistence interface the session layer
// depends on. Implementations live under infra/store.
package storage

import (
	"context"
	"errors"

	"github.com/maelqr/ecomeet/core/model"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store provides the event and participant records the session layer reads
// and the activity flag it flips. A failure of either call aborts the whole
// session-update cycle.
type Store interface {
	// GetEvent loads an event with its full participant set.
	GetEvent(ctx context.Context, id string) (model.Event, error)
	// SetParticipantActive flips the live-connection flag of a participant.
	SetParticipantActive(ctx context.Context, id string, active bool) error
}

// Writer is implemented by stores that can also create records. The core
// only reads; creation is used by seeding and tests.
type Writer interface {
	CreateEvent(ctx context.Context, ev model.Event) error
	CreateParticipant(ctx context.Context, p model.Participant) error
}

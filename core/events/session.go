// Package events defines the session related events emitted on the event bus.
//
// Available event types:
//   - ParticipantJoined: a participant identified itself on a socket
//   - ParticipantLeft: an identified socket disconnected
//   - FootprintBroadcast: a recomputed event footprint was fanned out
package events

import (
	"time"

	"github.com/maelqr/ecomeet/core/eventcost"
)

// ParticipantJoined is published when a participant registers a socket.
type ParticipantJoined struct {
	EventID       string
	ParticipantID string
	Reconnect     bool
	Time          time.Time
}

// ParticipantLeft is published when an identified socket disconnects.
type ParticipantLeft struct {
	EventID       string
	ParticipantID string
	Time          time.Time
}

// FootprintBroadcast is published after each broadcast cycle.
type FootprintBroadcast struct {
	EventID string
	Sockets int
	Failed  int
	Result  eventcost.Result
	Time    time.Time
}

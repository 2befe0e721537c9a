// Package mqtt defines the outbound broker contract. Implementations live
// under infra/mqtt.
package mqtt

import (
	"errors"

	"github.com/maelqr/ecomeet/core/eventcost"
)

// ErrNotConnected is returned when a publish is attempted without a live
// broker connection.
var ErrNotConnected = errors.New("mqtt: not connected")

// Publisher pushes recomputed footprint results to an external broker so
// dashboards and downstream consumers can follow events without holding a
// websocket.
type Publisher interface {
	PublishFootprint(eventID string, result eventcost.Result) error
	Disconnect(quiesce uint)
}

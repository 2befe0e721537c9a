package session

// Socket is one live connection to a participant's client. Implementations
// live under infra/ws; tests use in-memory fakes.
type Socket interface {
	// Receive blocks until the next message arrives. It returns an error
	// when the peer disconnects; the session layer treats that as a normal
	// terminal signal, not a failure to propagate.
	Receive() (map[string]any, error)
	// Send writes one message. It may fail if the peer already closed; the
	// session layer tolerates that per socket during fan-out.
	Send(v any) error
	Close() error
}

// Message keys identifying the sender. A message carrying both keys moves the
// connection from anonymous to identified; anything else is ignored.
const (
	KeyEventID       = "event_id"
	KeyParticipantID = "participant_id"
)

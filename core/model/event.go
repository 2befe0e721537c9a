package model

import "fmt"

// JoinMode indicates how a participant attends an event.
type JoinMode string

const (
	JoinModeOnline   JoinMode = "online"
	JoinModeInPerson JoinMode = "in_person"
)

// Validate checks that the join mode is one of the known values.
func (m JoinMode) Validate() error {
	switch m {
	case JoinModeOnline, JoinModeInPerson:
		return nil
	}
	return fmt.Errorf("unknown join mode %q", string(m))
}

// Event is a gathering with a physical location that participants attend
// either online or in person.
type Event struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Location     GeoCoordinates `json:"location"`
	Participants []Participant  `json:"participants,omitempty"`
}

// ActiveParticipants returns the participants currently marked active.
func (e Event) ActiveParticipants() []Participant {
	var active []Participant
	for _, p := range e.Participants {
		if p.Active {
			active = append(active, p)
		}
	}
	return active
}

// Participant is one attendee of an event. The Active flag reflects live
// connection status and is flipped by the session layer, never by storage
// callers directly.
type Participant struct {
	ID       string         `json:"id"`
	EventID  string         `json:"event_id"`
	Location GeoCoordinates `json:"location"`
	JoinMode JoinMode       `json:"join_mode"`
	Active   bool           `json:"active"`
}

// Validate checks the participant fields.
func (p Participant) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("participant id is required")
	}
	if p.EventID == "" {
		return fmt.Errorf("participant event id is required")
	}
	if err := p.JoinMode.Validate(); err != nil {
		return err
	}
	return p.Location.Validate()
}

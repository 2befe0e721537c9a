package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maelqr/ecomeet/core/eventcost"
	"github.com/maelqr/ecomeet/core/events"
	"github.com/maelqr/ecomeet/core/logger"
	"github.com/maelqr/ecomeet/core/model"
	"github.com/maelqr/ecomeet/core/storage"
	"github.com/maelqr/ecomeet/internal/eventbus"
)

// EventView is the event part of a broadcast payload. Participants are
// stripped; the count travels separately.
type EventView struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Location model.GeoCoordinates `json:"location"`
}

// Broadcast is the wire shape sent to every registered socket of an event
// after a recomputation. Field names are a stable contract with clients.
type Broadcast struct {
	Event                  EventView         `json:"event"`
	Participant            model.Participant `json:"participant"`
	EventParticipantsCount int               `json:"eventParticipantsCount"`
	Calculation            eventcost.Result  `json:"calculation"`
}

// Service owns the process-wide session table mapping event and participant
// identity to live sockets, and drives the recompute-and-broadcast cycle on
// every join and leave. All connection handlers share one Service handle.
type Service struct {
	store storage.Store
	orch  *eventcost.Orchestrator
	bus   eventbus.EventBus
	log   logger.Logger

	mu    sync.Mutex
	table map[string]map[string]Socket // eventID -> participantID -> socket
}

// NewService creates a Service. bus and log may be nil.
func NewService(store storage.Store, orch *eventcost.Orchestrator, bus eventbus.EventBus, log logger.Logger) (*Service, error) {
	if store == nil || orch == nil {
		return nil, fmt.Errorf("session: nil parameter provided to NewService")
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Service{
		store: store,
		orch:  orch,
		bus:   bus,
		log:   log,
		table: make(map[string]map[string]Socket),
	}, nil
}

// HandleConnection runs the per-connection state machine until the socket
// disconnects: anonymous until a message carries both identity keys, then
// identified until close. The socket is closed on return.
func (s *Service) HandleConnection(ctx context.Context, sock Socket) error {
	defer func() { _ = sock.Close() }()

	var eventID, participantID string
	identified := false

	for {
		msg, err := sock.Receive()
		if err != nil {
			// Normal terminal signal. An anonymous close mutates nothing.
			if !identified {
				return nil
			}
			return s.leave(ctx, eventID, participantID, sock)
		}

		evID, ok1 := stringField(msg, KeyEventID)
		pID, ok2 := stringField(msg, KeyParticipantID)
		if !ok1 || !ok2 {
			continue
		}
		if identified {
			if evID != eventID || pID != participantID {
				s.log.Warnf("socket for %s/%s sent mismatched identity %s/%s, ignoring",
					eventID, participantID, evID, pID)
				continue
			}
			if err := s.Refresh(ctx, eventID); err != nil {
				// A failed cycle does not end the session; the next join or
				// leave recomputes from storage anyway.
				s.log.Errorf("refresh for event %s: %v", eventID, err)
			}
			continue
		}
		if err := s.join(ctx, evID, pID, sock); err != nil {
			return err
		}
		eventID, participantID = evID, pID
		identified = true
	}
}

// join marks the participant active, registers the socket and broadcasts a
// fresh recomputation. The flag flip and the table mutation happen in one
// critical section, persistence first, so a storage failure leaves the table
// untouched and no interleaved leave can observe one without the other.
func (s *Service) join(ctx context.Context, eventID, participantID string, sock Socket) error {
	s.mu.Lock()
	if err := s.store.SetParticipantActive(ctx, participantID, true); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("session: activate participant %s: %w", participantID, err)
	}
	byParticipant, ok := s.table[eventID]
	if !ok {
		byParticipant = make(map[string]Socket)
		s.table[eventID] = byParticipant
	}
	old, reconnect := byParticipant[participantID]
	byParticipant[participantID] = sock
	s.mu.Unlock()

	if reconnect && old != sock {
		// Reconnect with a new socket replaces the handle; the stale one is
		// closed so its handler unwinds without touching the table.
		_ = old.Close()
	}

	s.publish(events.ParticipantJoined{
		EventID:       eventID,
		ParticipantID: participantID,
		Reconnect:     reconnect,
		Time:          time.Now(),
	})
	s.log.Infof("participant %s joined event %s (reconnect=%v)", participantID, eventID, reconnect)
	if err := s.Refresh(ctx, eventID); err != nil {
		// The socket is registered and live; tearing it down here would
		// leave the table claiming a connection that no handler serves.
		s.log.Errorf("refresh after join of %s/%s: %v", eventID, participantID, err)
	}
	return nil
}

// leave undoes a registration after a disconnect and broadcasts to the
// remaining sockets. If the socket was already replaced by a reconnect the
// table entry belongs to the new handle and is left alone. The entry check,
// the flag flip and the delete share one critical section so a reconnect of
// the same participant can only run before or after the whole step.
func (s *Service) leave(ctx context.Context, eventID, participantID string, sock Socket) error {
	s.mu.Lock()
	cur, ok := s.table[eventID][participantID]
	if !ok || cur != sock {
		s.mu.Unlock()
		return nil
	}
	if err := s.store.SetParticipantActive(ctx, participantID, false); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("session: deactivate participant %s: %w", participantID, err)
	}
	delete(s.table[eventID], participantID)
	if len(s.table[eventID]) == 0 {
		delete(s.table, eventID)
	}
	s.mu.Unlock()

	s.publish(events.ParticipantLeft{
		EventID:       eventID,
		ParticipantID: participantID,
		Time:          time.Now(),
	})
	s.log.Infof("participant %s left event %s", participantID, eventID)
	return s.Refresh(ctx, eventID)
}

// Refresh recomputes the event footprint from one consistent snapshot of the
// active participant set and fans the result out to every socket currently
// registered for the event. A participant joining or leaving mid-cycle is
// reflected in the next cycle, never patched into this one. Send failures to
// stale sockets are logged and skipped.
func (s *Service) Refresh(ctx context.Context, eventID string) error {
	ev, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("session: load event %s: %w", eventID, err)
	}
	active := ev.ActiveParticipants()

	result, err := s.orch.ComputeEventCosts(ctx, ev, active)
	if err != nil {
		return fmt.Errorf("session: compute costs for event %s: %w", eventID, err)
	}

	byID := make(map[string]model.Participant, len(ev.Participants))
	for _, p := range ev.Participants {
		byID[p.ID] = p
	}
	view := EventView{ID: ev.ID, Name: ev.Name, Location: ev.Location}

	failed := 0
	sockets := s.snapshot(eventID)
	for pid, sock := range sockets {
		payload := Broadcast{
			Event:                  view,
			Participant:            byID[pid],
			EventParticipantsCount: len(active),
			Calculation:            result,
		}
		if err := sock.Send(payload); err != nil {
			failed++
			s.log.Warnf("broadcast to participant %s of event %s failed: %v", pid, eventID, err)
		}
	}

	s.publish(events.FootprintBroadcast{
		EventID: eventID,
		Sockets: len(sockets),
		Failed:  failed,
		Result:  result,
		Time:    time.Now(),
	})
	s.log.Debugw("footprint broadcast", map[string]any{
		"event_id": eventID,
		"sockets":  len(sockets),
		"failed":   failed,
		"actual":   result.ActualTotalKg,
	})
	return nil
}

// ActiveSockets returns the number of sockets registered for an event.
func (s *Service) ActiveSockets(eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.table[eventID])
}

// snapshot copies the socket set of an event so fan-out happens outside the
// lock.
func (s *Service) snapshot(eventID string) map[string]Socket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Socket, len(s.table[eventID]))
	for pid, sock := range s.table[eventID] {
		out[pid] = sock
	}
	return out
}

func (s *Service) publish(e eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func stringField(msg map[string]any, key string) (string, bool) {
	v, ok := msg[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	if !ok || str == "" {
		return "", false
	}
	return str, true
}

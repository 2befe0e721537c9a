package store

import (
	"context"
	"errors"
	"testing"

	"github.com/maelqr/ecomeet/core/model"
	"github.com/maelqr/ecomeet/core/storage"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.CreateEvent(ctx, seedEvent()); err != nil {
		t.Fatalf("create event: %v", err)
	}
	ev, err := st.GetEvent(ctx, "ev1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if len(ev.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(ev.Participants))
	}
}

func TestMemoryStoreDuplicateEvent(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	if err := st.CreateEvent(ctx, seedEvent()); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := st.CreateEvent(ctx, seedEvent()); err == nil {
		t.Fatalf("expected duplicate event error")
	}
}

func TestMemoryStoreSetParticipantActive(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	if err := st.CreateEvent(ctx, seedEvent()); err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := st.SetParticipantActive(ctx, "p2", true); err != nil {
		t.Fatalf("activate: %v", err)
	}
	ev, err := st.GetEvent(ctx, "ev1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	active := ev.ActiveParticipants()
	if len(active) != 1 || active[0].ID != "p2" {
		t.Fatalf("unexpected active set %+v", active)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	if _, err := st.GetEvent(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.SetParticipantActive(ctx, "missing", true); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	p := model.Participant{ID: "p1", EventID: "missing", Location: model.GeoCoordinates{}, JoinMode: model.JoinModeOnline}
	if err := st.CreateParticipant(ctx, p); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

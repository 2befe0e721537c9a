package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/maelqr/ecomeet/core/model"
	"github.com/maelqr/ecomeet/core/storage"
)

// Seed loads events from a JSON file into the store. Events and participants
// without an ID get one assigned, so seed files can stay minimal.
func Seed(ctx context.Context, path string, w storage.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var evs []model.Event
	if err := json.Unmarshal(data, &evs); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}
	for i := range evs {
		if evs[i].ID == "" {
			evs[i].ID = uuid.NewString()
		}
		for j := range evs[i].Participants {
			p := &evs[i].Participants[j]
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			p.EventID = evs[i].ID
			if err := p.Validate(); err != nil {
				return fmt.Errorf("seed event %s participant %d: %w", evs[i].ID, j, err)
			}
		}
		if err := w.CreateEvent(ctx, evs[i]); err != nil {
			return fmt.Errorf("seed event %s: %w", evs[i].ID, err)
		}
	}
	return nil
}

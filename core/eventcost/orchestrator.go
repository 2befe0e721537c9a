// Package eventcost turns event and participant records into cost-aggregation
// requests and merges the per-participant results into event-level totals.
package eventcost

import (
	"context"
	"fmt"
	"sync"

	"github.com/maelqr/ecomeet/core/aggregate"
	"github.com/maelqr/ecomeet/core/calculator"
	"github.com/maelqr/ecomeet/core/logger"
	"github.com/maelqr/ecomeet/core/model"
)

// Path titles used for every participant's hypothetical attendance legs.
const (
	PathTitleInPerson = "In Person Attendance"
	PathTitleOnline   = "Online Attendance"
)

// ParticipantCost pairs a participant with its two-path aggregation result.
type ParticipantCost struct {
	Participant model.Participant  `json:"participant"`
	Response    aggregate.Response `json:"response"`
}

// Result is the merged event-level footprint: what it would cost if everyone
// came in person, if everyone joined online, and what actually happened.
type Result struct {
	InPersonTotalKg float64           `json:"in_person_total_kg"`
	OnlineTotalKg   float64           `json:"online_total_kg"`
	ActualTotalKg   float64           `json:"actual_total_kg"`
	Participants    []ParticipantCost `json:"participants"`
}

// Orchestrator builds aggregation requests from domain data and folds the
// responses.
type Orchestrator struct {
	engine *aggregate.Engine
	log    logger.Logger
}

// NewOrchestrator creates an Orchestrator. log may be nil.
func NewOrchestrator(engine *aggregate.Engine, log logger.Logger) (*Orchestrator, error) {
	if engine == nil {
		return nil, fmt.Errorf("eventcost: nil engine")
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Orchestrator{engine: engine, log: log}, nil
}

// buildRequest creates the two cost paths for one participant: a round-trip
// flight to the event location and a share of the pooled online session. The
// online item is sized by the total active count so its cost is identical
// across all participants' requests.
func buildRequest(p model.Participant, eventLocation model.GeoCoordinates, activeCount int) aggregate.Request {
	return aggregate.Request{Paths: []aggregate.CostPath{
		{
			Title: PathTitleInPerson,
			Items: []aggregate.CostItem{{
				Calculator: calculator.FlightName,
				Payload: map[string]any{
					"stages": []any{map[string]any{
						"one_way": false,
						"start":   map[string]any{"lon": p.Location.Lon, "lat": p.Location.Lat},
						"end":     map[string]any{"lon": eventLocation.Lon, "lat": eventLocation.Lat},
					}},
				},
			}},
		},
		{
			Title: PathTitleOnline,
			Items: []aggregate.CostItem{{
				Calculator: calculator.OnlineName,
				Payload: map[string]any{
					"total_participants": activeCount,
				},
			}},
		},
	}}
}

// ComputeEventCosts aggregates the footprint of every active participant and
// merges the results. Per-participant aggregations run concurrently; the
// merge only happens once all of them completed, and any hard failure aborts
// the whole computation.
func (o *Orchestrator) ComputeEventCosts(ctx context.Context, ev model.Event, active []model.Participant) (Result, error) {
	if len(active) == 0 {
		return Result{Participants: []ParticipantCost{}}, nil
	}

	responses := make([]aggregate.Response, len(active))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, p := range active {
		wg.Add(1)
		go func(i int, p model.Participant) {
			defer wg.Done()
			resp, err := o.engine.Aggregate(ctx, buildRequest(p, ev.Location, len(active)))
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("eventcost: participant %s: %w", p.ID, err)
				}
				mu.Unlock()
				return
			}
			responses[i] = resp
		}(i, p)
	}
	wg.Wait()
	if firstErr != nil {
		return Result{}, firstErr
	}

	res := Result{Participants: make([]ParticipantCost, 0, len(active))}
	for i, p := range active {
		resp := responses[i]
		res.Participants = append(res.Participants, ParticipantCost{Participant: p, Response: resp})

		inPerson, _ := resp.Path(PathTitleInPerson)
		online, _ := resp.Path(PathTitleOnline)
		res.InPersonTotalKg += inPerson.TotalCarbonKg
		res.OnlineTotalKg += online.TotalCarbonKg
		switch p.JoinMode {
		case model.JoinModeInPerson:
			res.ActualTotalKg += inPerson.TotalCarbonKg
		case model.JoinModeOnline:
			res.ActualTotalKg += online.TotalCarbonKg
		default:
			o.log.Warnf("participant %s has unknown join mode %q, excluded from actual total", p.ID, p.JoinMode)
		}
	}
	return res, nil
}

package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/maelqr/ecomeet/core/calculator"
	"github.com/maelqr/ecomeet/core/logger"
	"github.com/maelqr/ecomeet/core/metrics"
)

// Engine validates a batch of cost paths against a calculator registry,
// executes the validated items and folds their carbon outputs into per-path
// totals.
type Engine struct {
	reg  *calculator.Registry
	sink metrics.Sink
	log  logger.Logger
}

// NewEngine creates an Engine. sink and log may be nil.
func NewEngine(reg *calculator.Registry, sink metrics.Sink, log logger.Logger) (*Engine, error) {
	if reg == nil {
		return nil, fmt.Errorf("aggregate: nil registry")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Engine{reg: reg, sink: sink, log: log}, nil
}

// validItem is a cost item that passed validation, ready for execution.
type validItem struct {
	src  CostItem
	desc *calculator.Descriptor
	req  calculator.Request
}

// validPath is a cost path with its surviving items.
type validPath struct {
	title string
	items []validItem
	mixed bool // had invalid items next to valid ones
}

// Aggregate runs the two-phase validate-then-execute process.
//
// Validation inspects every item of every path before anything runs, so one
// response surfaces the complete list of problems. A path whose items all
// failed is dropped from execution without failing the request; a path mixing
// valid and invalid items fails the whole request with every collected
// failure, and nothing executes.
func (e *Engine) Aggregate(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	resp, err := e.aggregate(ctx, req)
	e.record(req, resp, err, time.Since(start))
	return resp, err
}

func (e *Engine) aggregate(ctx context.Context, req Request) (Response, error) {
	if len(req.Paths) == 0 {
		return Response{}, fmt.Errorf("aggregate: request has no cost paths")
	}

	var failures []ItemFailure
	mixed := false
	paths := make([]validPath, 0, len(req.Paths))
	for _, p := range req.Paths {
		if len(p.Items) == 0 {
			// Distinct from a path whose items all failed validation: an
			// itemless path is a malformed request, not a dropped one.
			return Response{}, fmt.Errorf("aggregate: cost path %q has no items", p.Title)
		}
		vp := validPath{title: p.Title}
		failed := 0
		for i, item := range p.Items {
			desc, err := e.reg.Lookup(item.Calculator)
			if err != nil {
				failures = append(failures, ItemFailure{
					PathTitle:  p.Title,
					ItemIndex:  i,
					Calculator: item.Calculator,
					Kind:       FailureUnknownCalculator,
				})
				failed++
				continue
			}
			parsed, err := desc.Parse(item.Payload)
			if err != nil {
				failures = append(failures, ItemFailure{
					PathTitle:  p.Title,
					ItemIndex:  i,
					Calculator: item.Calculator,
					Kind:       FailureInvalidPayload,
					Details:    calculator.PayloadErrors(err),
				})
				failed++
				continue
			}
			vp.items = append(vp.items, validItem{src: item, desc: desc, req: parsed})
		}
		if failed > 0 && len(vp.items) > 0 {
			vp.mixed = true
			mixed = true
		}
		if len(vp.items) > 0 {
			paths = append(paths, vp)
		}
	}

	// A fully invalid path is dropped silently; a partly invalid one fails
	// the whole request with all collected failures. Historical behavior,
	// kept as is.
	if mixed {
		return Response{}, &ValidationError{Failures: failures}
	}
	if len(failures) > 0 {
		e.log.Warnf("dropping %d fully invalid cost path(s)", len(req.Paths)-len(paths))
	}

	return e.execute(ctx, paths)
}

// execute runs every validated item. Items are independent and run
// concurrently; a path total is only computed from the complete result set.
func (e *Engine) execute(ctx context.Context, paths []validPath) (Response, error) {
	results := make([][]ItemResult, len(paths))
	for i, p := range paths {
		results[i] = make([]ItemResult, len(p.items))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		execErr error
	)
	for pi, p := range paths {
		for ii, item := range p.items {
			wg.Add(1)
			go func(pi, ii int, item validItem) {
				defer wg.Done()
				resp, err := item.desc.Invoke(ctx, item.req)
				if err != nil {
					mu.Lock()
					if execErr == nil {
						execErr = &ExecutionError{Calculator: item.desc.Name, Err: err}
					}
					mu.Unlock()
					return
				}
				results[pi][ii] = ItemResult{
					Item:     item.src,
					CarbonKg: item.desc.ExtractCarbonKg(resp),
				}
			}(pi, ii, item)
		}
	}
	wg.Wait()
	if execErr != nil {
		return Response{}, execErr
	}

	resp := Response{Paths: make([]PathResult, 0, len(paths))}
	for pi, p := range paths {
		pr := PathResult{Title: p.title, Items: results[pi]}
		for _, ir := range results[pi] {
			pr.TotalCarbonKg += ir.CarbonKg
		}
		resp.Paths = append(resp.Paths, pr)
	}
	return resp, nil
}

func (e *Engine) record(req Request, resp Response, err error, d time.Duration) {
	rec := metrics.AggregationRecord{
		Status:   metrics.StatusOK,
		Paths:    len(resp.Paths),
		Duration: d,
	}
	for _, p := range resp.Paths {
		rec.Items += len(p.Items)
		rec.TotalCarbonKg += p.TotalCarbonKg
	}
	switch {
	case err == nil:
	case isValidationError(err):
		rec.Status = metrics.StatusValidationFailed
	default:
		rec.Status = metrics.StatusExecutionFailed
	}
	if serr := e.sink.RecordAggregation(rec); serr != nil {
		e.log.Errorf("aggregation metrics error: %v", serr)
	}
}

func isValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

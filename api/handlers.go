// Package api exposes the HTTP surface: one POST endpoint per calculator,
// the batched cost-aggregator endpoint, schema introspection and the
// websocket entry point.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/maelqr/ecomeet/core/aggregate"
	"github.com/maelqr/ecomeet/core/calculator"
	"github.com/maelqr/ecomeet/core/logger"
)

const basePath = "/api/v1"

// NewMux builds the HTTP routing table. wsHandler may be nil when the live
// session endpoint is disabled.
func NewMux(reg *calculator.Registry, engine *aggregate.Engine, wsHandler http.Handler, log logger.Logger) *http.ServeMux {
	if log == nil {
		log = logger.Nop{}
	}
	mux := http.NewServeMux()

	for _, d := range reg.Descriptors() {
		mux.Handle(basePath+d.Path, newCalculatorHandler(d, log))
	}
	mux.Handle(basePath+"/cost-aggregator", newAggregateHandler(engine, log))
	mux.Handle(basePath+"/modules", newModulesHandler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if wsHandler != nil {
		mux.Handle(basePath+"/ws", wsHandler)
	}
	return mux
}

// newCalculatorHandler serves one calculator directly, bypassing the
// aggregation engine: parse, invoke, return the typed response.
func newCalculatorHandler(d *calculator.Descriptor, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{"invalid JSON body"}})
			return
		}
		req, err := d.Parse(payload)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": calculator.PayloadErrors(err)})
			return
		}
		resp, err := d.Invoke(r.Context(), req)
		if err != nil {
			log.Errorf("calculator %s failed: %v", d.Name, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

func newAggregateHandler(engine *aggregate.Engine, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req aggregate.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{"invalid JSON body"}})
			return
		}
		resp, err := engine.Aggregate(r.Context(), req)
		if err != nil {
			if verr, ok := aggregate.AsValidationError(err); ok {
				writeJSON(w, http.StatusBadRequest, map[string]any{"failures": verr.Failures})
				return
			}
			var eerr *aggregate.ExecutionError
			if errors.As(err, &eerr) {
				log.Errorf("aggregation execution failed: %v", eerr)
				http.Error(w, eerr.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []string{err.Error()}})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

func newModulesHandler(reg *calculator.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, reg.DescribeAll())
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Package app wires configuration, calculators, storage, metrics and the
// session layer into one runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/maelqr/ecomeet/api"
	"github.com/maelqr/ecomeet/app/plugins"
	"github.com/maelqr/ecomeet/config"
	"github.com/maelqr/ecomeet/core/aggregate"
	"github.com/maelqr/ecomeet/core/calculator"
	"github.com/maelqr/ecomeet/core/eventcost"
	"github.com/maelqr/ecomeet/core/events"
	coremetrics "github.com/maelqr/ecomeet/core/metrics"
	coremqtt "github.com/maelqr/ecomeet/core/mqtt"
	"github.com/maelqr/ecomeet/core/session"
	"github.com/maelqr/ecomeet/core/storage"
	"github.com/maelqr/ecomeet/infra/logger"
	"github.com/maelqr/ecomeet/infra/metrics"
	"github.com/maelqr/ecomeet/infra/mqtt"
	"github.com/maelqr/ecomeet/infra/store"
	"github.com/maelqr/ecomeet/infra/ws"
	"github.com/maelqr/ecomeet/internal/eventbus"
)

// Service owns every long-lived component of the footprint estimator.
type Service struct {
	Registry *calculator.Registry
	Engine   *aggregate.Engine
	Sessions *session.Service

	store     storage.Store
	storeStop func() error
	bus       eventbus.EventBus
	sink      coremetrics.Sink
	publisher coremqtt.Publisher
	srv       *http.Server
	log       logger.Logger

	promEnabled bool
	promAddr    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if cfg.Logging.Env == "dev" {
		_ = os.Setenv("APP_ENV", "dev")
	}
	logg := logger.New("service")

	reg, err := plugins.BuildRegistry(cfg.Calculators)
	if err != nil {
		return nil, fmt.Errorf("calculator registry: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.Influx.Enabled {
		ic := cfg.Metrics.Influx
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(ic.URL, ic.Token, ic.Org, ic.Bucket))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	engine, err := aggregate.NewEngine(reg, sink, logger.New("aggregate"))
	if err != nil {
		return nil, fmt.Errorf("aggregation engine: %w", err)
	}
	orch, err := eventcost.NewOrchestrator(engine, logger.New("eventcost"))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	st, stop, err := newStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if cfg.Storage.Seed != "" {
		w, ok := st.(storage.Writer)
		if !ok {
			return nil, fmt.Errorf("storage backend %s cannot be seeded", cfg.Storage.Backend)
		}
		if err := Seed(context.Background(), cfg.Storage.Seed, w); err != nil {
			return nil, fmt.Errorf("seed storage: %w", err)
		}
	}

	bus := eventbus.New()
	sessions, err := session.NewService(st, orch, bus, logger.New("session"))
	if err != nil {
		return nil, fmt.Errorf("session service: %w", err)
	}

	var publisher coremqtt.Publisher
	if cfg.MQTT.Enabled {
		publisher, err = mqtt.NewPahoPublisher(cfg.MQTT.Conn)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	wsHandler := ws.NewHandler(sessions, logger.New("ws"))
	mux := api.NewMux(reg, engine, wsHandler, logger.New("api"))
	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     mux,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeoutS) * time.Second,
		// The websocket endpoint hijacks its connection, so the write
		// timeout only governs the plain HTTP handlers.
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutS) * time.Second,
	}

	return &Service{
		Registry:    reg,
		Engine:      engine,
		Sessions:    sessions,
		store:       st,
		storeStop:   stop,
		bus:         bus,
		sink:        sink,
		publisher:   publisher,
		srv:         srv,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promAddr:    cfg.Metrics.PrometheusAddr,
	}, nil
}

func newStore(cfg config.StorageConfig) (storage.Store, func() error, error) {
	switch cfg.Backend {
	case "sqlite":
		st, err := store.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return store.NewMemoryStore(), nil, nil
	}
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.consumeEvents(ctx)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// consumeEvents forwards session events from the bus to the metrics sink and
// the optional MQTT publisher.
func (s *Service) consumeEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			switch e := ev.(type) {
			case events.FootprintBroadcast:
				if br, ok := s.sink.(coremetrics.BroadcastRecorder); ok {
					if err := br.RecordBroadcast(coremetrics.BroadcastRecord{
						EventID:         e.EventID,
						Sockets:         e.Sockets,
						Failed:          e.Failed,
						InPersonTotalKg: e.Result.InPersonTotalKg,
						OnlineTotalKg:   e.Result.OnlineTotalKg,
						ActualTotalKg:   e.Result.ActualTotalKg,
						Time:            e.Time,
					}); err != nil {
						s.log.Warnf("record broadcast: %v", err)
					}
				}
				if s.publisher != nil {
					if err := s.publisher.PublishFootprint(e.EventID, e.Result); err != nil {
						s.log.Warnf("publish footprint: %v", err)
					}
				}
			case events.ParticipantJoined:
				s.recordSessions(e.EventID)
			case events.ParticipantLeft:
				s.recordSessions(e.EventID)
			}
		}
	}
}

func (s *Service) recordSessions(eventID string) {
	if sr, ok := s.sink.(coremetrics.SessionsRecorder); ok {
		if err := sr.RecordActiveSessions(eventID, s.Sessions.ActiveSockets(eventID)); err != nil {
			s.log.Warnf("record sessions: %v", err)
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Disconnect(250)
	}
	if s.storeStop != nil {
		return s.storeStop()
	}
	return nil
}

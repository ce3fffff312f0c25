// Package pinger probes registered components on an interval and keeps
// per-component readiness, health and latency statistics.
package pinger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const defaultTimeout = time.Second

// Pinger is a component that can report whether it works.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// A pinger may implement any of these to change how its failures count.
// Both criticality flags default to true.
type (
	readyCritical interface {
		PingerReadyCritical() bool
	}
	healthCritical interface {
		PingerCritical() bool
	}
	timeouter interface {
		PingerTimeout() time.Duration
	}
)

type entry struct {
	pinger         Pinger
	readyCritical  bool
	healthCritical bool
	timeout        time.Duration
	record         *record
}

type Service struct {
	logger   *slog.Logger
	interval time.Duration

	mu      sync.RWMutex
	entries map[string]*entry

	ready      chan struct{}
	stop       chan struct{}
	doneCh     chan struct{}
	started    atomic.Bool
	inShutdown atomic.Bool
	inflight   sync.WaitGroup
}

func New(logger *slog.Logger, interval time.Duration) *Service {
	return &Service{
		logger:   logger.With("component", "pinger"),
		interval: interval,
		entries:  make(map[string]*entry),
		ready:    make(chan struct{}),
		stop:     make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (s *Service) Name() string {
	return "pinger"
}

func (s *Service) Register(p Pinger) error {
	if p == nil {
		return ErrNilPinger
	}

	e := &entry{
		pinger:         p,
		readyCritical:  true,
		healthCritical: true,
		timeout:        defaultTimeout,
		record:         newRecord(),
	}

	if rc, ok := p.(readyCritical); ok {
		e.readyCritical = rc.PingerReadyCritical()
	}

	if hc, ok := p.(healthCritical); ok {
		e.healthCritical = hc.PingerCritical()
	}

	if t, ok := p.(timeouter); ok && t.PingerTimeout() > 0 {
		e.timeout = t.PingerTimeout()
	}

	name := p.Name()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	s.entries[name] = e

	s.logger.Info("pinger registered",
		"name", name,
		"readyCritical", e.readyCritical,
		"healthCritical", e.healthCritical,
		"timeout", e.timeout,
	)

	return nil
}

func (s *Service) Start(ctx context.Context) error {
	if s.inShutdown.Load() {
		s.logger.InfoContext(ctx, "pinger is shutting down, start skipped")

		return nil
	}

	if s.started.CompareAndSwap(false, true) {
		go s.run(ctx)
	}

	return nil
}

// Ready is closed once the first round of pings has finished.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) Shutdown(ctx context.Context) error {
	if !s.inShutdown.CompareAndSwap(false, true) {
		return nil
	}

	close(s.stop)

	if !s.started.Load() {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("pinger loop still running: %w", ctx.Err())
	case <-s.doneCh:
	}

	s.inflight.Wait()
	s.logger.InfoContext(ctx, "pinger stopped")

	return nil
}

func (s *Service) Stats(name string) (*Statistics, error) {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPinger, name)
	}

	return e.statistics(), nil
}

func (s *Service) AllStats() map[string]*Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*Statistics, len(s.entries))
	for name, e := range s.entries {
		out[name] = e.statistics()
	}

	return out
}

func (s *Service) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.pingAll(ctx)
	close(s.ready)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.pingAll(ctx)
		}
	}
}

// pingAll pings every component concurrently and waits for all of them.
func (s *Service) pingAll(ctx context.Context) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	var round sync.WaitGroup

	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}

		round.Add(1)
		s.inflight.Add(1)

		go func() {
			defer round.Done()
			defer s.inflight.Done()

			s.ping(ctx, e)
		}()
	}

	round.Wait()
}

func (s *Service) ping(ctx context.Context, e *entry) {
	pingCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	err := e.pinger.Ping(pingCtx)
	latency := time.Since(start)

	e.record.add(start, latency, err)

	if err != nil {
		s.logger.DebugContext(ctx, "ping failed", "name", e.pinger.Name(), "latency", latency, "reason", err)
	}
}

func (e *entry) statistics() *Statistics {
	st := e.record.statistics()
	st.Ready = !e.readyCritical || st.LastError == ""
	st.Healthy = !e.healthCritical || st.LastError == ""

	return st
}

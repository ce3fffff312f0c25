// Package appstate tracks the lifecycle of the serve mode and answers the
// health, readiness and status probes.
package appstate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/skillcoder/specctl/internal/infra/pinger"
	"github.com/skillcoder/specctl/internal/infra/shutdown"
)

type State string

const (
	StateInit        State = "init"
	StateStarting    State = "starting"
	StateRunning     State = "running"
	StateTerminating State = "terminating"
	StateTerminated  State = "terminated"
)

type AppState struct {
	logger *slog.Logger
	quit   <-chan os.Signal
	pinger pingerServer

	mu            sync.RWMutex
	state         State
	startedAt     time.Time
	readyAt       time.Time
	terminatingAt time.Time
	shutdowners   []shutdown.Shutdowner
}

func New(
	logger *slog.Logger,
	startedAt time.Time,
	quit <-chan os.Signal,
	pinger pingerServer,
) *AppState {
	return &AppState{
		logger:    logger.With("component", "appstate"),
		quit:      quit,
		pinger:    pinger,
		state:     StateInit,
		startedAt: startedAt,
	}
}

func (s *AppState) RegisterPinger(p pinger.Pinger) error {
	return s.pinger.Register(p)
}

// RegisterShutdowner adds a component to stop on Shutdown. Components are
// stopped in reverse registration order.
func (s *AppState) RegisterShutdowner(sd shutdown.Shutdowner) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shutdowners = append(s.shutdowners, sd)
}

func (s *AppState) AllStats() map[string]*pinger.Statistics {
	return s.pinger.AllStats()
}

func (s *AppState) Quit() <-chan os.Signal {
	return s.quit
}

func (s *AppState) SetStarting(ctx context.Context) error {
	return s.transition(ctx, StateInit, StateStarting)
}

func (s *AppState) SetRunning(ctx context.Context) error {
	return s.transition(ctx, StateStarting, StateRunning)
}

// SetTerminating is allowed from any state except terminated.
func (s *AppState) SetTerminating(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return fmt.Errorf("set terminating: %w", ErrAlreadyTerminated)
	}

	if s.state != StateTerminating {
		s.terminatingAt = time.Now()
		s.logger.InfoContext(ctx, "state changed", "from", s.state, "to", StateTerminating)
		s.state = StateTerminating
	}

	return nil
}

func (s *AppState) transition(ctx context.Context, from, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return fmt.Errorf("set %s: %w", to, ErrAlreadyTerminated)
	}

	if s.state != from {
		return fmt.Errorf("set %s from %s: %w", to, s.state, ErrInvalidStateTransition)
	}

	if to == StateRunning {
		s.readyAt = time.Now()
	}

	s.logger.InfoContext(ctx, "state changed", "from", from, "to", to)
	s.state = to

	return nil
}

func (s *AppState) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *AppState) StartTime() time.Time {
	return s.startedAt
}

func (s *AppState) Uptime() time.Duration {
	return time.Since(s.startedAt)
}

// IsHealthy holds while starting or running and no health-critical
// component reports a failure.
func (s *AppState) IsHealthy() bool {
	switch s.State() {
	case StateStarting, StateRunning:
	default:
		return false
	}

	for _, st := range s.AllStats() {
		if !st.Healthy {
			return false
		}
	}

	return true
}

// IsReady holds while running and every ready-critical component answers.
func (s *AppState) IsReady() bool {
	if s.State() != StateRunning {
		return false
	}

	for _, st := range s.AllStats() {
		if !st.Ready {
			return false
		}
	}

	return true
}

// Shutdown stops every registered component and ends in terminated.
func (s *AppState) Shutdown(ctx context.Context, timeout time.Duration) error {
	if err := s.SetTerminating(ctx); err != nil {
		return err
	}

	s.mu.RLock()
	shutdowners := append([]shutdown.Shutdowner(nil), s.shutdowners...)
	s.mu.RUnlock()

	err := shutdown.GracefulShutdown(ctx, s.logger, timeout, shutdowners)

	s.mu.Lock()
	s.state = StateTerminated
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "terminated", "uptime", s.Uptime())

	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillcoder/specctl/internal/logic/engine"
)

// Exporter re-runs the translation on a cron schedule and writes a fresh
// snapshot through its emitters on every activation.
type Exporter struct {
	logger     *slog.Logger
	service    *Service
	source     Source
	emitters   []Emitter
	schedule   Schedule
	spec       string
	tz         string
	ready      chan struct{}
	doneCh     chan struct{}
	started    atomic.Bool
	inShutdown atomic.Bool
	mu         sync.RWMutex
	nextRun    time.Time
	lastRunAt  time.Time
	lastErr    error
}

// NewExporter creates a scheduled exporter. spec is a five-field cron
// expression evaluated in tz.
func NewExporter(
	logger *slog.Logger,
	service *Service,
	source Source,
	emitters []Emitter,
	schedule Schedule,
	spec,
	tz string,
) *Exporter {
	return &Exporter{
		logger:   logger.With("component", exporterName),
		service:  service,
		source:   source,
		emitters: emitters,
		schedule: schedule,
		spec:     spec,
		tz:       tz,
		ready:    make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start validates the schedule and launches the export loop.
func (e *Exporter) Start(ctx context.Context) error {
	if e.inShutdown.Load() {
		e.logger.InfoContext(ctx, "exporter is shutting down, skipping start")

		return nil
	}

	if len(e.emitters) == 0 {
		return ErrNoEmitters
	}

	if _, err := e.schedule.NextAfter(e.spec, e.tz, time.Now()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCron, err)
	}

	if e.started.CompareAndSwap(false, true) {
		go e.RunCommand(ctx)
	}

	return nil
}

// Name returns the name of the exporter component
func (e *Exporter) Name() string {
	return exporterName
}

func (e *Exporter) Ready() <-chan struct{} {
	return e.ready
}

// Ping fails before the loop started, when the last export failed or when
// the next activation is overdue.
func (e *Exporter) Ping(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.ready:
	default:
		return errors.New("exporter is not ready")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.lastErr != nil {
		return fmt.Errorf("last export at %s failed: %w", e.lastRunAt.Format(time.RFC3339), e.lastErr)
	}

	if !e.nextRun.IsZero() {
		if late := time.Since(e.nextRun); late > overdueGrace {
			return fmt.Errorf("scheduled export is overdue by %s", late.Round(time.Second))
		}
	}

	return nil
}

func (e *Exporter) Shutdown(ctx context.Context) error {
	if !e.inShutdown.CompareAndSwap(false, true) {
		e.logger.ErrorContext(ctx, "exporter is already shutting down, skipping shutdown")

		return nil
	}

	if !e.started.Load() {
		return nil
	}

	e.logger.InfoContext(ctx, "shutting down exporter")

	select {
	case <-ctx.Done():
		return fmt.Errorf("shutdown context done before export loop exited: %w", ctx.Err())
	case <-e.doneCh:
		e.logger.InfoContext(ctx, "export loop exited")
	}

	return nil
}

// ExportCommand runs one scheduled export.
func (e *Exporter) ExportCommand(ctx context.Context) error {
	_, err := e.service.TranslateCommand(ctx, e.source, e.emitters...)
	if err != nil {
		if errors.Is(err, engine.ErrNothingToProcess) {
			e.logger.WarnContext(ctx, "nothing to export")

			return nil
		}

		var target notFound
		if errors.As(err, &target) {
			e.logger.WarnContext(ctx, "export source not found, skipping", "reason", err)

			return nil
		}

		return err
	}

	return nil
}

// RunCommand waits for each activation of the schedule and exports.
func (e *Exporter) RunCommand(ctx context.Context) {
	defer close(e.doneCh)

	logger := e.logger.With("translator", "RunCommand")

	close(e.ready)

	for {
		next, err := e.schedule.NextAfter(e.spec, e.tz, time.Now())
		if err != nil {
			logger.ErrorContext(ctx, "resolve next export time", "reason", err)
			e.finish(err)

			return
		}

		e.setNextRun(next)
		logger.DebugContext(ctx, "next export scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			logger.InfoContext(ctx, "terminating export loop")

			return
		}

		err = e.ExportCommand(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "export error", "reason", err)
		}

		e.finish(err)
	}
}

func (e *Exporter) setNextRun(next time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextRun = next
}

func (e *Exporter) finish(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastRunAt = time.Now()
	e.lastErr = err
}

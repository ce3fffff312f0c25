// Package shutdown handles termination signals and stops components in
// reverse start order.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const DefaultTimeout = 5 * time.Second

// Notify subscribes to SIGTERM and SIGINT. Call it first in main so a
// signal during startup is not lost.
func Notify() <-chan os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	return signals
}

type Handler struct {
	logger *slog.Logger
	quit   <-chan os.Signal
}

func New(logger *slog.Logger, quit <-chan os.Signal) *Handler {
	return &Handler{
		logger: logger,
		quit:   quit,
	}
}

// HandleSignals calls cancel on the first signal. It returns early when ctx
// is done.
func (h *Handler) HandleSignals(ctx context.Context, cancel func()) {
	select {
	case <-ctx.Done():
		return
	case sig := <-h.quit:
		h.logger.InfoContext(ctx, "termination signal received", "signal", sig.String())
	}

	cancel()
}

// CheckTermination fails when ctx is already done or a signal is pending.
func (h *Handler) CheckTermination(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context done before startup: %w", err)
	}

	select {
	case sig := <-h.quit:
		return fmt.Errorf("signal %s received before startup", sig)
	default:
	}

	return nil
}

// GracefulShutdown stops shutdowners last to first within timeout. Every
// component is asked to stop even if an earlier one failed; all failures
// are joined.
func GracefulShutdown(
	originCtx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	shutdowners []Shutdowner,
) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(originCtx), timeout)
	defer cancel()

	var errs error

	for i := len(shutdowners) - 1; i >= 0; i-- {
		start := time.Now()
		s := shutdowners[i]

		if err := s.Shutdown(ctx); err != nil {
			logger.ErrorContext(ctx, "component shutdown failed",
				"component", s.Name(),
				"duration", time.Since(start),
				"reason", err,
			)

			errs = errors.Join(errs, fmt.Errorf("%s: %w", s.Name(), err))

			continue
		}

		logger.InfoContext(ctx, "component stopped",
			"component", s.Name(),
			"duration", time.Since(start),
		)
	}

	return errs
}

package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillcoder/specctl/internal/adapters/inbound/composefile"
	"github.com/skillcoder/specctl/internal/httpserver"
	"github.com/skillcoder/specctl/internal/infra/appstate"
	"github.com/skillcoder/specctl/internal/infra/cronparser"
	"github.com/skillcoder/specctl/internal/infra/pinger"
	"github.com/skillcoder/specctl/internal/infra/shutdown"
	"github.com/skillcoder/specctl/internal/logic/compose"
	"github.com/skillcoder/specctl/internal/logic/translator"
)

func (a *App) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation API and run the scheduled export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// serve blocks until a termination signal, then stops every component in
// reverse registration order.
func (a *App) serve(originCtx context.Context) error {
	ctx, cancel, err := a.signalContext(originCtx)
	if err != nil {
		return err
	}
	defer cancel()

	pingers := pinger.New(a.logger, a.cfg.PingerInterval)
	state := appstate.New(a.logger, a.startedAt, a.signals, pingers)

	if err := state.SetStarting(ctx); err != nil {
		return fmt.Errorf("set starting: %w", err)
	}

	svc := a.newTranslator()
	composer := compose.NewConverter(a.logger, composefile.Environ(os.Environ()))

	metricsServer := httpserver.NewMetricsServer(a.logger, a.cfg.MetricsPort)
	httpServer := httpserver.New(a.logger, state, svc, composer, httpserver.Options{
		Port:            a.cfg.HTTPPort,
		MaxRequestBytes: a.cfg.MaxRequestBytes,
	})

	// Shutdown runs last to first: http, exporter, metrics, pinger.
	shutdownOrder := []component{pingers, metricsServer}
	startOrder := []component{metricsServer}
	probes := []pinger.Pinger{metricsServer, httpServer}

	if a.cfg.ExportSchedule != "" {
		exporter, sourcePinger, err := a.exporter(ctx, svc)
		if err != nil {
			return err
		}

		shutdownOrder = append(shutdownOrder, exporter)
		startOrder = append(startOrder, exporter)
		probes = append(probes, exporter)

		if sourcePinger != nil {
			probes = append(probes, sourcePinger)
		}
	}

	shutdownOrder = append(shutdownOrder, httpServer)
	startOrder = append(startOrder, httpServer, pingers)

	for _, p := range probes {
		if err := state.RegisterPinger(p); err != nil {
			return fmt.Errorf("register pinger: %w", err)
		}
	}

	for _, c := range shutdownOrder {
		state.RegisterShutdowner(c)
	}

	readies := make([]<-chan struct{}, 0, len(startOrder))

	for _, c := range startOrder {
		if err := c.Start(ctx); err != nil {
			a.logger.ErrorContext(ctx, "component start failed", "component", c.Name(), "reason", err)
			cancel()

			return a.stop(ctx, state, fmt.Errorf("start %s: %w", c.Name(), err))
		}

		readies = append(readies, c.Ready())
	}

	select {
	case <-ctx.Done():
		return a.stop(ctx, state, nil)
	case <-allChannelsClose(ctx, a.logger, readies...):
	}

	if err := state.SetRunning(ctx); err != nil {
		return a.stop(ctx, state, fmt.Errorf("set running: %w", err))
	}

	a.logger.InfoContext(ctx, "serving", "startup", state.Uptime())

	<-ctx.Done()

	return a.stop(ctx, state, nil)
}

func (a *App) stop(ctx context.Context, state *appstate.AppState, cause error) error {
	if err := state.Shutdown(context.WithoutCancel(ctx), shutdown.DefaultTimeout); err != nil {
		return errors.Join(cause, err)
	}

	return cause
}

// exporter builds the scheduled export. The returned pinger is the cluster
// source when the export reads from the cluster.
func (a *App) exporter(ctx context.Context, svc *translator.Service) (*translator.Exporter, pinger.Pinger, error) {
	parser := cronparser.New()
	if err := parser.Validate(a.cfg.ExportSchedule, a.cfg.ExportTZ); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", translator.ErrInvalidCron, err)
	}

	source, err := a.source(ctx, false)
	if err != nil {
		return nil, nil, err
	}

	sourcePinger, _ := source.(pinger.Pinger)

	exporter := translator.NewExporter(
		a.logger,
		svc,
		source,
		a.emitters(),
		parser,
		a.cfg.ExportSchedule,
		a.cfg.ExportTZ,
	)

	return exporter, sourcePinger, nil
}

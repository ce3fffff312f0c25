// Package app wires adapters, use cases and infrastructure into the
// specctl commands.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillcoder/specctl/internal/adapters/inbound/contextpicker"
	"github.com/skillcoder/specctl/internal/adapters/inbound/manifestfile"
	"github.com/skillcoder/specctl/internal/adapters/outbound/ecsjson"
	"github.com/skillcoder/specctl/internal/adapters/outbound/k8s"
	"github.com/skillcoder/specctl/internal/adapters/outbound/tfvars"
	"github.com/skillcoder/specctl/internal/config"
	"github.com/skillcoder/specctl/internal/infra/logging"
	"github.com/skillcoder/specctl/internal/infra/metrics"
	"github.com/skillcoder/specctl/internal/infra/shutdown"
	"github.com/skillcoder/specctl/internal/logic/engine"
	"github.com/skillcoder/specctl/internal/logic/translator"
)

type App struct {
	cfg       *config.Config
	signals   <-chan os.Signal
	startedAt time.Time
	logger    *slog.Logger
	stdin     *os.File
	stderr    io.Writer
}

// New creates the application. Flags parsed by Command override cfg.
func New(cfg *config.Config, signals <-chan os.Signal, startedAt time.Time) *App {
	return &App{
		cfg:       cfg,
		signals:   signals,
		startedAt: startedAt,
		logger:    slog.Default(),
		stdin:     os.Stdin,
		stderr:    os.Stderr,
	}
}

// Command builds the root command with the k2e, c2k and serve subcommands.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "specctl",
		Short:         "Translate cluster manifests to ECS definitions and compose files to cluster manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !logging.Valid(a.cfg.LogFormat, a.cfg.LogLevel) {
				return fmt.Errorf("%w: log format %q or level %q", config.ErrInvalid, a.cfg.LogFormat, a.cfg.LogLevel)
			}

			a.logger = logging.NewWithWriter(a.stderr, a.cfg.LogFormat, a.cfg.LogLevel)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.cfg.LogFormat, "log-format", a.cfg.LogFormat, "log format: json, text")

	root.AddCommand(a.k2eCommand(), a.c2kCommand(), a.serveCommand())

	return root
}

// Run executes the command line args.
func (a *App) Run(ctx context.Context, args []string) error {
	cmd := a.Command()
	cmd.SetArgs(args)

	return cmd.ExecuteContext(ctx)
}

// signalContext is cancelled on the first termination signal.
func (a *App) signalContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	handler := shutdown.New(a.logger, a.signals)

	if err := handler.CheckTermination(ctx); err != nil {
		return nil, nil, fmt.Errorf("check termination: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	go handler.HandleSignals(ctx, cancel)

	return ctx, cancel, nil
}

func (a *App) newTranslator() *translator.Service {
	return translator.New(a.logger, engine.New(a.logger, a.cfg.Settings()), metrics.Recorder{})
}

func (a *App) emitters() []translator.Emitter {
	return []translator.Emitter{
		ecsjson.New(a.logger, ecsjson.Options{
			OutputDir:             a.cfg.OutputDirectory,
			TaskDefinitionFile:    a.cfg.TaskDefinitionFile,
			ServiceDefinitionFile: a.cfg.ServiceDefinitionFile,
			InputFile:             a.cfg.InputFile,
		}),
		tfvars.New(a.logger, a.cfg.OutputDirectory, a.cfg.TfvarsFile),
	}
}

// source reads manifests from the configured path, or the live cluster when
// no path is set. interactive allows the kube-context picker.
func (a *App) source(ctx context.Context, interactive bool) (translator.Source, error) {
	if a.cfg.Source != "" {
		return manifestfile.New(a.logger, a.cfg.Source), nil
	}

	contextName := a.cfg.KubeContext
	if contextName == "" && interactive && contextpicker.Interactive(a.stdin) {
		picked, err := a.pickContext(ctx)
		if err != nil {
			return nil, err
		}

		contextName = picked
	}

	clients, err := k8s.NewClients(a.cfg.KubeConfig, a.cfg.KubeMaster, contextName)
	if err != nil {
		return nil, fmt.Errorf("cluster clients: %w", err)
	}

	a.logger.InfoContext(ctx, "reading from cluster", "context", contextName, "namespaces", a.cfg.Namespaces)

	return k8s.New(a.logger, clients, k8s.Options{
		Namespaces:    a.cfg.Namespaces,
		ObservedUsage: a.cfg.ObservedUsage,
	}), nil
}

// pickContext asks only when there is a choice to make.
func (a *App) pickContext(ctx context.Context) (string, error) {
	names, current, err := contextpicker.Contexts(a.cfg.KubeConfig)
	if err != nil {
		return "", err
	}

	if len(names) < 2 {
		return current, nil
	}

	picked, err := contextpicker.Pick(ctx, names, current, a.stdin, a.stderr)
	if err != nil {
		return "", fmt.Errorf("pick kube context: %w", err)
	}

	return picked, nil
}

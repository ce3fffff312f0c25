package app

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/skillcoder/specctl/internal/logic/engine"
)

func (a *App) k2eCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "k2e",
		Short: "Translate cluster manifests into ECS task and service definitions and tfvars",
		Long: `k2e reads manifests from --source, or from the live cluster when no source
is given, and writes per-service ECS JSON definitions and terraform.tfvars
files under the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.k2e(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.cfg.Source, "source", a.cfg.Source, "manifest file or directory; empty reads the live cluster")
	f.StringVar(&a.cfg.KubeContext, "context", a.cfg.KubeContext, "kubeconfig context")
	f.StringSliceVar(&a.cfg.Namespaces, "namespaces", a.cfg.Namespaces, "namespaces to read (default all)")
	f.StringVar(&a.cfg.OutputDirectory, "output-directory", a.cfg.OutputDirectory, "output directory")
	f.StringVar(&a.cfg.TaskDefinitionFile, "td-file", a.cfg.TaskDefinitionFile, "task definition file name")
	f.StringVar(&a.cfg.ServiceDefinitionFile, "sd-file", a.cfg.ServiceDefinitionFile, "service definition file name")
	f.StringVar(&a.cfg.TfvarsFile, "tfvars-file", a.cfg.TfvarsFile, "tfvars file name")
	f.StringVar(&a.cfg.InputFile, "input-file", a.cfg.InputFile, "additional definition input JSON")
	f.BoolVar(&a.cfg.ObservedUsage, "observed-usage", a.cfg.ObservedUsage, "fill missing requests from observed pod usage")

	return cmd
}

func (a *App) k2e(originCtx context.Context) error {
	ctx, cancel, err := a.signalContext(originCtx)
	if err != nil {
		return err
	}
	defer cancel()

	source, err := a.source(ctx, true)
	if err != nil {
		return err
	}

	m, err := a.newTranslator().TranslateCommand(ctx, source, a.emitters()...)
	if err != nil {
		if errors.Is(err, engine.ErrNothingToProcess) {
			a.logger.WarnContext(ctx, "nothing to process")

			return nil
		}

		var target notFound
		if errors.As(err, &target) {
			a.logger.WarnContext(ctx, "nothing to process", "reason", err)

			return nil
		}

		return err
	}

	a.logger.InfoContext(ctx, "translation written",
		"services", len(m.Services),
		"diagnostics", len(m.Diagnostics),
		"output", a.cfg.OutputDirectory,
	)

	return nil
}

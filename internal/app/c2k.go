package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillcoder/specctl/internal/adapters/inbound/composefile"
	"github.com/skillcoder/specctl/internal/adapters/outbound/k8syaml"
	"github.com/skillcoder/specctl/internal/logic/compose"
)

func (a *App) c2kCommand() *cobra.Command {
	var composeFile, envFile string

	cmd := &cobra.Command{
		Use:   "c2k",
		Short: "Convert a compose file into cluster manifests",
		Long: `c2k writes a Deployment, a ServiceAccount and, when ports are published,
a Service for every compose service. ${KEY} placeholders are resolved from the
process environment and the optional env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.c2k(cmd.Context(), composeFile, envFile)
		},
	}

	f := cmd.Flags()
	f.StringVar(&composeFile, "source", "", "compose file")
	f.StringVar(&envFile, "env-file", "", "KEY=VALUE file used for substitution")
	f.StringVar(&a.cfg.OutputDirectory, "output-directory", a.cfg.OutputDirectory, "output directory")

	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func (a *App) c2k(originCtx context.Context, composeFile, envFile string) error {
	ctx, cancel, err := a.signalContext(originCtx)
	if err != nil {
		return err
	}
	defer cancel()

	project, err := composefile.Load(composeFile)
	if err != nil {
		if errors.Is(err, composefile.ErrNoServices) {
			a.logger.WarnContext(ctx, "nothing to process", "source", composeFile)

			return nil
		}

		return fmt.Errorf("read compose file: %w", err)
	}

	vars, err := variables(envFile)
	if err != nil {
		return err
	}

	manifests := compose.NewConverter(a.logger, vars).Convert(ctx, project)

	if err := k8syaml.New(a.logger, a.cfg.OutputDirectory).WriteCommand(ctx, manifests); err != nil {
		return fmt.Errorf("write manifests: %w", err)
	}

	a.logger.InfoContext(ctx, "manifests written",
		"services", len(project.Services),
		"objects", len(manifests),
		"output", a.cfg.OutputDirectory,
	)

	return nil
}

// variables merges the process environment with envFile; the file wins.
func variables(envFile string) (compose.Variables, error) {
	vars := composefile.Environ(os.Environ())

	if envFile == "" {
		return vars, nil
	}

	fileVars, err := composefile.LoadEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	maps.Copy(vars, fileVars)

	return vars, nil
}

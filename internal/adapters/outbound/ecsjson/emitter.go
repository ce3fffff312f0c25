// Package ecsjson writes task and service definitions as JSON files ready
// for the register-task-definition and create-service calls.
package ecsjson

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/skillcoder/specctl/internal/logic/model"
)

const (
	emitterName      = "ecs-json"
	defaultNamespace = "default"
)

type Options struct {
	OutputDir             string
	TaskDefinitionFile    string
	ServiceDefinitionFile string
	InputFile             string
}

type Emitter struct {
	logger *slog.Logger
	opts   Options
}

func New(logger *slog.Logger, opts Options) *Emitter {
	return &Emitter{
		logger: logger.With("component", emitterName),
		opts:   opts,
	}
}

func (e *Emitter) Name() string {
	return emitterName
}

// EmitCommand writes <out>/<namespace>/<service>/ with both definitions for
// every service bound to a workload.
func (e *Emitter) EmitCommand(ctx context.Context, m *model.Model) error {
	input, err := LoadInput(e.opts.InputFile)
	if err != nil {
		return err
	}

	written := 0

	for i := range m.Services {
		if err := ctx.Err(); err != nil {
			return err
		}

		svc := &m.Services[i]

		w := m.WorkloadOf(svc)
		if w == nil {
			e.logger.DebugContext(ctx, "service without workload skipped",
				"namespace", svc.Namespace, "service", svc.Name)

			continue
		}

		if err := e.emitService(ctx, input, svc, w); err != nil {
			return err
		}

		written++
	}

	e.logger.InfoContext(ctx, "definitions written", "dir", e.opts.OutputDir, "services", written)

	return nil
}

func (e *Emitter) emitService(ctx context.Context, input Input, svc *model.Service, w *model.Workload) error {
	sd := NewServiceDefinition(svc, w)

	sdJSON, err := input.ServiceDefinition(sd)
	if err != nil {
		return err
	}

	tdJSON, err := input.TaskDefinition(NewTaskDefinition(w))
	if err != nil {
		return err
	}

	ns := svc.Namespace
	if ns == "" {
		ns = defaultNamespace
	}

	dir := filepath.Join(e.opts.OutputDir, ns, sd.ServiceName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	for file, data := range map[string][]byte{
		e.opts.TaskDefinitionFile:    tdJSON,
		e.opts.ServiceDefinitionFile: sdJSON,
	} {
		path := filepath.Join(dir, file)
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // definitions are not secret
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}

		e.logger.DebugContext(ctx, "definition written", "path", path)
	}

	return nil
}

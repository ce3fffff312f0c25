// Package translator is the use case around the engine: it pulls objects
// from a Source, translates them and hands the model to Emitters.
package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/skillcoder/specctl/internal/logic/engine"
	"github.com/skillcoder/specctl/internal/logic/manifest"
	"github.com/skillcoder/specctl/internal/logic/model"
)

type Service struct {
	logger   *slog.Logger
	engine   Engine
	recorder Recorder
}

// New creates a new translator service.
func New(
	logger *slog.Logger,
	eng Engine,
	recorder Recorder,
) *Service {
	return &Service{
		logger:   logger,
		engine:   eng,
		recorder: recorder,
	}
}

// TranslateObjects runs one engine pass over objs. The returned error wraps
// engine.ErrNothingToProcess when objs held nothing usable; the model is
// still returned in that case so callers can report its diagnostics.
func (s *Service) TranslateObjects(
	ctx context.Context,
	objs []runtime.Object,
) (*model.Model, error) {
	start := time.Now()

	for _, obj := range objs {
		if obj == nil {
			continue
		}

		s.recorder.RecordObject(manifest.KindOf(obj))
	}

	m, err := s.engine.Translate(ctx, objs)
	duration := time.Since(start)

	if m != nil {
		for i := range m.Diagnostics {
			s.recorder.RecordDiagnostic(string(m.Diagnostics[i].Category))
		}
	}

	switch {
	case err == nil:
		s.recorder.RecordTranslation(ResultOK, duration)
	case errors.Is(err, engine.ErrNothingToProcess):
		s.recorder.RecordTranslation(ResultEmpty, duration)

		return m, fmt.Errorf("translate: %w", err)
	default:
		s.recorder.RecordTranslation(ResultError, duration)

		return nil, fmt.Errorf("translate: %w", err)
	}

	s.logger.InfoContext(ctx, "translation finished",
		"objects", len(objs),
		"services", len(m.Services),
		"diagnostics", len(m.Diagnostics),
		"duration", duration,
	)

	return m, nil
}

// TranslateCommand lists objects from source, translates them and runs every
// emitter in order. Emission stops at the first failing emitter.
func (s *Service) TranslateCommand(
	ctx context.Context,
	source Source,
	emitters ...Emitter,
) (*model.Model, error) {
	logger := s.logger.With("translator", "TranslateCommand")

	objs, err := source.ListObjectsQuery(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListObjects, err)
	}

	logger.DebugContext(ctx, "objects listed", "count", len(objs))

	m, err := s.TranslateObjects(ctx, objs)
	if err != nil {
		return m, err
	}

	for _, emitter := range emitters {
		select {
		case <-ctx.Done():
			return m, fmt.Errorf("%w: %w", ErrEmit, ctx.Err())
		default:
		}

		start := time.Now()

		if err := emitter.EmitCommand(ctx, m); err != nil {
			return m, fmt.Errorf("%w: %s: %w", ErrEmit, emitter.Name(), err)
		}

		logger.InfoContext(ctx, "model emitted",
			"emitter", emitter.Name(),
			"duration", time.Since(start),
		)
	}

	return m, nil
}

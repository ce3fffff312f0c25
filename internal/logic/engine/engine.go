// Package engine runs one translation pass: normalization, association and
// routing over a fully materialized object list.
package engine

import (
	"context"
	"errors"
	"log/slog"

	"k8s.io/apimachinery/pkg/runtime"

	"github.com/skillcoder/specctl/internal/logic/association"
	"github.com/skillcoder/specctl/internal/logic/model"
	"github.com/skillcoder/specctl/internal/logic/normalize"
	"github.com/skillcoder/specctl/internal/logic/report"
	"github.com/skillcoder/specctl/internal/logic/routing"
	"github.com/skillcoder/specctl/internal/logic/settings"
)

var ErrNothingToProcess = errors.New("nothing to process")

// Engine is stateless between runs and safe for concurrent use; every call
// to Translate builds its own arena.
type Engine struct {
	logger   *slog.Logger
	settings settings.Settings
}

func New(logger *slog.Logger, s settings.Settings) *Engine {
	return &Engine{
		logger:   logger.With("component", "engine"),
		settings: s,
	}
}

// Translate builds the model for objs. Malformed or unsupported objects end
// up as diagnostics; the only error is ErrNothingToProcess.
func (e *Engine) Translate(ctx context.Context, objs []runtime.Object) (*model.Model, error) {
	reporter := report.New(e.logger)
	norm := normalize.New(e.settings, reporter)

	for _, obj := range objs {
		if obj == nil {
			continue
		}

		norm.Add(ctx, obj)
	}

	res := norm.Result()
	if res.Empty() {
		return &model.Model{Topology: model.NewTopology(), Diagnostics: reporter.Diagnostics()}, ErrNothingToProcess
	}

	assoc := association.Run(ctx, association.Input{
		Workloads:  res.Workloads,
		Services:   res.Services,
		Identities: res.Identities,
		Policies:   res.Policies,
		ParamSets:  res.ParamSets,
	}, e.settings, reporter)

	topo := routing.Merge(res.Routes)
	routing.Bind(ctx, &topo, assoc.Services, reporter)

	m := &model.Model{
		Workloads:  assoc.Workloads,
		Services:   assoc.Services,
		Parameters: res.Parameters,
		Topology:   topo,
	}

	for i := range m.Services {
		m.AddNamespace(m.Services[i].Namespace)
	}

	m.Diagnostics = reporter.Diagnostics()

	e.logger.DebugContext(ctx, "translation done",
		"objects", len(objs),
		"workloads", len(m.Workloads),
		"services", len(m.Services),
		"parameters", len(m.Parameters),
		"rules", len(m.Topology.Rules),
		"diagnostics", len(m.Diagnostics),
	)

	return m, nil
}

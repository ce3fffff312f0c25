// Package association reconstructs the relationships between normalized
// records: which service fronts which workload, which identity and network
// policy apply to it and where its environment comes from.
//
// The stages run in a fixed order over an arena of workloads. Services point
// at their workload by index; nothing is nested or moved.
package association

import (
	"cmp"
	"context"
	"slices"

	"github.com/skillcoder/specctl/internal/logic/model"
	"github.com/skillcoder/specctl/internal/logic/report"
	"github.com/skillcoder/specctl/internal/logic/settings"
)

// Input is the normalized record set of one run.
type Input struct {
	Workloads  []model.Workload
	Services   []model.Service
	Identities []model.Identity
	Policies   []model.NetworkPolicy
	ParamSets  []model.ParamSet
}

// Result is the associated arena.
type Result struct {
	Workloads []model.Workload
	Services  []model.Service
}

type associator struct {
	settings settings.Settings
	reporter *report.Reporter

	workloads  []model.Workload
	services   []model.Service
	identities []model.Identity
	policies   []model.NetworkPolicy
	params     []model.ParamSet
}

// Run executes every stage. The input slices are copied, never modified.
func Run(ctx context.Context, in Input, s settings.Settings, r *report.Reporter) Result {
	a := &associator{
		settings:   s,
		reporter:   r,
		workloads:  slices.Clone(in.Workloads),
		services:   slices.Clone(in.Services),
		identities: in.Identities,
		policies:   slices.Clone(in.Policies),
		params:     in.ParamSets,
	}

	for i := range a.workloads {
		a.workloads[i].Containers = cloneContainers(a.workloads[i].Containers)
	}

	slices.SortStableFunc(a.workloads, func(x, y model.Workload) int {
		return cmp.Or(cmp.Compare(x.Namespace, y.Namespace), cmp.Compare(x.Name, y.Name))
	})
	slices.SortStableFunc(a.services, byNamespaceName)
	slices.SortStableFunc(a.policies, func(x, y model.NetworkPolicy) int {
		return cmp.Or(cmp.Compare(x.Namespace, y.Namespace), cmp.Compare(x.Name, y.Name))
	})

	a.matchSelectors(ctx)
	a.mergeDuplicates(ctx)
	a.bindIdentities(ctx)
	a.bindNetworkPolicies()
	a.injectEnvironment(ctx)
	a.resolvePorts(ctx)
	a.deriveHealthChecks()

	return Result{
		Workloads: a.workloads,
		Services:  a.services,
	}
}

// owned returns the workload a service owns, or nil.
func (a *associator) owned(s *model.Service) *model.Workload {
	if !s.Owned() || s.Workload >= len(a.workloads) {
		return nil
	}

	return &a.workloads[s.Workload]
}

func byNamespaceName(x, y model.Service) int {
	return cmp.Or(cmp.Compare(x.Namespace, y.Namespace), cmp.Compare(x.Name, y.Name))
}

func cloneContainers(in []model.Container) []model.Container {
	out := slices.Clone(in)
	for i := range out {
		out[i].Environment = slices.Clone(out[i].Environment)
		out[i].Secrets = slices.Clone(out[i].Secrets)
		out[i].EnvImports = slices.Clone(out[i].EnvImports)
	}

	return out
}

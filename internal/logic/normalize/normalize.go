// Package normalize converts typed manifest objects into canonical records.
// Every normalizer is independent of the others, so objects can arrive in any
// order.
package normalize

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/skillcoder/specctl/internal/logic/manifest"
	"github.com/skillcoder/specctl/internal/logic/model"
	"github.com/skillcoder/specctl/internal/logic/report"
	"github.com/skillcoder/specctl/internal/logic/routing"
	"github.com/skillcoder/specctl/internal/logic/settings"
)

// DefaultNamespace is used for objects that carry no namespace.
const DefaultNamespace = "default"

// Result holds the typed record lists produced from one object set.
type Result struct {
	Workloads  []model.Workload
	Services   []model.Service
	Parameters []model.Parameter
	ParamSets  []model.ParamSet
	Identities []model.Identity
	Policies   []model.NetworkPolicy
	Routes     []model.RoutingRecord
}

// Empty reports whether nothing usable was produced.
func (r *Result) Empty() bool {
	return len(r.Workloads) == 0 &&
		len(r.Services) == 0 &&
		len(r.Parameters) == 0 &&
		len(r.ParamSets) == 0 &&
		len(r.Identities) == 0 &&
		len(r.Policies) == 0 &&
		len(r.Routes) == 0
}

// Normalizer dispatches objects to the normalizer of their kind.
type Normalizer struct {
	settings settings.Settings
	reporter *report.Reporter
	result   Result
}

func New(s settings.Settings, r *report.Reporter) *Normalizer {
	return &Normalizer{
		settings: s,
		reporter: r,
	}
}

// Add normalizes one object and appends its records.
func (n *Normalizer) Add(ctx context.Context, obj runtime.Object) {
	switch o := obj.(type) {
	case *appsv1.Deployment:
		n.result.Workloads = append(n.result.Workloads, n.deployment(ctx, o))
	case *corev1.Pod:
		n.result.Workloads = append(n.result.Workloads, n.pod(ctx, o))
	case *corev1.Service:
		if svc, ok := n.service(ctx, o); ok {
			n.result.Services = append(n.result.Services, svc)
		}
	case *corev1.ConfigMap:
		params, set := n.configMap(ctx, o)
		n.result.Parameters = append(n.result.Parameters, params...)
		n.result.ParamSets = append(n.result.ParamSets, set)
	case *corev1.Secret:
		params, set := n.secret(o)
		n.result.Parameters = append(n.result.Parameters, params...)
		n.result.ParamSets = append(n.result.ParamSets, set)
	case *corev1.ServiceAccount:
		n.result.Identities = append(n.result.Identities, n.serviceAccount(o))
	case *manifest.SecurityGroupPolicy:
		n.result.Policies = append(n.result.Policies, securityGroupPolicy(o))
	case *networkingv1.Ingress:
		if rec, ok := routing.Record(ctx, o, namespaceOf(o.Namespace), n.settings.Routing, n.reporter); ok {
			n.result.Routes = append(n.result.Routes, rec)
		}
	case *manifest.Rejected:
		n.reporter.Add(ctx, model.CategoryShapeViolation,
			model.ObjectRef{Kind: manifest.KindOf(o), Namespace: o.GetNamespace(), Name: o.GetName()},
			"document skipped: %v", o.Err,
		)
	default:
		n.reporter.Add(ctx, model.CategoryUnsupported,
			model.ObjectRef{Kind: manifest.KindOf(obj), Name: nameOf(obj)},
			"kind is not supported, object skipped",
		)
	}
}

// Result returns the accumulated records.
func (n *Normalizer) Result() *Result {
	return &n.result
}

func namespaceOf(ns string) string {
	if ns == "" {
		return DefaultNamespace
	}

	return ns
}

type named interface {
	GetName() string
}

func nameOf(obj runtime.Object) string {
	if o, ok := obj.(named); ok {
		return o.GetName()
	}

	return ""
}

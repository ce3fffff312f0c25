package association

import (
	"context"
	"slices"

	"k8s.io/apimachinery/pkg/labels"

	"github.com/skillcoder/specctl/internal/logic/model"
)

// SubsetMatch reports whether every key of selector is present in set with an
// equal value. An empty selector matches any set.
func SubsetMatch(selector, set map[string]string) bool {
	return labels.Set(selector).AsSelectorPreValidated().Matches(labels.Set(set))
}

// matchSelectors pairs services with workloads. Services are visited by
// namespace and name, candidates by name; the first unclaimed match wins and
// further matches are reported as ties. An empty selector matches every
// workload of the namespace. Services left over take an unclaimed workload of
// the same name; workloads left over get a synthetic service.
func (a *associator) matchSelectors(ctx context.Context) {
	claimed := make([]bool, len(a.workloads))

	for si := range a.services {
		svc := &a.services[si]
		svc.Workload = model.NoWorkload

		var ties []string

		for wi := range a.workloads {
			w := &a.workloads[wi]
			if claimed[wi] || w.Namespace != svc.Namespace || !SubsetMatch(svc.Selector, w.PodLabels) {
				continue
			}

			if svc.Owned() {
				ties = append(ties, w.Name)

				continue
			}

			svc.Workload = wi
			claimed[wi] = true
		}

		if len(ties) > 0 {
			a.reporter.Add(ctx, model.CategoryLookupMiss, svc.Ref(),
				"selector also matches %v, kept %s", ties, a.workloads[svc.Workload].Name)
		}
	}

	for si := range a.services {
		svc := &a.services[si]
		if svc.Owned() {
			continue
		}

		for wi := range a.workloads {
			w := &a.workloads[wi]
			if !claimed[wi] && w.Namespace == svc.Namespace && w.Name == svc.Name {
				svc.Workload = wi
				claimed[wi] = true

				break
			}
		}
	}

	for wi := range a.workloads {
		if claimed[wi] {
			continue
		}

		w := &a.workloads[wi]
		a.services = append(a.services, model.Service{
			Name:      w.Name,
			Namespace: w.Namespace,
			Kind:      model.ServiceKindClusterIP,
			Synthetic: true,
			Workload:  wi,
		})
	}

	slices.SortStableFunc(a.services, byNamespaceName)
}

package association

import (
	"context"
	"maps"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/skillcoder/specctl/internal/logic/model"
)

// mergeDuplicates folds services without a workload into owned services with
// the same selector. A LoadBalancer on either side upgrades the owned service
// and the duplicate name is kept as an alias. Every unowned service is dropped
// with a diagnostic.
func (a *associator) mergeDuplicates(ctx context.Context) {
	kept := make([]model.Service, 0, len(a.services))

	var headless []model.Service

	for _, s := range a.services {
		if s.Owned() {
			kept = append(kept, s)
		} else {
			headless = append(headless, s)
		}
	}

	for _, h := range headless {
		if len(h.Selector) == 0 || h.Name == "" || h.Namespace == "" {
			a.reporter.Add(ctx, model.CategoryLookupMiss, h.Ref(), "headless service without selector dropped")

			continue
		}

		merged := false

		for i := range kept {
			o := &kept[i]
			if o.Namespace != h.Namespace || o.Name == h.Name ||
				len(o.Selector) != len(h.Selector) || !maps.Equal(o.Selector, h.Selector) {
				continue
			}

			if h.Kind == model.ServiceKindLoadBalancer || o.Kind == model.ServiceKindLoadBalancer {
				o.Kind = model.ServiceKindLoadBalancer
			}

			if !slices.Contains(o.Aliases, h.Name) {
				o.Aliases = append(o.Aliases, h.Name)
			}

			a.reporter.Add(ctx, model.CategoryLookupMiss, h.Ref(), "service dropped, merged into %s as alias", o.Name)

			merged = true
		}

		if !merged {
			a.reporter.Add(ctx, model.CategoryLookupMiss, h.Ref(), "no workload matches the selector, service dropped")
		}
	}

	a.services = kept
}

// bindIdentities carries an external role forward so no role is created.
func (a *associator) bindIdentities(ctx context.Context) {
	for i := range a.workloads {
		w := &a.workloads[i]
		if w.ServiceAccount == "" {
			continue
		}

		id, ok := a.identity(w.Namespace, w.ServiceAccount)
		if !ok {
			a.reporter.Add(ctx, model.CategoryLookupMiss, w.Ref(), "service account %s not found", w.ServiceAccount)

			continue
		}

		if id.RoleARN != "" {
			w.CreateTaskRole = false
			w.TaskRoleARN = id.RoleARN
		}
	}
}

func (a *associator) identity(namespace, name string) (model.Identity, bool) {
	for _, id := range a.identities {
		if id.Namespace == namespace && id.Name == name {
			return id, true
		}
	}

	return model.Identity{}, false
}

// bindNetworkPolicies applies group ids to workloads selected by identity or
// by pod labels. Policies are applied in namespace and name order; a later
// policy replaces the ids of an earlier one.
func (a *associator) bindNetworkPolicies() {
	for _, p := range a.policies {
		if len(p.GroupIDs) == 0 || (p.PodSelector == nil && p.IdentitySelector == nil) {
			continue
		}

		var identities []string

		if p.IdentitySelector != nil {
			for _, id := range a.identities {
				if id.Namespace == p.Namespace && SubsetMatch(p.IdentitySelector, id.Labels) {
					identities = append(identities, id.Name)
				}
			}
		}

		for i := range a.workloads {
			w := &a.workloads[i]
			if w.Namespace != p.Namespace {
				continue
			}

			byIdentity := w.ServiceAccount != "" && slices.Contains(identities, w.ServiceAccount)
			byPod := p.PodSelector != nil && SubsetMatch(p.PodSelector, w.PodLabels)

			if byIdentity || byPod {
				w.SecurityGroupIDs = slices.Clone(p.GroupIDs)
				w.CreateSecurityGroup = false
			}
		}
	}
}

// injectEnvironment expands whole-object imports. Config keys become literal
// values, secret keys become references to their parameter path. Names
// already set explicitly on the container are left alone.
func (a *associator) injectEnvironment(ctx context.Context) {
	for wi := range a.workloads {
		w := &a.workloads[wi]

		for ci := range w.Containers {
			c := &w.Containers[ci]

			for _, imp := range c.EnvImports {
				set, ok := a.paramSet(w.Namespace, imp.Source, imp.Name)
				if !ok {
					if !imp.Optional {
						a.reporter.Add(ctx, model.CategoryLookupMiss, w.Ref(),
							"container %s imports unknown %s %s", c.Name, imp.Source, imp.Name)
					}

					continue
				}

				for _, key := range set.Keys {
					envName := imp.Prefix + key
					if hasEnv(c, envName) {
						continue
					}

					if imp.Source == model.ParamSourceConfig {
						c.Environment = append(c.Environment, model.EnvVar{Name: envName, Value: set.Values[key]})
					} else {
						c.Secrets = append(c.Secrets, model.SecretRef{
							Name:      envName,
							ValueFrom: model.ParameterPath(set.Name, key),
						})
					}
				}
			}

			c.EnvImports = nil
		}
	}
}

func (a *associator) paramSet(namespace string, source model.ParamSource, name string) (model.ParamSet, bool) {
	for _, s := range a.params {
		if s.Namespace == namespace && s.Source == source && s.Name == name {
			return s, true
		}
	}

	return model.ParamSet{}, false
}

func hasEnv(c *model.Container, name string) bool {
	return slices.ContainsFunc(c.Environment, func(e model.EnvVar) bool { return e.Name == name }) ||
		slices.ContainsFunc(c.Secrets, func(s model.SecretRef) bool { return s.Name == name })
}

// resolvePorts binds service ports to the container declaring them. Named
// targets that no container declares are dropped from the service.
func (a *associator) resolvePorts(ctx context.Context) {
	for si := range a.services {
		svc := &a.services[si]

		w := a.owned(svc)
		if w == nil {
			continue
		}

		ports := make([]model.ServicePort, 0, len(svc.Ports))

		for _, p := range svc.Ports {
			if containerPort, container, ok := declaredPort(w, p.TargetPort); ok {
				p.ContainerPort = containerPort
				p.ContainerName = container
				p.Resolved = true
			}

			if !p.Resolved {
				a.reporter.Add(ctx, model.CategoryLookupMiss, svc.Ref(),
					"target port %s is not declared by any container of %s, port excluded", p.TargetPort.String(), w.Name)

				continue
			}

			ports = append(ports, p)
		}

		svc.Ports = ports
	}
}

func declaredPort(w *model.Workload, target intstr.IntOrString) (int32, string, bool) {
	for _, c := range w.Containers {
		for _, pm := range c.Ports {
			if target.Type == intstr.String && pm.Name != "" && pm.Name == target.StrVal {
				return pm.ContainerPort, c.Name, true
			}

			if target.Type == intstr.Int && pm.ContainerPort == target.IntVal {
				return pm.ContainerPort, c.Name, true
			}
		}
	}

	return 0, "", false
}

// deriveHealthChecks takes the load-balancer health check from the first
// container with an HTTP liveness probe.
func (a *associator) deriveHealthChecks() {
	h := a.settings.Health

	for si := range a.services {
		svc := &a.services[si]

		w := a.owned(svc)
		if w == nil {
			continue
		}

		for _, c := range w.Containers {
			if c.LivenessProbe == nil {
				continue
			}

			path := c.LivenessProbe.Path
			if path == "" {
				path = h.Path
			}

			for _, prefix := range h.CanonicalPrefixes {
				if strings.HasPrefix(path, prefix) {
					path = prefix

					break
				}
			}

			grace := c.LivenessProbe.InitialDelaySeconds
			if grace <= 0 {
				grace = int32(h.GracePeriod.Seconds())
			}

			svc.HealthCheckPath = path
			svc.HealthCheckGracePeriod = grace

			break
		}
	}
}

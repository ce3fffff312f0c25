package routing

import (
	"context"
	"fmt"

	"github.com/skillcoder/specctl/internal/logic/model"
	"github.com/skillcoder/specctl/internal/logic/report"
)

// TargetGroupKey is <group>-<service>-<namespace>-<targetPort>.
func TargetGroupKey(group, service, namespace string, port int32) string {
	return fmt.Sprintf("%s-%s-%s-%d", group, service, namespace, port)
}

// TargetGroupName is <service>-<namespace>-<targetPort>.
func TargetGroupName(service, namespace string, port int32) string {
	return fmt.Sprintf("%s-%s-%d", service, namespace, port)
}

// Bind resolves every rule backend against the associated services and
// synthesizes its target group. Rules whose backend cannot be resolved are
// removed from the topology.
func Bind(ctx context.Context, topo *model.Topology, services []model.Service, reporter *report.Reporter) {
	bound := topo.Rules[:0]

	for _, r := range topo.Rules {
		ref := model.ObjectRef{Kind: "Rule", Namespace: r.Namespace, Name: r.Name}

		svc := findOwned(services, r.Namespace, r.Backend.Service)
		if svc == nil {
			reporter.Add(ctx, model.CategoryLookupMiss, ref, "backend service %s not found, rule dropped", r.Backend.Service)

			continue
		}

		port, ok := backendPort(svc, r.Backend)
		if !ok {
			reporter.Add(ctx, model.CategoryLookupMiss, ref,
				"backend service %s has no resolved port %s, rule dropped", svc.Name, backendPortLabel(r.Backend))

			continue
		}

		key := TargetGroupKey(r.Group, svc.Name, svc.Namespace, port.ContainerPort)
		name := TargetGroupName(svc.Name, svc.Namespace, port.ContainerPort)

		if _, exists := topo.TargetGroups[key]; !exists {
			hc := r.HealthCheck
			if svc.HealthCheckPath != "" {
				hc.Path = svc.HealthCheckPath
			}

			topo.TargetGroups[key] = model.TargetGroup{
				Key:         key,
				Name:        name,
				Port:        port.ContainerPort,
				Protocol:    r.Protocol,
				HealthCheck: hc,
				Tags:        map[string]string{"key": key},
			}
		}

		r.TargetGroupKey = key
		svc.AddTargetGroup(name)
		bound = append(bound, r)
	}

	topo.Rules = bound
}

func findOwned(services []model.Service, namespace, name string) *model.Service {
	for i := range services {
		s := &services[i]
		if s.Owned() && s.Namespace == namespace && s.Name == name {
			return s
		}
	}

	return nil
}

func backendPort(svc *model.Service, b model.Backend) (model.ServicePort, bool) {
	for _, p := range svc.Ports {
		if !p.Resolved {
			continue
		}

		if b.PortNumber != 0 && p.Port == b.PortNumber {
			return p, true
		}

		if b.PortNumber == 0 && b.PortName != "" && p.Name == b.PortName {
			return p, true
		}
	}

	return model.ServicePort{}, false
}

func backendPortLabel(b model.Backend) string {
	if b.PortNumber != 0 {
		return fmt.Sprint(b.PortNumber)
	}

	return b.PortName
}

package normalize

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/skillcoder/specctl/internal/logic/model"
	"github.com/skillcoder/specctl/internal/logic/quantity"
)

const percentBase = 100

func (n *Normalizer) deployment(ctx context.Context, d *appsv1.Deployment) model.Workload {
	w := model.Workload{
		Name:              d.Name,
		Namespace:         namespaceOf(d.Namespace),
		Kind:              model.WorkloadKindDeployment,
		Replicas:          n.settings.Workload.Replicas,
		MinHealthyPercent: n.settings.Workload.MinHealthyPercent,
		MaxPercent:        n.settings.Workload.MaxPercent,
		Labels:            maps.Clone(d.Labels),
		PodLabels:         maps.Clone(d.Spec.Template.Labels),
	}

	if d.Spec.Replicas != nil {
		w.Replicas = *d.Spec.Replicas
	}

	if ru := d.Spec.Strategy.RollingUpdate; ru != nil {
		n.rollout(ctx, &w, ru)
	}

	n.podSpec(ctx, &w, &d.Spec.Template.Spec)

	return w
}

func (n *Normalizer) pod(ctx context.Context, p *corev1.Pod) model.Workload {
	w := model.Workload{
		Name:              p.Name,
		Namespace:         namespaceOf(p.Namespace),
		Kind:              model.WorkloadKindPod,
		Replicas:          n.settings.Workload.Replicas,
		MinHealthyPercent: n.settings.Workload.MinHealthyPercent,
		MaxPercent:        n.settings.Workload.MaxPercent,
		Labels:            maps.Clone(p.Labels),
		PodLabels:         maps.Clone(p.Labels),
	}

	n.podSpec(ctx, &w, &p.Spec)

	return w
}

// rollout maps rolling update bounds to healthy percentages. Only percentages
// have an equivalent; absolute counts keep the scheduler defaults.
func (n *Normalizer) rollout(ctx context.Context, w *model.Workload, ru *appsv1.RollingUpdateDeployment) {
	unavailable, ok := n.percent(ctx, w, "maxUnavailable", ru.MaxUnavailable, n.settings.Workload.MaxUnavailable)
	if ok {
		w.MinHealthyPercent = max(0, percentBase-unavailable)
	}

	surge, ok := n.percent(ctx, w, "maxSurge", ru.MaxSurge, n.settings.Workload.MaxSurge)
	if ok {
		w.MaxPercent = min(n.settings.Workload.MaxPercent, percentBase+surge)
	}
}

func (n *Normalizer) percent(
	ctx context.Context,
	w *model.Workload,
	field string,
	v *intstr.IntOrString,
	fallback string,
) (int, bool) {
	raw := fallback
	if v != nil {
		if v.Type == intstr.Int {
			n.reporter.Add(ctx, model.CategoryUnsupported, w.Ref(),
				"%s %d is an absolute count, using scheduler default", field, v.IntVal)

			return 0, false
		}

		raw = v.StrVal
	}

	pct, found := strings.CutSuffix(strings.TrimSpace(raw), "%")
	if !found {
		n.reporter.Add(ctx, model.CategoryUnsupported, w.Ref(),
			"%s %q is not a percentage, using scheduler default", field, raw)

		return 0, false
	}

	val, err := strconv.Atoi(pct)
	if err != nil {
		n.reporter.Add(ctx, model.CategoryShapeViolation, w.Ref(),
			"%s %q: %s", field, raw, err)

		return 0, false
	}

	return val, true
}

func (n *Normalizer) podSpec(ctx context.Context, w *model.Workload, spec *corev1.PodSpec) {
	w.ServiceAccount = spec.ServiceAccountName
	w.CreateTaskRole = true
	w.CreateSecurityGroup = true

	var deps []model.Dependency

	for i := range spec.InitContainers {
		if spec.InitContainers[i].Name == "" {
			continue
		}

		deps = append(deps, model.Dependency{
			ContainerName: spec.InitContainers[i].Name,
			Condition:     n.settings.Workload.InitContainerCondition,
		})
	}

	var total sizing

	for i := range spec.Containers {
		c, s := n.container(ctx, w, &spec.Containers[i])
		c.Essential = true
		c.DependsOn = slices.Clone(deps)
		total.add(s)
		w.Containers = append(w.Containers, c)
	}

	for i := range spec.InitContainers {
		c, s := n.container(ctx, w, &spec.InitContainers[i])
		c.Essential = false
		total.add(s)
		w.Containers = append(w.Containers, c)
	}

	capacity, err := n.settings.Tiers.Fit(total.cpu, total.memory)
	if err != nil {
		n.reporter.Add(ctx, model.CategoryCapacityInfeasible, w.Ref(),
			"cpu %d memory %d: %s", total.cpu, total.memory, err)

		return
	}

	w.Capacity = capacity
	w.Feasible = true
}

// sizing is the per-container contribution to the workload capacity.
type sizing struct {
	cpu    int64
	memory int64
}

func (s *sizing) add(o sizing) {
	s.cpu += o.cpu
	s.memory += o.memory
}

func (n *Normalizer) container(ctx context.Context, w *model.Workload, in *corev1.Container) (model.Container, sizing) {
	c := model.Container{
		Name:    in.Name,
		Image:   in.Image,
		Command: in.Command,
		Args:    in.Args,
	}

	n.checkImage(ctx, w, in)

	for _, p := range in.Ports {
		protocol := string(p.Protocol)
		if protocol == "" {
			protocol = n.settings.Workload.Protocol
		}

		c.Ports = append(c.Ports, model.PortMapping{
			Name:          p.Name,
			ContainerPort: p.ContainerPort,
			HostPort:      p.HostPort,
			Protocol:      protocol,
		})
	}

	n.environment(ctx, w, &c, in)

	if probe := in.LivenessProbe; probe != nil && probe.HTTPGet != nil {
		c.LivenessProbe = &model.HTTPProbe{
			Path:                probe.HTTPGet.Path,
			InitialDelaySeconds: probe.InitialDelaySeconds,
		}
	}

	return c, n.resources(ctx, w, &c, in.Resources)
}

func (n *Normalizer) checkImage(ctx context.Context, w *model.Workload, in *corev1.Container) {
	if in.Image == "" {
		n.reporter.Add(ctx, model.CategoryShapeViolation, w.Ref(), "container %s has no image", in.Name)

		return
	}

	if _, err := name.ParseReference(in.Image); err != nil {
		n.reporter.Add(ctx, model.CategoryShapeViolation, w.Ref(),
			"container %s image %q: %s", in.Name, in.Image, err)
	}
}

// resources converts requests and limits to scheduler units. The cpu limit
// only counts towards the workload size since containers have no cpu ceiling.
func (n *Normalizer) resources(
	ctx context.Context,
	w *model.Workload,
	c *model.Container,
	rr corev1.ResourceRequirements,
) sizing {
	var cpuLimit int64

	convert := func(list corev1.ResourceList, res corev1.ResourceName, conv func(any) (int64, error), dst *int64) {
		q, ok := list[res]
		if !ok {
			return
		}

		v, err := conv(q)
		if err != nil {
			n.reporter.Add(ctx, model.CategoryShapeViolation, w.Ref(),
				"container %s %s: %s", c.Name, res, err)

			return
		}

		*dst = v
	}

	convert(rr.Requests, corev1.ResourceCPU, quantity.CPUUnits, &c.CPU)
	convert(rr.Requests, corev1.ResourceMemory, quantity.MemUnits, &c.MemoryReservation)
	convert(rr.Limits, corev1.ResourceCPU, quantity.CPUUnits, &cpuLimit)
	convert(rr.Limits, corev1.ResourceMemory, quantity.MemUnits, &c.Memory)

	return sizing{
		cpu:    max(c.CPU, cpuLimit),
		memory: max(c.MemoryReservation, c.Memory),
	}
}

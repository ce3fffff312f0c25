package compose

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// Object file suffixes of the converted resources.
const (
	PartDeployment     = "deployment"
	PartService        = "service"
	PartServiceAccount = "service_account"
)

const selectorLabel = "app"

// Manifest is one converted object together with the compose service it
// came from.
type Manifest struct {
	Service string
	Part    string
	Object  runtime.Object
}

type Converter struct {
	logger *slog.Logger
	vars   Variables
}

func NewConverter(logger *slog.Logger, vars Variables) *Converter {
	return &Converter{
		logger: logger.With("component", "compose"),
		vars:   vars,
	}
}

// Convert maps every compose service to a Deployment, a ServiceAccount and,
// when it publishes ports, a Service. Malformed ports are skipped with a
// warning; the rest of the service is still converted.
func (c *Converter) Convert(ctx context.Context, project Project) []Manifest {
	out := make([]Manifest, 0, len(project.Services)*3)

	for i := range project.Services {
		out = append(out, c.service(ctx, &project.Services[i])...)
	}

	return out
}

func (c *Converter) service(ctx context.Context, svc *Service) []Manifest {
	logger := c.logger.With("service", svc.Name)
	name := Conform(svc.Name)

	labels := map[string]string{selectorLabel: name}
	maps.Copy(labels, svc.Labels)

	ports := c.ports(ctx, logger, svc)

	out := []Manifest{
		{Service: svc.Name, Part: PartDeployment, Object: c.deployment(ctx, svc, name, labels, ports)},
	}

	if service := c.clusterService(svc, name, labels, ports); service != nil {
		out = append(out, Manifest{Service: svc.Name, Part: PartService, Object: service})
	} else {
		logger.DebugContext(ctx, "no published ports, service skipped")
	}

	out = append(out, Manifest{Service: svc.Name, Part: PartServiceAccount, Object: &corev1.ServiceAccount{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: metav1.ObjectMeta{Name: name},
	}})

	return out
}

func (c *Converter) ports(ctx context.Context, logger *slog.Logger, svc *Service) []Port {
	out := make([]Port, 0, len(svc.Ports))

	for _, raw := range svc.Ports {
		p, err := ParsePort(Substitute(ctx, logger, raw, c.vars))
		if err != nil {
			logger.WarnContext(ctx, "port skipped", "reason", err)

			continue
		}

		out = append(out, p)
	}

	return out
}

func (c *Converter) deployment(
	ctx context.Context,
	svc *Service,
	name string,
	labels map[string]string,
	ports []Port,
) *appsv1.Deployment {
	image := svc.Image
	if image == "" {
		image = BuildImage(svc.Name)
	} else {
		image = Substitute(ctx, c.logger, image, c.vars)
	}

	container := corev1.Container{
		Name:    name,
		Image:   image,
		Command: slices.Clone(svc.Entrypoint),
		Args:    slices.Clone(svc.Command),
	}

	for _, p := range ports {
		container.Ports = append(container.Ports, corev1.ContainerPort{
			ContainerPort: p.ContainerPort,
			Protocol:      p.Protocol,
		})
	}

	for _, env := range svc.Environment {
		container.Env = append(container.Env, corev1.EnvVar{
			Name:  env.Name,
			Value: Substitute(ctx, c.logger, env.Value, c.vars),
		})
	}

	return &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec: appsv1.DeploymentSpec{
			Replicas: svc.Replicas,
			Selector: &metav1.LabelSelector{MatchLabels: maps.Clone(labels)},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: maps.Clone(labels)},
				Spec: corev1.PodSpec{
					ServiceAccountName: name,
					Containers:         []corev1.Container{container},
				},
			},
		},
	}
}

// clusterService returns nil when no port survives the expose filter.
func (c *Converter) clusterService(
	svc *Service,
	name string,
	labels map[string]string,
	ports []Port,
) *corev1.Service {
	spec := corev1.ServiceSpec{Selector: maps.Clone(labels)}

	for _, p := range ports {
		if len(svc.Expose) > 0 && !slices.Contains(svc.Expose, strconv.Itoa(int(p.ContainerPort))) {
			continue
		}

		spec.Ports = append(spec.Ports, corev1.ServicePort{
			Name:       portName(p),
			Port:       p.ServicePort,
			TargetPort: intstr.FromInt32(p.ContainerPort),
			Protocol:   p.Protocol,
		})
	}

	if len(spec.Ports) == 0 {
		return nil
	}

	if len(spec.Ports) == 1 {
		spec.Ports[0].Name = ""
	}

	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{Name: name, Labels: maps.Clone(labels)},
		Spec:       spec,
	}
}

// Multi-port services need unique port names.
func portName(p Port) string {
	return fmt.Sprintf("%s-%d", Conform(string(p.Protocol)), p.ServicePort)
}

package normalize

import (
	"context"

	corev1 "k8s.io/api/core/v1"

	"github.com/skillcoder/specctl/internal/logic/model"
)

// environment splits container env into literal values and parameter
// references. Whole-object imports are kept for association.
func (n *Normalizer) environment(ctx context.Context, w *model.Workload, c *model.Container, in *corev1.Container) {
	for _, ev := range in.Env {
		if ev.Name == "" {
			continue
		}

		from := ev.ValueFrom
		if from == nil {
			c.Environment = append(c.Environment, model.EnvVar{Name: ev.Name, Value: ev.Value})

			continue
		}

		switch {
		case from.ConfigMapKeyRef != nil:
			c.Secrets = append(c.Secrets, model.SecretRef{
				Name:      ev.Name,
				ValueFrom: model.ParameterPath(from.ConfigMapKeyRef.Name, from.ConfigMapKeyRef.Key),
			})
		case from.SecretKeyRef != nil:
			c.Secrets = append(c.Secrets, model.SecretRef{
				Name:      ev.Name,
				ValueFrom: model.ParameterPath(from.SecretKeyRef.Name, from.SecretKeyRef.Key),
			})
		default:
			n.reporter.Add(ctx, model.CategoryUnsupported, w.Ref(),
				"container %s env %s: only config and secret key references are supported", c.Name, ev.Name)
		}
	}

	for _, ef := range in.EnvFrom {
		switch {
		case ef.ConfigMapRef != nil:
			c.EnvImports = append(c.EnvImports, model.EnvImport{
				Source:   model.ParamSourceConfig,
				Name:     ef.ConfigMapRef.Name,
				Prefix:   ef.Prefix,
				Optional: ef.ConfigMapRef.Optional != nil && *ef.ConfigMapRef.Optional,
			})
		case ef.SecretRef != nil:
			c.EnvImports = append(c.EnvImports, model.EnvImport{
				Source:   model.ParamSourceSecret,
				Name:     ef.SecretRef.Name,
				Prefix:   ef.Prefix,
				Optional: ef.SecretRef.Optional != nil && *ef.SecretRef.Optional,
			})
		default:
			n.reporter.Add(ctx, model.CategoryShapeViolation, w.Ref(),
				"container %s has an envFrom entry without a source", c.Name)
		}
	}
}

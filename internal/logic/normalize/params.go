package normalize

import (
	"context"
	"encoding/base64"
	"maps"
	"slices"

	corev1 "k8s.io/api/core/v1"

	"github.com/skillcoder/specctl/internal/logic/model"
)

func (n *Normalizer) configMap(ctx context.Context, cm *corev1.ConfigMap) ([]model.Parameter, model.ParamSet) {
	set := model.ParamSet{
		Name:      cm.Name,
		Namespace: namespaceOf(cm.Namespace),
		Source:    model.ParamSourceConfig,
		Keys:      slices.Sorted(maps.Keys(cm.Data)),
		Values:    maps.Clone(cm.Data),
	}

	if len(cm.BinaryData) > 0 {
		n.reporter.Add(ctx, model.CategoryUnsupported,
			model.ObjectRef{Kind: "ConfigMap", Namespace: set.Namespace, Name: cm.Name},
			"binaryData keys are not exported",
		)
	}

	params := make([]model.Parameter, 0, len(set.Keys))
	for _, k := range set.Keys {
		params = append(params, model.Parameter{
			Path:  model.ParameterPath(cm.Name, k),
			Value: cm.Data[k],
		})
	}

	return params, set
}

// secret carries every value as base64. stringData wins over data for the
// same key, as the API server does on write.
func (n *Normalizer) secret(s *corev1.Secret) ([]model.Parameter, model.ParamSet) {
	values := make(map[string]string, len(s.Data)+len(s.StringData))

	for k, v := range s.Data {
		values[k] = base64.StdEncoding.EncodeToString(v)
	}

	for k, v := range s.StringData {
		values[k] = base64.StdEncoding.EncodeToString([]byte(v))
	}

	set := model.ParamSet{
		Name:      s.Name,
		Namespace: namespaceOf(s.Namespace),
		Source:    model.ParamSourceSecret,
		Keys:      slices.Sorted(maps.Keys(values)),
	}

	params := make([]model.Parameter, 0, len(set.Keys))
	for _, k := range set.Keys {
		params = append(params, model.Parameter{
			Path:   model.ParameterPath(s.Name, k),
			Value:  values[k],
			Secret: true,
		})
	}

	return params, set
}

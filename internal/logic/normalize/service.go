package normalize

import (
	"context"
	"maps"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/skillcoder/specctl/internal/logic/manifest"
	"github.com/skillcoder/specctl/internal/logic/model"
)

func (n *Normalizer) service(ctx context.Context, s *corev1.Service) (model.Service, bool) {
	svc := model.Service{
		Name:      s.Name,
		Namespace: namespaceOf(s.Namespace),
		Selector:  maps.Clone(s.Spec.Selector),
		Labels:    maps.Clone(s.Labels),
		Kind:      model.ServiceKindClusterIP,
		Workload:  model.NoWorkload,
	}

	switch s.Spec.Type {
	case "", corev1.ServiceTypeClusterIP:
	case corev1.ServiceTypeLoadBalancer:
		svc.Kind = model.ServiceKindLoadBalancer
	case corev1.ServiceTypeNodePort:
		n.reporter.Add(ctx, model.CategoryUnsupported, svc.Ref(), "NodePort is treated as ClusterIP")
	default:
		n.reporter.Add(ctx, model.CategoryUnsupported, svc.Ref(), "service type %s has no equivalent, skipped", s.Spec.Type)

		return model.Service{}, false
	}

	for _, p := range s.Spec.Ports {
		sp := model.ServicePort{
			Name:       p.Name,
			Port:       p.Port,
			TargetPort: p.TargetPort,
			Protocol:   string(p.Protocol),
		}

		if sp.Protocol == "" {
			sp.Protocol = n.settings.Workload.Protocol
		}

		if sp.TargetPort.Type == intstr.Int && sp.TargetPort.IntVal == 0 {
			sp.TargetPort = intstr.FromInt32(p.Port)
		}

		if sp.TargetPort.Type == intstr.Int {
			sp.ContainerPort = sp.TargetPort.IntVal
			sp.Resolved = true
		}

		svc.Ports = append(svc.Ports, sp)
	}

	return svc, true
}

func (n *Normalizer) serviceAccount(sa *corev1.ServiceAccount) model.Identity {
	return model.Identity{
		Name:      sa.Name,
		Namespace: namespaceOf(sa.Namespace),
		Labels:    maps.Clone(sa.Labels),
		RoleARN:   sa.Annotations[n.settings.Identity.RoleARNAnnotation],
	}
}

// securityGroupPolicy keeps the distinction between an absent selector (nil)
// and a selector matching everything (empty, non-nil).
func securityGroupPolicy(p *manifest.SecurityGroupPolicy) model.NetworkPolicy {
	return model.NetworkPolicy{
		Name:             p.Name,
		Namespace:        namespaceOf(p.Namespace),
		PodSelector:      matchLabels(p.Spec.PodSelector),
		IdentitySelector: matchLabels(p.Spec.ServiceAccountSelector),
		GroupIDs:         p.Spec.SecurityGroups.Groups,
	}
}

func matchLabels(sel *metav1.LabelSelector) map[string]string {
	if sel == nil {
		return nil
	}

	if sel.MatchLabels == nil {
		return map[string]string{}
	}

	return maps.Clone(sel.MatchLabels)
}

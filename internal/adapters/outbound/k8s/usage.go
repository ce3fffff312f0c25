package k8s

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
)

var usageResources = []corev1.ResourceName{corev1.ResourceCPU, corev1.ResourceMemory}

// fillRequests sets missing cpu and memory requests of deps to the peak
// usage observed across their running pods. Explicit requests are kept.
func (s *Source) fillRequests(ctx context.Context, ns string, deps []*appsv1.Deployment) {
	if !s.opts.ObservedUsage || s.clients.Metrics == nil || len(deps) == 0 {
		return
	}

	list, err := s.clients.Metrics.MetricsV1beta1().PodMetricses(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		s.logger.WarnContext(ctx, "observed usage unavailable", "namespace", ns, "reason", err)

		return
	}

	for _, dep := range deps {
		if dep.Spec.Selector == nil {
			continue
		}

		selector, err := metav1.LabelSelectorAsSelector(dep.Spec.Selector)
		if err != nil {
			continue
		}

		usage := peakUsage(list.Items, selector)

		containers := dep.Spec.Template.Spec.Containers
		for i := range containers {
			c := &containers[i]

			observed, ok := usage[c.Name]
			if !ok {
				continue
			}

			for _, res := range usageResources {
				if _, set := c.Resources.Requests[res]; set {
					continue
				}

				q, ok := observed[res]
				if !ok || q.IsZero() {
					continue
				}

				if c.Resources.Requests == nil {
					c.Resources.Requests = corev1.ResourceList{}
				}

				c.Resources.Requests[res] = q.DeepCopy()

				s.logger.DebugContext(ctx, "request filled from observed usage",
					"namespace", ns,
					"deployment", dep.Name,
					"container", c.Name,
					"resource", res,
					"value", q.String(),
				)
			}
		}
	}
}

func peakUsage(pods []metricsv1beta1.PodMetrics, selector labels.Selector) map[string]corev1.ResourceList {
	out := make(map[string]corev1.ResourceList)

	for i := range pods {
		if !selector.Matches(labels.Set(pods[i].Labels)) {
			continue
		}

		for _, c := range pods[i].Containers {
			peak, ok := out[c.Name]
			if !ok {
				peak = corev1.ResourceList{}
				out[c.Name] = peak
			}

			for res, q := range c.Usage {
				if prev, ok := peak[res]; !ok || q.Cmp(prev) > 0 {
					peak[res] = q.DeepCopy()
				}
			}
		}
	}

	return out
}

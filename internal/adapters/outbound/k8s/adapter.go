// Package k8s reads the objects of a live cluster for translation.
package k8s

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/skillcoder/specctl/internal/logic/manifest"
	"github.com/skillcoder/specctl/internal/logic/translator"
)

const (
	lastAppliedAnnotation = "kubectl.kubernetes.io/last-applied-configuration"
	systemPrefix          = "kube-"
)

type Options struct {
	// Namespaces limits the listing; empty means every namespace.
	Namespaces []string

	// ObservedUsage fills missing container requests from metrics.k8s.io.
	ObservedUsage bool
}

type Source struct {
	logger  *slog.Logger
	clients *Clients
	opts    Options
}

func New(logger *slog.Logger, clients *Clients, opts Options) *Source {
	return &Source{
		logger:  logger.With("component", "cluster-source"),
		clients: clients,
		opts:    opts,
	}
}

var _ translator.Source = (*Source)(nil)

type object interface {
	metav1.Object
	runtime.Object
}

// batch keeps objects grouped by kind so the result lists every service
// before every deployment and so on, across namespaces.
type batch struct {
	services        []runtime.Object
	deployments     []runtime.Object
	secrets         []runtime.Object
	configMaps      []runtime.Object
	ingresses       []runtime.Object
	serviceAccounts []runtime.Object
	groupPolicies   []runtime.Object
}

func (b *batch) objects() []runtime.Object {
	return slices.Concat(
		b.services,
		b.deployments,
		b.secrets,
		b.configMaps,
		b.ingresses,
		b.serviceAccounts,
		b.groupPolicies,
	)
}

// ListObjectsQuery lists the supported objects of every selected namespace.
// System namespaces are skipped. An object carrying the last applied
// configuration is replaced by that configuration.
func (s *Source) ListObjectsQuery(ctx context.Context) ([]runtime.Object, error) {
	namespaces, err := s.namespaces(ctx)
	if err != nil {
		return nil, err
	}

	var b batch

	for _, ns := range namespaces {
		if strings.HasPrefix(ns, systemPrefix) {
			s.logger.DebugContext(ctx, "system namespace skipped", "namespace", ns)

			continue
		}

		if err := s.listNamespace(ctx, ns, &b); err != nil {
			return nil, err
		}
	}

	return b.objects(), nil
}

func (s *Source) namespaces(ctx context.Context) ([]string, error) {
	list, err := s.clients.Core.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: namespaces: %w", ErrList, err)
	}

	all := make([]string, 0, len(list.Items))
	for i := range list.Items {
		all = append(all, list.Items[i].Name)
	}

	slices.Sort(all)

	if len(s.opts.Namespaces) == 0 {
		return all, nil
	}

	out := make([]string, 0, len(s.opts.Namespaces))

	for _, ns := range s.opts.Namespaces {
		if !slices.Contains(all, ns) {
			s.logger.WarnContext(ctx, "namespace not found in cluster", "namespace", ns)

			continue
		}

		out = append(out, ns)
	}

	if len(out) == 0 {
		return nil, &NamespaceNotFoundError{Namespaces: s.opts.Namespaces}
	}

	return out, nil
}

func (s *Source) listNamespace(ctx context.Context, ns string, b *batch) error {
	opts := metav1.ListOptions{}
	core := s.clients.Core

	services, err := core.CoreV1().Services(ns).List(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: services in %s: %w", ErrList, ns, err)
	}

	for i := range services.Items {
		b.services = append(b.services, s.applied(ctx, &services.Items[i], corev1.SchemeGroupVersion.WithKind(manifest.KindService)))
	}

	deployments, err := core.AppsV1().Deployments(ns).List(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: deployments in %s: %w", ErrList, ns, err)
	}

	typed := make([]*appsv1.Deployment, 0, len(deployments.Items))

	for i := range deployments.Items {
		obj := s.applied(ctx, &deployments.Items[i], appsv1.SchemeGroupVersion.WithKind(manifest.KindDeployment))
		if dep, ok := obj.(*appsv1.Deployment); ok {
			typed = append(typed, dep)
		}

		b.deployments = append(b.deployments, obj)
	}

	s.fillRequests(ctx, ns, typed)

	secrets, err := core.CoreV1().Secrets(ns).List(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: secrets in %s: %w", ErrList, ns, err)
	}

	for i := range secrets.Items {
		b.secrets = append(b.secrets, s.applied(ctx, &secrets.Items[i], corev1.SchemeGroupVersion.WithKind(manifest.KindSecret)))
	}

	configMaps, err := core.CoreV1().ConfigMaps(ns).List(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: configmaps in %s: %w", ErrList, ns, err)
	}

	for i := range configMaps.Items {
		b.configMaps = append(b.configMaps, s.applied(ctx, &configMaps.Items[i], corev1.SchemeGroupVersion.WithKind(manifest.KindConfigMap)))
	}

	ingresses, err := core.NetworkingV1().Ingresses(ns).List(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: ingresses in %s: %w", ErrList, ns, err)
	}

	for i := range ingresses.Items {
		b.ingresses = append(b.ingresses, s.applied(ctx, &ingresses.Items[i], networkingv1.SchemeGroupVersion.WithKind(manifest.KindIngress)))
	}

	accounts, err := core.CoreV1().ServiceAccounts(ns).List(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: service accounts in %s: %w", ErrList, ns, err)
	}

	for i := range accounts.Items {
		b.serviceAccounts = append(b.serviceAccounts, s.applied(ctx, &accounts.Items[i], corev1.SchemeGroupVersion.WithKind(manifest.KindServiceAccount)))
	}

	policies, err := s.groupPolicies(ctx, ns)
	if err != nil {
		return err
	}

	b.groupPolicies = append(b.groupPolicies, policies...)

	s.logger.InfoContext(ctx, "namespace listed",
		"namespace", ns,
		"services", len(services.Items),
		"deployments", len(deployments.Items),
		"secrets", len(secrets.Items),
		"configmaps", len(configMaps.Items),
		"ingresses", len(ingresses.Items),
		"serviceAccounts", len(accounts.Items),
		"securityGroupPolicies", len(policies),
	)

	return nil
}

// groupPolicies returns nothing when the cluster does not serve the
// SecurityGroupPolicy resource.
func (s *Source) groupPolicies(ctx context.Context, ns string) ([]runtime.Object, error) {
	if s.clients.Dynamic == nil {
		return nil, nil
	}

	list, err := s.clients.Dynamic.Resource(manifest.SecurityGroupPolicyGVR).Namespace(ns).List(ctx, metav1.ListOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			s.logger.DebugContext(ctx, "security group policies not served", "namespace", ns)

			return nil, nil
		}

		return nil, fmt.Errorf("%w: security group policies in %s: %w", ErrList, ns, err)
	}

	gvk := schema.GroupVersionKind{
		Group:   manifest.SecurityGroupPolicyGVR.Group,
		Version: manifest.SecurityGroupPolicyGVR.Version,
		Kind:    manifest.KindSecurityGroupPolicy,
	}

	out := make([]runtime.Object, 0, len(list.Items))

	for i := range list.Items {
		obj := s.applied(ctx, &list.Items[i], gvk)

		if u, ok := obj.(*unstructured.Unstructured); ok {
			obj = manifest.DecodeOrReject(u)
		}

		out = append(out, obj)
	}

	return out, nil
}

// applied prefers the last applied configuration of live. The live object
// is used when the annotation is absent or does not decode to one object.
func (s *Source) applied(ctx context.Context, live object, gvk schema.GroupVersionKind) runtime.Object {
	if cfg, ok := live.GetAnnotations()[lastAppliedAnnotation]; ok {
		objs, err := manifest.ParseString(cfg)

		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "last applied configuration ignored",
				"kind", gvk.Kind,
				"namespace", live.GetNamespace(),
				"name", live.GetName(),
				"reason", err,
			)
		case len(objs) != 1:
			s.logger.WarnContext(ctx, "last applied configuration ignored",
				"kind", gvk.Kind,
				"namespace", live.GetNamespace(),
				"name", live.GetName(),
				"documents", len(objs),
			)
		case isRejected(objs[0]):
			s.logger.WarnContext(ctx, "last applied configuration ignored",
				"kind", gvk.Kind,
				"namespace", live.GetNamespace(),
				"name", live.GetName(),
				"reason", objs[0].(*manifest.Rejected).Err,
			)
		default:
			if m, err := apimeta.Accessor(objs[0]); err == nil && m.GetNamespace() == "" {
				m.SetNamespace(live.GetNamespace())
			}

			return objs[0]
		}
	}

	live.SetManagedFields(nil)
	live.GetObjectKind().SetGroupVersionKind(gvk)

	return live
}

func isRejected(obj runtime.Object) bool {
	_, ok := obj.(*manifest.Rejected)

	return ok
}

func (s *Source) Name() string {
	return "kubernetes"
}

// Ping checks that the API server answers a minimal namespace list.
func (s *Source) Ping(ctx context.Context) error {
	_, err := s.clients.Core.CoreV1().Namespaces().List(ctx, metav1.ListOptions{Limit: 1})
	if err != nil {
		return fmt.Errorf("ping api server: %w", err)
	}

	return nil
}

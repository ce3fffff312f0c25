package k8s_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
	metricsfake "k8s.io/metrics/pkg/client/clientset/versioned/fake"

	"github.com/skillcoder/specctl/internal/adapters/outbound/k8s"
	"github.com/skillcoder/specctl/internal/logic/manifest"
)

func namespace(name string) *corev1.Namespace {
	return &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: name}}
}

func deployment(ns, name string) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Namespace: ns, Name: name},
		Spec: appsv1.DeploymentSpec{
			Selector: &metav1.LabelSelector{MatchLabels: map[string]string{"app": name}},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: map[string]string{"app": name}},
				Spec: corev1.PodSpec{Containers: []corev1.Container{{
					Name:  "app",
					Image: "repo/" + name,
					Resources: corev1.ResourceRequirements{Requests: corev1.ResourceList{
						corev1.ResourceMemory: resource.MustParse("256Mi"),
					}},
				}}},
			},
		},
	}
}

func newDynamic(objs ...runtime.Object) *dynamicfake.FakeDynamicClient {
	return dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		runtime.NewScheme(),
		map[schema.GroupVersionResource]string{manifest.SecurityGroupPolicyGVR: "SecurityGroupPolicyList"},
		objs...,
	)
}

func kinds(objs []runtime.Object) []string {
	out := make([]string, 0, len(objs))
	for _, o := range objs {
		out = append(out, manifest.KindOf(o))
	}

	return out
}

func TestSource_ListObjectsQuery(t *testing.T) {
	t.Parallel()

	applied := `{"apiVersion":"v1","kind":"Service","metadata":{"name":"api"},` +
		`"spec":{"selector":{"app":"api"},"ports":[{"port":80}]}}`

	core := fake.NewSimpleClientset(
		namespace("shop"),
		namespace("kube-system"),
		&corev1.Service{
			ObjectMeta: metav1.ObjectMeta{
				Namespace:   "shop",
				Name:        "api",
				Annotations: map[string]string{"kubectl.kubernetes.io/last-applied-configuration": applied},
			},
			Spec: corev1.ServiceSpec{ClusterIP: "10.0.0.1", Selector: map[string]string{"app": "api"}},
		},
		&corev1.Service{ObjectMeta: metav1.ObjectMeta{Namespace: "kube-system", Name: "kube-dns"}},
		deployment("shop", "api"),
		&corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Namespace: "shop", Name: "cfg"}, Data: map[string]string{"A": "1"}},
		&corev1.ServiceAccount{ObjectMeta: metav1.ObjectMeta{Namespace: "shop", Name: "api"}},
	)

	sgp := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "vpcresources.k8s.aws/v1beta1",
		"kind":       "SecurityGroupPolicy",
		"metadata":   map[string]any{"namespace": "shop", "name": "api-sg"},
		"spec": map[string]any{
			"podSelector":    map[string]any{"matchLabels": map[string]any{"app": "api"}},
			"securityGroups": map[string]any{"groupIds": []any{"sg-1"}},
		},
	}}

	src := k8s.New(slog.Default(), &k8s.Clients{Core: core, Dynamic: newDynamic(sgp)}, k8s.Options{})

	got, err := src.ListObjectsQuery(t.Context())
	require.NoError(t, err)
	require.Equal(t, []string{
		manifest.KindService,
		manifest.KindDeployment,
		manifest.KindConfigMap,
		manifest.KindServiceAccount,
		manifest.KindSecurityGroupPolicy,
	}, kinds(got))

	svc, ok := got[0].(*corev1.Service)
	require.True(t, ok)
	require.Equal(t, "shop", svc.Namespace)
	require.Empty(t, svc.Spec.ClusterIP)
	require.Equal(t, int32(80), svc.Spec.Ports[0].Port)

	dep, ok := got[1].(*appsv1.Deployment)
	require.True(t, ok)
	require.Equal(t, "Deployment", dep.Kind)

	policy, ok := got[4].(*manifest.SecurityGroupPolicy)
	require.True(t, ok)
	require.Equal(t, []string{"sg-1"}, policy.Spec.SecurityGroups.Groups)
}

func TestSource_NamespaceFilter(t *testing.T) {
	t.Parallel()

	core := fake.NewSimpleClientset(
		namespace("shop"),
		namespace("billing"),
		deployment("shop", "api"),
		deployment("billing", "ledger"),
	)
	clients := &k8s.Clients{Core: core, Dynamic: newDynamic()}

	got, err := k8s.New(slog.Default(), clients, k8s.Options{Namespaces: []string{"billing", "missing"}}).
		ListObjectsQuery(t.Context())
	require.NoError(t, err)
	require.Len(t, got, 1)

	dep, ok := got[0].(*appsv1.Deployment)
	require.True(t, ok)
	require.Equal(t, "ledger", dep.Name)

	_, err = k8s.New(slog.Default(), clients, k8s.Options{Namespaces: []string{"missing"}}).
		ListObjectsQuery(t.Context())

	var nf *k8s.NamespaceNotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, []string{"missing"}, nf.Namespaces)
}

func TestSource_ObservedUsage(t *testing.T) {
	t.Parallel()

	core := fake.NewSimpleClientset(namespace("shop"), deployment("shop", "api"))

	usage := func(pod, cpu, mem string) metricsv1beta1.PodMetrics {
		return metricsv1beta1.PodMetrics{
			ObjectMeta: metav1.ObjectMeta{Namespace: "shop", Name: pod, Labels: map[string]string{"app": "api"}},
			Containers: []metricsv1beta1.ContainerMetrics{{
				Name: "app",
				Usage: corev1.ResourceList{
					corev1.ResourceCPU:    resource.MustParse(cpu),
					corev1.ResourceMemory: resource.MustParse(mem),
				},
			}},
		}
	}

	metrics := metricsfake.NewSimpleClientset()
	metrics.PrependReactor("list", "pods", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, &metricsv1beta1.PodMetricsList{Items: []metricsv1beta1.PodMetrics{
			usage("api-1", "120m", "100Mi"),
			usage("api-2", "300m", "90Mi"),
		}}, nil
	})

	clients := &k8s.Clients{Core: core, Dynamic: newDynamic(), Metrics: metrics}

	got, err := k8s.New(slog.Default(), clients, k8s.Options{ObservedUsage: true}).ListObjectsQuery(t.Context())
	require.NoError(t, err)
	require.Len(t, got, 1)

	dep, ok := got[0].(*appsv1.Deployment)
	require.True(t, ok)

	requests := dep.Spec.Template.Spec.Containers[0].Resources.Requests
	require.Equal(t, "300m", requests.Cpu().String())
	require.Equal(t, "256Mi", requests.Memory().String())
}

func TestSource_Ping(t *testing.T) {
	t.Parallel()

	core := fake.NewSimpleClientset(namespace("shop"))
	src := k8s.New(slog.Default(), &k8s.Clients{Core: core, Dynamic: newDynamic()}, k8s.Options{})

	require.Equal(t, "kubernetes", src.Name())
	require.NoError(t, src.Ping(t.Context()))

	core.PrependReactor("list", "namespaces", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})

	require.ErrorContains(t, src.Ping(t.Context()), "connection refused")
}

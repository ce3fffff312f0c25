package association_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/skillcoder/specctl/internal/logic/association"
	"github.com/skillcoder/specctl/internal/logic/model"
	"github.com/skillcoder/specctl/internal/logic/report"
	"github.com/skillcoder/specctl/internal/logic/settings"
)

func TestSubsetMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		giveSelector map[string]string
		giveLabels   map[string]string
		want         bool
	}{
		{name: "empty selector", giveSelector: map[string]string{}, giveLabels: map[string]string{"a": "1"}, want: true},
		{name: "nil selector nil labels", want: true},
		{name: "subset", giveSelector: map[string]string{"a": "1"}, giveLabels: map[string]string{"a": "1", "b": "2"}, want: true},
		{name: "equal", giveSelector: map[string]string{"a": "1", "b": "2"}, giveLabels: map[string]string{"a": "1", "b": "2"}, want: true},
		{name: "value differs", giveSelector: map[string]string{"a": "1"}, giveLabels: map[string]string{"a": "2"}},
		{name: "key missing", giveSelector: map[string]string{"c": "1"}, giveLabels: map[string]string{"a": "1"}},
		{name: "labels empty", giveSelector: map[string]string{"a": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, association.SubsetMatch(tt.giveSelector, tt.giveLabels))
		})
	}
}

func workload(ns, name string, podLabels map[string]string, containers ...model.Container) model.Workload {
	return model.Workload{
		Name:                name,
		Namespace:           ns,
		Kind:                model.WorkloadKindDeployment,
		PodLabels:           podLabels,
		Containers:          containers,
		CreateTaskRole:      true,
		CreateSecurityGroup: true,
	}
}

func service(ns, name string, selector map[string]string, ports ...model.ServicePort) model.Service {
	return model.Service{
		Name:      name,
		Namespace: ns,
		Selector:  selector,
		Kind:      model.ServiceKindClusterIP,
		Ports:     ports,
		Workload:  model.NoWorkload,
	}
}

func run(t *testing.T, in association.Input) (association.Result, *report.Reporter) {
	t.Helper()

	rep := report.New(slog.Default())

	return association.Run(t.Context(), in, settings.Default(), rep), rep
}

// pairs maps service name to owned workload name.
func pairs(res association.Result) map[string]string {
	out := map[string]string{}

	for _, s := range res.Services {
		if s.Owned() {
			out[s.Namespace+"/"+s.Name] = res.Workloads[s.Workload].Name
		}
	}

	return out
}

func TestRun_SelectorMatching(t *testing.T) {
	t.Parallel()

	in := association.Input{
		Workloads: []model.Workload{
			workload("ns", "zeta", map[string]string{"app": "web"}),
			workload("ns", "alpha", map[string]string{"app": "web", "track": "canary"}),
			workload("other", "alpha", map[string]string{"app": "web"}),
			workload("ns", "worker", map[string]string{"app": "worker"}),
			workload("ns", "legacy", nil),
		},
		Services: []model.Service{
			service("ns", "web", map[string]string{"app": "web"}),
			service("ns", "legacy", map[string]string{"app": "gone"}),
		},
	}

	res, rep := run(t, in)

	require.Equal(t, map[string]string{
		"ns/web":      "alpha",
		"ns/legacy":   "legacy",
		"ns/worker":   "worker",
		"ns/zeta":     "zeta",
		"other/alpha": "alpha",
	}, pairs(res))

	synthetic := 0
	for _, s := range res.Services {
		if s.Synthetic {
			synthetic++
		}
	}

	require.Equal(t, 3, synthetic)
	// the tie between alpha and zeta for ns/web is reported
	require.Equal(t, 1, rep.Count(model.CategoryLookupMiss))

	again, _ := run(t, in)
	require.Equal(t, pairs(res), pairs(again))
	require.Equal(t, model.NoWorkload, in.Services[0].Workload)

	t.Run("empty selector matches any workload of the namespace", func(t *testing.T) {
		t.Parallel()

		res, rep := run(t, association.Input{
			Workloads: []model.Workload{
				workload("edge", "cache", map[string]string{"app": "y"}),
				workload("edge", "backend", map[string]string{"app": "x"}),
				workload("far", "other", map[string]string{"app": "x"}),
			},
			Services: []model.Service{service("edge", "front", map[string]string{})},
		})

		require.Equal(t, map[string]string{
			"edge/front": "backend",
			"edge/cache": "cache",
			"far/other":  "other",
		}, pairs(res))
		// cache also matches the empty selector
		require.Equal(t, 1, rep.Count(model.CategoryLookupMiss))
	})
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	in := association.Input{
		Workloads: []model.Workload{
			workload("a", "api", map[string]string{"app": "api"}),
			workload("a", "db", map[string]string{"app": "db"}),
			workload("b", "api", map[string]string{"app": "api"}),
		},
		Services: []model.Service{
			service("b", "api", map[string]string{"app": "api"}),
			service("a", "db", map[string]string{"app": "db"}),
			service("a", "api", map[string]string{"app": "api"}),
		},
	}

	first, _ := run(t, in)

	reversed := association.Input{
		Workloads: []model.Workload{in.Workloads[2], in.Workloads[1], in.Workloads[0]},
		Services:  []model.Service{in.Services[2], in.Services[1], in.Services[0]},
	}
	second, _ := run(t, reversed)

	require.Equal(t, pairs(first), pairs(second))
	require.Len(t, pairs(first), 3)
}

func TestRun_DuplicateMerge(t *testing.T) {
	t.Parallel()

	lb := service("ns", "web-public", map[string]string{"app": "web"})
	lb.Kind = model.ServiceKindLoadBalancer

	res, rep := run(t, association.Input{
		Workloads: []model.Workload{workload("ns", "web", map[string]string{"app": "web"})},
		Services: []model.Service{
			service("ns", "web", map[string]string{"app": "web"}),
			lb,
			service("empty", "nothing", nil),
			service("ns", "stray", map[string]string{"app": "none"}),
		},
	})

	require.Len(t, res.Services, 1)

	web := res.Services[0]
	require.Equal(t, "web", web.Name)
	require.Equal(t, model.ServiceKindLoadBalancer, web.Kind)
	require.Equal(t, []string{"web-public"}, web.Aliases)

	messages := map[string]string{}
	for _, d := range rep.Diagnostics() {
		require.Equal(t, model.CategoryLookupMiss, d.Category)
		messages[d.Object.Name] = d.Message
	}

	require.Equal(t, map[string]string{
		"web-public": "service dropped, merged into web as alias",
		"nothing":    "headless service without selector dropped",
		"stray":      "no workload matches the selector, service dropped",
	}, messages)
}

func TestRun_IdentityAndPolicies(t *testing.T) {
	t.Parallel()

	api := workload("ns", "api", map[string]string{"app": "api"})
	api.ServiceAccount = "api-sa"

	batch := workload("ns", "batch", map[string]string{"app": "batch", "sg": "on"})
	batch.ServiceAccount = "missing-sa"

	plain := workload("ns", "plain", map[string]string{"app": "plain"})

	res, rep := run(t, association.Input{
		Workloads: []model.Workload{api, batch, plain},
		Identities: []model.Identity{
			{Name: "api-sa", Namespace: "ns", Labels: map[string]string{"role": "api"}, RoleARN: "arn:role/api"},
			{Name: "api-sa", Namespace: "elsewhere", Labels: map[string]string{"role": "api"}},
		},
		Policies: []model.NetworkPolicy{
			{Name: "by-identity", Namespace: "ns", IdentitySelector: map[string]string{"role": "api"}, GroupIDs: []string{"sg-api"}},
			{Name: "by-pod", Namespace: "ns", PodSelector: map[string]string{"sg": "on"}, GroupIDs: []string{"sg-pod"}},
			{Name: "empty-ids", Namespace: "ns", PodSelector: map[string]string{}},
		},
	})

	byName := map[string]model.Workload{}
	for _, w := range res.Workloads {
		byName[w.Name] = w
	}

	require.False(t, byName["api"].CreateTaskRole)
	require.Equal(t, "arn:role/api", byName["api"].TaskRoleARN)
	require.Equal(t, []string{"sg-api"}, byName["api"].SecurityGroupIDs)
	require.False(t, byName["api"].CreateSecurityGroup)

	require.True(t, byName["batch"].CreateTaskRole)
	require.Equal(t, []string{"sg-pod"}, byName["batch"].SecurityGroupIDs)

	require.Empty(t, byName["plain"].SecurityGroupIDs)
	require.True(t, byName["plain"].CreateSecurityGroup)

	require.Equal(t, 1, rep.Count(model.CategoryLookupMiss))
}

func TestRun_EnvironmentInjection(t *testing.T) {
	t.Parallel()

	c := model.Container{
		Name:        "app",
		Environment: []model.EnvVar{{Name: "CFG_MODE", Value: "explicit"}},
		EnvImports: []model.EnvImport{
			{Source: model.ParamSourceConfig, Name: "cfg", Prefix: "CFG_"},
			{Source: model.ParamSourceSecret, Name: "creds"},
			{Source: model.ParamSourceSecret, Name: "optional", Optional: true},
			{Source: model.ParamSourceConfig, Name: "absent"},
			{Source: model.ParamSourceConfig, Name: "other-ns"},
		},
	}

	res, rep := run(t, association.Input{
		Workloads: []model.Workload{workload("ns", "app", nil, c)},
		ParamSets: []model.ParamSet{
			{Name: "cfg", Namespace: "ns", Source: model.ParamSourceConfig, Keys: []string{"HOST", "MODE"}, Values: map[string]string{"HOST": "db", "MODE": "imported"}},
			{Name: "creds", Namespace: "ns", Source: model.ParamSourceSecret, Keys: []string{"PASSWORD"}},
			{Name: "other-ns", Namespace: "elsewhere", Source: model.ParamSourceConfig, Keys: []string{"X"}},
		},
	})

	got := res.Workloads[0].Containers[0]
	require.Equal(t, []model.EnvVar{
		{Name: "CFG_MODE", Value: "explicit"},
		{Name: "CFG_HOST", Value: "db"},
	}, got.Environment)
	require.Equal(t, []model.SecretRef{{Name: "PASSWORD", ValueFrom: "/creds/PASSWORD"}}, got.Secrets)
	require.Empty(t, got.EnvImports)
	require.Equal(t, 2, rep.Count(model.CategoryLookupMiss))
}

func TestRun_SecretImportStaysIndirect(t *testing.T) {
	t.Parallel()

	c := model.Container{
		Name:       "app",
		EnvImports: []model.EnvImport{{Source: model.ParamSourceSecret, Name: "creds", Prefix: "DB_"}},
	}

	res, rep := run(t, association.Input{
		Workloads: []model.Workload{workload("ns", "app", nil, c)},
		ParamSets: []model.ParamSet{{
			Name:      "creds",
			Namespace: "ns",
			Source:    model.ParamSourceSecret,
			Keys:      []string{"PASS", "USER"},
			Values:    map[string]string{"PASS": "c2VjcmV0", "USER": "YWRtaW4="},
		}},
	})

	got := res.Workloads[0].Containers[0]
	require.Empty(t, got.Environment)
	require.Equal(t, []model.SecretRef{
		{Name: "DB_PASS", ValueFrom: "/creds/PASS"},
		{Name: "DB_USER", ValueFrom: "/creds/USER"},
	}, got.Secrets)
	require.Empty(t, rep.Diagnostics())
}

func TestRun_NamedPorts(t *testing.T) {
	t.Parallel()

	c := model.Container{
		Name:  "api",
		Ports: []model.PortMapping{{Name: "http", ContainerPort: 8080, Protocol: "TCP"}, {ContainerPort: 9090, Protocol: "TCP"}},
	}

	res, rep := run(t, association.Input{
		Workloads: []model.Workload{workload("ns", "api", map[string]string{"app": "api"}, c)},
		Services: []model.Service{service("ns", "api", map[string]string{"app": "api"},
			model.ServicePort{Name: "web", Port: 80, TargetPort: intstr.FromString("http")},
			model.ServicePort{Name: "grpc", Port: 81, TargetPort: intstr.FromString("grpc")},
			model.ServicePort{Name: "metrics", Port: 9090, TargetPort: intstr.FromInt32(9090), ContainerPort: 9090, Resolved: true},
			model.ServicePort{Name: "admin", Port: 7000, TargetPort: intstr.FromInt32(7000), ContainerPort: 7000, Resolved: true},
		)},
	})

	require.Len(t, res.Services, 1)
	require.Equal(t, []model.ServicePort{
		{Name: "web", Port: 80, TargetPort: intstr.FromString("http"), ContainerPort: 8080, ContainerName: "api", Resolved: true},
		{Name: "metrics", Port: 9090, TargetPort: intstr.FromInt32(9090), ContainerPort: 9090, ContainerName: "api", Resolved: true},
		{Name: "admin", Port: 7000, TargetPort: intstr.FromInt32(7000), ContainerPort: 7000, Resolved: true},
	}, res.Services[0].Ports)
	require.Equal(t, 1, rep.Count(model.CategoryLookupMiss))
}

func TestRun_HealthChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		giveProbe *model.HTTPProbe
		wantPath  string
		wantGrace int32
	}{
		{name: "no probe"},
		{name: "plain path", giveProbe: &model.HTTPProbe{Path: "/healthz", InitialDelaySeconds: 12}, wantPath: "/healthz", wantGrace: 12},
		{name: "defaults", giveProbe: &model.HTTPProbe{}, wantPath: "/", wantGrace: 45},
		{name: "canonical prefix", giveProbe: &model.HTTPProbe{Path: "/actuator/health/readiness"}, wantPath: "/actuator/health", wantGrace: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, _ := run(t, association.Input{
				Workloads: []model.Workload{workload("ns", "app", nil,
					model.Container{Name: "sidecar"},
					model.Container{Name: "app", LivenessProbe: tt.giveProbe},
				)},
			})

			require.Len(t, res.Services, 1)
			require.Equal(t, tt.wantPath, res.Services[0].HealthCheckPath)
			require.Equal(t, tt.wantGrace, res.Services[0].HealthCheckGracePeriod)
		})
	}
}

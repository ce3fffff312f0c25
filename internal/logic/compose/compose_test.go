package compose_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/skillcoder/specctl/internal/logic/compose"
)

func TestParsePort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give    string
		want    compose.Port
		wantErr bool
	}{
		{give: "80", want: compose.Port{ServicePort: 80, ContainerPort: 80, Protocol: corev1.ProtocolTCP}},
		{give: "8080:80", want: compose.Port{ServicePort: 8080, ContainerPort: 80, Protocol: corev1.ProtocolTCP}},
		{give: "53:53/udp", want: compose.Port{ServicePort: 53, ContainerPort: 53, Protocol: corev1.ProtocolUDP}},
		{give: "127.0.0.1:9000:9090/tcp", want: compose.Port{ServicePort: 9000, ContainerPort: 9090, Protocol: corev1.ProtocolTCP}},
		{give: ":3000", want: compose.Port{ServicePort: 3000, ContainerPort: 3000, Protocol: corev1.ProtocolTCP}},
		{give: "", wantErr: true},
		{give: "http", wantErr: true},
		{give: "3000-3005", wantErr: true},
		{give: "80/icmp", wantErr: true},
		{give: "70000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			got, err := compose.ParsePort(tt.give)
			if tt.wantErr {
				require.ErrorIs(t, err, compose.ErrInvalidPort)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSubstitute(t *testing.T) {
	t.Parallel()

	vars := compose.Variables{"PORT": "8080", "EMPTY": ""}

	tests := []struct {
		name string
		give string
		want string
	}{
		{name: "plain text", give: "80:80", want: "80:80"},
		{name: "known key", give: "${PORT}:80", want: "8080:80"},
		{name: "known key ignores default", give: "${PORT:-9090}", want: "8080"},
		{name: "empty value is a value", give: "x${EMPTY}y", want: "xy"},
		{name: "default", give: "${MISSING:-3000}/udp", want: "3000/udp"},
		{name: "empty default", give: "a${MISSING:-}b", want: "ab"},
		{name: "missing left as written", give: "${MISSING}:80", want: "${MISSING}:80"},
		{name: "several", give: "${PORT}:${TARGET:-80}", want: "8080:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, compose.Substitute(t.Context(), slog.Default(), tt.give, vars))
		})
	}
}

func TestConform(t *testing.T) {
	t.Parallel()

	require.Equal(t, "web-app", compose.Conform("Web_App"))
	require.Equal(t, "api-v2", compose.Conform("api..v2__"))
	require.Equal(t, "db", compose.Conform("db"))
}

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	replicas := int32(3)
	project := compose.Project{Services: []compose.Service{
		{
			Name:        "Web_App",
			Image:       "nginx:${TAG:-1.25}",
			Ports:       []string{"${WEB_PORT}:80", "443:8443", "bogus"},
			Expose:      []string{"80"},
			Environment: []compose.EnvVar{{Name: "MODE", Value: "prod"}, {Name: "URL", Value: "http://${HOST}"}},
			Labels:      map[string]string{"tier": "front"},
			Command:     []string{"nginx", "-g", "daemon off;"},
			Replicas:    &replicas,
		},
		{Name: "worker"},
	}}

	conv := compose.NewConverter(slog.Default(), compose.Variables{"WEB_PORT": "8000", "HOST": "db"})
	got := conv.Convert(t.Context(), project)

	require.Len(t, got, 5)

	parts := make([]string, 0, len(got))
	for _, m := range got {
		parts = append(parts, m.Service+"/"+m.Part)
	}

	require.Equal(t, []string{
		"Web_App/deployment", "Web_App/service", "Web_App/service_account",
		"worker/deployment", "worker/service_account",
	}, parts)

	dep, ok := got[0].Object.(*appsv1.Deployment)
	require.True(t, ok)
	require.Equal(t, "web-app", dep.Name)
	require.Equal(t, "Deployment", dep.Kind)
	require.Equal(t, &replicas, dep.Spec.Replicas)

	wantLabels := map[string]string{"app": "web-app", "tier": "front"}
	require.Equal(t, wantLabels, dep.Spec.Selector.MatchLabels)
	require.Equal(t, wantLabels, dep.Spec.Template.Labels)
	require.Equal(t, "web-app", dep.Spec.Template.Spec.ServiceAccountName)

	c := dep.Spec.Template.Spec.Containers[0]
	require.Equal(t, "nginx:1.25", c.Image)
	require.Equal(t, []string{"nginx", "-g", "daemon off;"}, c.Args)
	require.Equal(t, []corev1.ContainerPort{
		{ContainerPort: 80, Protocol: corev1.ProtocolTCP},
		{ContainerPort: 8443, Protocol: corev1.ProtocolTCP},
	}, c.Ports)
	require.Equal(t, []corev1.EnvVar{{Name: "MODE", Value: "prod"}, {Name: "URL", Value: "http://db"}}, c.Env)

	svc, ok := got[1].Object.(*corev1.Service)
	require.True(t, ok)
	require.Equal(t, wantLabels, svc.Spec.Selector)
	require.Equal(t, []corev1.ServicePort{{
		Port:       8000,
		TargetPort: intstr.FromInt32(80),
		Protocol:   corev1.ProtocolTCP,
	}}, svc.Spec.Ports)

	worker, ok := got[3].Object.(*appsv1.Deployment)
	require.True(t, ok)
	require.Equal(t, "${BUILD_worker}", worker.Spec.Template.Spec.Containers[0].Image)
	require.Nil(t, worker.Spec.Replicas)
}

func TestConverter_MultiPortNames(t *testing.T) {
	t.Parallel()

	got := compose.NewConverter(slog.Default(), nil).Convert(t.Context(), compose.Project{
		Services: []compose.Service{{Name: "dns", Image: "coredns", Ports: []string{"53:53/udp", "53:53/tcp"}}},
	})

	svc, ok := got[1].Object.(*corev1.Service)
	require.True(t, ok)
	require.Len(t, svc.Spec.Ports, 2)
	require.Equal(t, "udp-53", svc.Spec.Ports[0].Name)
	require.Equal(t, "tcp-53", svc.Spec.Ports[1].Name)
}

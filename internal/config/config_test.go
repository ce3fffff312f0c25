package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/specctl/internal/config"
)

var allKeys = []string{
	"SPECCTL_KUBECONFIG", "KUBECONFIG", "SPECCTL_KUBE_MASTER", "KUBERNETES_MASTER",
	"SPECCTL_KUBE_CONTEXT", "SPECCTL_NAMESPACES", "SPECCTL_LOG_LEVEL", "SPECCTL_LOG_FORMAT",
	"SPECCTL_HTTP_PORT", "SPECCTL_METRICS_PORT", "SPECCTL_PINGER_INTERVAL",
	"SPECCTL_SOURCE", "SPECCTL_OUTPUT_DIRECTORY", "SPECCTL_TD_FILE", "SPECCTL_SD_FILE", "SPECCTL_TFVARS_FILE",
	"SPECCTL_INPUT_FILE", "SPECCTL_EXPORT_SCHEDULE", "SPECCTL_EXPORT_TZ", "SPECCTL_OBSERVED_USAGE",
	"SPECCTL_HEALTH_CHECK_GRACE_PERIOD", "SPECCTL_ROLE_ARN_ANNOTATION", "SPECCTL_MAX_REQUEST_BYTES",
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range allKeys {
		t.Setenv(k, "")
	}

	got, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, &config.Config{
		LogLevel:               "info",
		LogFormat:              "json",
		HTTPPort:               "8080",
		MetricsPort:            "9090",
		PingerInterval:         10 * time.Second,
		MaxRequestBytes:        4194304,
		OutputDirectory:        "./output",
		TaskDefinitionFile:     "taskdefinition.json",
		ServiceDefinitionFile:  "servicedefinition.json",
		TfvarsFile:             "terraform.tfvars",
		ExportTZ:               "UTC",
		HealthCheckGracePeriod: 45 * time.Second,
		RoleARNAnnotation:      "eks.amazonaws.com/role-arn",
	}, got)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		giveEnv map[string]string
		wantErr bool
		check   func(t *testing.T, got *config.Config)
	}{
		{
			name: "kube fallbacks",
			giveEnv: map[string]string{
				"KUBECONFIG":        "/home/u/.kube/config",
				"KUBERNETES_MASTER": "https://k8s:6443",
			},
			check: func(t *testing.T, got *config.Config) {
				require.Equal(t, "/home/u/.kube/config", got.KubeConfig)
				require.Equal(t, "https://k8s:6443", got.KubeMaster)
			},
		},
		{
			name: "prefixed keys win over fallbacks",
			giveEnv: map[string]string{
				"KUBECONFIG":         "/fallback",
				"SPECCTL_KUBECONFIG": "/primary",
			},
			check: func(t *testing.T, got *config.Config) {
				require.Equal(t, "/primary", got.KubeConfig)
			},
		},
		{
			name: "namespaces list",
			giveEnv: map[string]string{
				"SPECCTL_NAMESPACES": " shop, ,billing ",
			},
			check: func(t *testing.T, got *config.Config) {
				require.Equal(t, []string{"shop", "billing"}, got.Namespaces)
			},
		},
		{
			name: "overrides",
			giveEnv: map[string]string{
				"SPECCTL_PINGER_INTERVAL":           "1m",
				"SPECCTL_OBSERVED_USAGE":            "true",
				"SPECCTL_HEALTH_CHECK_GRACE_PERIOD": "90s",
				"SPECCTL_ROLE_ARN_ANNOTATION":       "iam/role",
				"SPECCTL_EXPORT_SCHEDULE":           "@hourly",
				"SPECCTL_EXPORT_TZ":                 "Europe/Berlin",
				"SPECCTL_MAX_REQUEST_BYTES":         "2048",
				"SPECCTL_SOURCE":                    "./manifests",
				"SPECCTL_LOG_FORMAT":                "text",
				"SPECCTL_LOG_LEVEL":                 "debug",
			},
			check: func(t *testing.T, got *config.Config) {
				require.Equal(t, time.Minute, got.PingerInterval)
				require.True(t, got.ObservedUsage)
				require.Equal(t, "@hourly", got.ExportSchedule)
				require.Equal(t, "Europe/Berlin", got.ExportTZ)
				require.Equal(t, int64(2048), got.MaxRequestBytes)
				require.Equal(t, "./manifests", got.Source)

				s := got.Settings()
				require.Equal(t, 90*time.Second, s.Health.GracePeriod)
				require.Equal(t, "iam/role", s.Identity.RoleARNAnnotation)
			},
		},
		{
			name:    "pinger interval below minimum",
			giveEnv: map[string]string{"SPECCTL_PINGER_INTERVAL": "500ms"},
			wantErr: true,
		},
		{
			name:    "invalid pinger interval",
			giveEnv: map[string]string{"SPECCTL_PINGER_INTERVAL": "x"},
			wantErr: true,
		},
		{
			name:    "negative grace period",
			giveEnv: map[string]string{"SPECCTL_HEALTH_CHECK_GRACE_PERIOD": "-1s"},
			wantErr: true,
		},
		{
			name:    "invalid observed usage",
			giveEnv: map[string]string{"SPECCTL_OBSERVED_USAGE": "maybe"},
			wantErr: true,
		},
		{
			name:    "request limit too small",
			giveEnv: map[string]string{"SPECCTL_MAX_REQUEST_BYTES": "10"},
			wantErr: true,
		},
		{
			name:    "unknown time zone",
			giveEnv: map[string]string{"SPECCTL_EXPORT_TZ": "Mars/Olympus"},
			wantErr: true,
		},
		{
			name:    "unknown log format",
			giveEnv: map[string]string{"SPECCTL_LOG_FORMAT": "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range allKeys {
				t.Setenv(k, "")
			}

			for k, v := range tt.giveEnv {
				t.Setenv(k, v)
			}

			got, err := config.Load()
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrInvalid)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

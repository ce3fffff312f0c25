package config

import "time"

// Env key constants. All configuration env vars use the SPECCTL_ prefix;
// duration values support explicit units (e.g. 5m, 40s, 2h).

// Path to kubeconfig file. If unset, KUBECONFIG is used as fallback.
const envKeyKubeConfig = "SPECCTL_KUBECONFIG"

// Kubernetes API server URL. If unset, KUBERNETES_MASTER is used as fallback.
const envKeyKubeMaster = "SPECCTL_KUBE_MASTER"

// Kubeconfig context; empty means current context or the interactive picker.
const envKeyKubeContext = "SPECCTL_KUBE_CONTEXT"

// Comma separated namespaces to read; empty means all.
const envKeyNamespaces = "SPECCTL_NAMESPACES"

// Log level: debug, info, warn, error.
const envKeyLogLevel = "SPECCTL_LOG_LEVEL"

// Log format: json or text.
const envKeyLogFormat = "SPECCTL_LOG_FORMAT"

// Port for the translation API and health endpoints.
const envKeyHTTPPort = "SPECCTL_HTTP_PORT"

// Port for Prometheus metrics (GET /metrics).
const envKeyMetricsPort = "SPECCTL_METRICS_PORT"

// Pinger check interval. Units: s, m, h (e.g. 10s, 1m).
const (
	envKeyPingerInterval = "SPECCTL_PINGER_INTERVAL"
	envMinPingerInterval = time.Second
)

// Manifest file or directory to translate; empty reads the live cluster.
const envKeySource = "SPECCTL_SOURCE"

// Output locations of the emitters.
const (
	envKeyOutputDirectory = "SPECCTL_OUTPUT_DIRECTORY"
	envKeyTDFile          = "SPECCTL_TD_FILE"
	envKeySDFile          = "SPECCTL_SD_FILE"
	envKeyTfvarsFile      = "SPECCTL_TFVARS_FILE"
	envKeyInputFile       = "SPECCTL_INPUT_FILE"
)

// Cron expression of the scheduled export in serve mode; empty disables it.
const envKeyExportSchedule = "SPECCTL_EXPORT_SCHEDULE"

// IANA time zone of the export schedule.
const envKeyExportTZ = "SPECCTL_EXPORT_TZ"

// Fill missing container requests from metrics.k8s.io usage.
const envKeyObservedUsage = "SPECCTL_OBSERVED_USAGE"

// Health check grace period when a probe has no initial delay.
const (
	envKeyHealthCheckGracePeriod = "SPECCTL_HEALTH_CHECK_GRACE_PERIOD"
	envMinHealthCheckGracePeriod = time.Duration(0)
)

// Service account annotation holding the IAM role ARN.
const envKeyRoleARNAnnotation = "SPECCTL_ROLE_ARN_ANNOTATION"

// Request body limit of the translation API.
const (
	envKeyMaxRequestBytes = "SPECCTL_MAX_REQUEST_BYTES"
	envMinMaxRequestBytes = 1024
)

// Standard k8s env keys used as fallback when SPECCTL_* are unset.
const (
	envKeyKubeConfigFallback = "KUBECONFIG"
	envKeyKubeMasterFallback = "KUBERNETES_MASTER"
)

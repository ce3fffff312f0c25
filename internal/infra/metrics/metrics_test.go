package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/specctl/internal/infra/metrics"
)

func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}

		for _, m := range family.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}

	return 0
}

func matchLabels(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, pair := range m.GetLabel() {
		got[pair.GetName()] = pair.GetValue()
	}

	for k, v := range want {
		if got[k] != v {
			return false
		}
	}

	return true
}

func TestRecorder(t *testing.T) {
	var rec metrics.Recorder

	beforeKind := counterValue(t, "specctl_objects_ingested_total", map[string]string{"kind": "Ingress"})
	beforeCategory := counterValue(t, "specctl_diagnostics_total", map[string]string{"category": "lookup_miss"})
	beforeResult := counterValue(t, "specctl_translations_total", map[string]string{"result": "ok"})

	rec.RecordObject("Ingress")
	rec.RecordObject("Ingress")
	rec.RecordDiagnostic("lookup_miss")
	rec.RecordTranslation("ok", 3*time.Millisecond)

	require.InDelta(t, beforeKind+2, counterValue(t, "specctl_objects_ingested_total", map[string]string{"kind": "Ingress"}), 0.001)
	require.InDelta(t, beforeCategory+1, counterValue(t, "specctl_diagnostics_total", map[string]string{"category": "lookup_miss"}), 0.001)
	require.InDelta(t, beforeResult+1, counterValue(t, "specctl_translations_total", map[string]string{"result": "ok"}), 0.001)
}

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTestingIsIsolated(t *testing.T) {
	first, firstReg := NewMetricsForTesting()
	second, _ := NewMetricsForTesting()

	first.RulesCreated.Inc()
	first.RequestsTotal.WithLabelValues("GET", "/api/alerts/:city", "200").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.RulesCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.RulesCreated))

	families, err := firstReg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "weatherlens_alert_rules_created_total")
	assert.Contains(t, names, "weatherlens_http_requests_total")
}

package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Counters(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterPlanCalculations.WithLabelValues("deficit", OutcomeOK).Inc()
	m.CounterPlanCalculations.WithLabelValues("deficit", OutcomeOK).Inc()
	m.CounterPlanCalculations.WithLabelValues("", OutcomeValidationFailed).Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterPlanCalculations.WithLabelValues("deficit", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterPlanCalculations.WithLabelValues("", OutcomeValidationFailed)))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestSetupPrometheus_ExtraCollectors(t *testing.T) {
	extra := prometheus.NewCounter(prometheus.CounterOpts{Name: "extra_total", Help: "extra"})
	reg := SetupPrometheus(extra, nil)

	extra.Inc()
	families, err := reg.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if f.GetName() == "extra_total" {
			found = true
		}
	}
	assert.True(t, found)
}

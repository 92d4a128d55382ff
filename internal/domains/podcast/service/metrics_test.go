package service

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewApprovalMetrics(reg)
	require.NoError(t, err)

	m.observe("approved", "ok", 200*time.Millisecond, 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				values[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, values["podcasthub_approval_decisions_total"])
	assert.Equal(t, 3.0, values["podcasthub_approval_promoted_episodes_total"])
}

func TestApprovalMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewApprovalMetrics(reg)
	require.NoError(t, err)

	_, err = NewApprovalMetrics(reg)
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)
}

func TestApprovalMetrics_NilIsNoop(t *testing.T) {
	var m *ApprovalMetrics
	assert.NotPanics(t, func() { m.observe("rejected", "ok", time.Second, 0) })
}

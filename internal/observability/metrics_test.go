package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.SamplesMasked.Add(3)
	a.Combinations.WithLabelValues("computed").Inc()

	assert.InDelta(t, 3.0, testutil.ToFloat64(a.SamplesMasked), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.SamplesMasked), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(a.Combinations.WithLabelValues("computed")), 1e-9)
}

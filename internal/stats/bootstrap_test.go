package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniformSpeeds returns n evenly spread values in [0, 10).
func uniformSpeeds(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 10 * float64(i) / float64(n)
	}
	return out
}

func TestBootstrapMedianCI(t *testing.T) {
	values := uniformSpeeds(5000)
	ci, err := BootstrapMedianCI(values, rand.New(rand.NewSource(1)), BootstrapOptions{SampleFraction: 0.2, Resamples: 500})
	require.NoError(t, err)

	assert.Equal(t, 1000, ci.SampleSize)
	assert.Equal(t, 500, ci.Resamples)
	assert.LessOrEqual(t, ci.Lower, ci.Median)
	assert.LessOrEqual(t, ci.Median, ci.Upper)
	assert.Less(t, ci.Lower, ci.Upper)
	assert.InDelta(t, 5.0, ci.Median, 0.5)
}

func TestBootstrapMedianCI_CoversPopulationMedian(t *testing.T) {
	const trials = 50
	rng := rand.New(rand.NewSource(2016))
	covered := 0
	for range trials {
		values := make([]float64, 2000)
		for i := range values {
			values[i] = 4 * rng.ExpFloat64()
		}
		want, err := Summarize(values)
		require.NoError(t, err)

		ci, err := BootstrapMedianCI(values, rng, DefaultBootstrapOptions())
		require.NoError(t, err)
		if ci.Lower <= want.Median && want.Median <= ci.Upper {
			covered++
		}
	}
	assert.GreaterOrEqual(t, covered, trials*8/10, "population median inside the interval in %d of %d trials", covered, trials)
}

// firstOnly always picks index 0.
type firstOnly struct{}

func (firstOnly) Intn(int) int { return 0 }

func TestBootstrapMedianCI_WorkingSampleRepeats(t *testing.T) {
	// Drawing with replacement lets every pick land on the same member.
	ci, err := BootstrapMedianCI(uniformSpeeds(200), firstOnly{}, DefaultBootstrapOptions())
	require.NoError(t, err)
	assert.Equal(t, 40, ci.SampleSize)
	assert.Equal(t, MedianCI{SampleSize: 40, Resamples: 200}, ci)
}

func TestBootstrapMedianCI_Deterministic(t *testing.T) {
	values := uniformSpeeds(400)
	opts := BootstrapOptions{SampleFraction: 0.5, Resamples: 100}

	a, err := BootstrapMedianCI(values, rand.New(rand.NewSource(42)), opts)
	require.NoError(t, err)
	b, err := BootstrapMedianCI(values, rand.New(rand.NewSource(42)), opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBootstrapMedianCI_NarrowsWithSampleSize(t *testing.T) {
	opts := BootstrapOptions{SampleFraction: 0.2, Resamples: 400}

	small, err := BootstrapMedianCI(uniformSpeeds(250), rand.New(rand.NewSource(3)), opts)
	require.NoError(t, err)
	large, err := BootstrapMedianCI(uniformSpeeds(25000), rand.New(rand.NewSource(3)), opts)
	require.NoError(t, err)

	assert.Less(t, large.Upper-large.Lower, small.Upper-small.Lower)
}

func TestBootstrapMedianCI_DefaultResamples(t *testing.T) {
	ci, err := BootstrapMedianCI(uniformSpeeds(60), rand.New(rand.NewSource(5)), DefaultBootstrapOptions())
	require.NoError(t, err)
	assert.Equal(t, 60, ci.Resamples)
	assert.Equal(t, 12, ci.SampleSize)
}

func TestBootstrapMedianCI_GlobalSource(t *testing.T) {
	ci, err := BootstrapMedianCI(uniformSpeeds(100), nil, BootstrapOptions{SampleFraction: 1, Resamples: 50})
	require.NoError(t, err)
	assert.LessOrEqual(t, ci.Lower, ci.Upper)
}

func TestBootstrapMedianCI_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name   string
		values []float64
		opts   BootstrapOptions
		is     error
	}{
		{"empty", nil, DefaultBootstrapOptions(), ErrEmptyBucket},
		{"all missing", []float64{math.NaN(), math.NaN()}, DefaultBootstrapOptions(), ErrEmptyBucket},
		{"too few resamples", uniformSpeeds(100), BootstrapOptions{SampleFraction: 0.2, Resamples: 39}, nil},
		{"small population", uniformSpeeds(10), DefaultBootstrapOptions(), nil},
		{"zero fraction", uniformSpeeds(100), BootstrapOptions{Resamples: 100}, nil},
		{"fraction above one", uniformSpeeds(100), BootstrapOptions{SampleFraction: 1.5, Resamples: 100}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BootstrapMedianCI(tt.values, rng, tt.opts)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

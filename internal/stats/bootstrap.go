package stats

import (
	"fmt"
	"math/rand"

	mstats "github.com/montanaflynn/stats"
)

// Intner is the random source used for resampling. *rand.Rand satisfies it.
type Intner interface {
	Intn(n int) int
}

// minResamples is the smallest resample count for which the 2.5th
// percentile falls on a resample rather than below the first one.
const minResamples = 40

type globalSource struct{}

func (globalSource) Intn(n int) int { return rand.Intn(n) }

// BootstrapOptions configures BootstrapMedianCI.
type BootstrapOptions struct {
	// SampleFraction sizes the working sample drawn from the population.
	SampleFraction float64
	// Resamples is the number of bootstrap resamples; 0 means one per
	// population member. Large buckets can set a fixed count to bound the
	// cost.
	Resamples int
}

// DefaultBootstrapOptions draws a one-fifth sample and resamples it once per
// population member.
func DefaultBootstrapOptions() BootstrapOptions {
	return BootstrapOptions{SampleFraction: 0.2}
}

// MedianCI is a 95% bootstrap confidence interval on the median.
type MedianCI struct {
	Lower      float64 `json:"lower"`
	Median     float64 `json:"median"`
	Upper      float64 `json:"upper"`
	SampleSize int     `json:"sample_size"`
	Resamples  int     `json:"resamples"`
}

// BootstrapMedianCI draws a working sample of SampleFraction of the
// non-missing population and resamples it. Both draws are with replacement,
// so the working sample may repeat a population member. It reports the 2.5th and 97.5th percentiles of the resample
// medians along with their median. A nil rng uses the process-global source.
func BootstrapMedianCI(values []float64, rng Intner, opts BootstrapOptions) (MedianCI, error) {
	pop, _ := DropMissing(values)
	if len(pop) == 0 {
		return MedianCI{}, ErrEmptyBucket
	}
	if rng == nil {
		rng = globalSource{}
	}
	if opts.SampleFraction <= 0 || opts.SampleFraction > 1 {
		return MedianCI{}, fmt.Errorf("bootstrap: sample fraction %v outside (0, 1]", opts.SampleFraction)
	}

	size := max(1, int(float64(len(pop))*opts.SampleFraction))
	resamples := opts.Resamples
	if resamples <= 0 {
		resamples = len(pop)
	}
	if resamples < minResamples {
		return MedianCI{}, fmt.Errorf("bootstrap: %d resamples, need at least %d", resamples, minResamples)
	}

	sample := make([]float64, size)
	for i := range sample {
		sample[i] = pop[rng.Intn(len(pop))]
	}

	medians := make([]float64, resamples)
	buf := make([]float64, size)
	for r := range medians {
		for i := range buf {
			buf[i] = sample[rng.Intn(size)]
		}
		m, err := mstats.Median(buf)
		if err != nil {
			return MedianCI{}, fmt.Errorf("bootstrap: resample median: %w", err)
		}
		medians[r] = m
	}

	ci := MedianCI{SampleSize: size, Resamples: resamples}
	var err error
	if ci.Lower, err = mstats.Percentile(medians, 2.5); err != nil {
		return MedianCI{}, fmt.Errorf("bootstrap: lower bound: %w", err)
	}
	if ci.Upper, err = mstats.Percentile(medians, 97.5); err != nil {
		return MedianCI{}, fmt.Errorf("bootstrap: upper bound: %w", err)
	}
	if ci.Median, err = mstats.Median(medians); err != nil {
		return MedianCI{}, fmt.Errorf("bootstrap: point estimate: %w", err)
	}
	return ci, nil
}

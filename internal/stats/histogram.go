package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptyBucket is returned when a statistic is requested over no samples.
var ErrEmptyBucket = errors.New("empty bucket")

// FrequencyTable counts samples in 1 m/s bins: index i holds speeds in
// [i, i+1). Speeds at or above len(table) are dropped, not clipped into the
// last bin.
type FrequencyTable []int

// NewFrequencyTable returns an empty table with the given number of bins.
func NewFrequencyTable(bins int) FrequencyTable {
	return make(FrequencyTable, bins)
}

// Add bins one sample. It reports whether the sample was counted.
func (t FrequencyTable) Add(speed float64) bool {
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		return false
	}
	bin := int(math.Floor(math.Abs(speed)))
	if bin < 0 || bin >= len(t) {
		return false
	}
	t[bin]++
	return true
}

// Accumulate bins every sample of every row and returns how many were counted.
func (t FrequencyTable) Accumulate(rows [][]float64) int {
	n := 0
	for _, row := range rows {
		for _, v := range row {
			if t.Add(v) {
				n++
			}
		}
	}
	return n
}

// Total returns the sum of all bins.
func (t FrequencyTable) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// StagnantCount returns the number of samples below threshold m/s, i.e. the
// sum of bins [0, threshold).
func (t FrequencyTable) StagnantCount(threshold int) int {
	n := 0
	for i := 0; i < threshold && i < len(t); i++ {
		n += t[i]
	}
	return n
}

// Floats returns the table as float64 counts.
func (t FrequencyTable) Floats() []float64 {
	out := make([]float64, len(t))
	for i, c := range t {
		out[i] = float64(c)
	}
	return out
}

// Normalize expresses each bin as a percentage of the sum of absolute bin
// values. A table summing to zero returns ErrEmptyBucket.
func Normalize(t FrequencyTable) ([]float64, error) {
	out := t.Floats()
	total := 0.0
	for _, v := range out {
		total += math.Abs(v)
	}
	if total == 0 {
		return nil, ErrEmptyBucket
	}
	floats.Scale(100/total, out)
	return out, nil
}

// Diff returns later minus earlier, bin by bin.
func Diff(later, earlier FrequencyTable) (FrequencyTable, error) {
	if len(later) != len(earlier) {
		return nil, fmt.Errorf("diff: table lengths %d and %d differ", len(later), len(earlier))
	}
	out := make(FrequencyTable, len(later))
	for i := range later {
		out[i] = later[i] - earlier[i]
	}
	return out, nil
}

// NormalizedDiff returns the difference of the two normalized tables, in
// percentage points.
func NormalizedDiff(later, earlier FrequencyTable) ([]float64, error) {
	if len(later) != len(earlier) {
		return nil, fmt.Errorf("normalized diff: table lengths %d and %d differ", len(later), len(earlier))
	}
	l, err := Normalize(later)
	if err != nil {
		return nil, fmt.Errorf("later period: %w", err)
	}
	e, err := Normalize(earlier)
	if err != nil {
		return nil, fmt.Errorf("earlier period: %w", err)
	}
	return floats.SubTo(make([]float64, len(l)), l, e), nil
}

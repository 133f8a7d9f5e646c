package stats

import (
	"math"

	mstats "github.com/montanaflynn/stats"
)

// Summary holds NaN-aware descriptive statistics of one sample collection.
type Summary struct {
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// DropMissing returns the non-NaN values as magnitudes and the number of
// NaNs removed.
func DropMissing(values []float64) ([]float64, int) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, math.Abs(v))
	}
	return out, len(values) - len(out)
}

// Summarize computes mean, median and population standard deviation over
// the non-missing values.
func Summarize(values []float64) (Summary, error) {
	data, missing := DropMissing(values)
	if len(data) == 0 {
		return Summary{Missing: missing}, ErrEmptyBucket
	}

	s := Summary{Count: len(data), Missing: missing}
	var err error
	if s.Mean, err = mstats.Mean(data); err != nil {
		return s, err
	}
	if s.Median, err = mstats.Median(data); err != nil {
		return s, err
	}
	if s.StdDev, err = mstats.StandardDeviationPopulation(data); err != nil {
		return s, err
	}
	if s.Min, err = mstats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = mstats.Max(data); err != nil {
		return s, err
	}
	return s, nil
}

// SummarizeRows flattens per-location rows and summarizes them.
func SummarizeRows(rows [][]float64) (Summary, error) {
	n := 0
	for _, r := range rows {
		n += len(r)
	}
	all := make([]float64, 0, n)
	for _, r := range rows {
		all = append(all, r...)
	}
	return Summarize(all)
}

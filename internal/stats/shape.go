package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidWindow is returned for a smoothing window that does not fit the series.
var ErrInvalidWindow = errors.New("invalid smoothing window")

// SeasonShape averages, for each slot of a season of slotsPerSeason samples,
// every non-missing magnitude across all rows and all seasons sharing that
// slot. Rows must start at a season boundary. Slots with no samples are NaN.
func SeasonShape(rows [][]float64, slotsPerSeason int) []float64 {
	sums := make([]float64, slotsPerSeason)
	counts := make([]int, slotsPerSeason)
	for _, row := range rows {
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			s := j % slotsPerSeason
			sums[s] += math.Abs(v)
			counts[s]++
		}
	}
	out := make([]float64, slotsPerSeason)
	for s := range out {
		if counts[s] == 0 {
			out[s] = math.NaN()
			continue
		}
		out[s] = sums[s] / float64(counts[s])
	}
	return out
}

// MovingAverage applies a centred moving average of window samples. The
// window must divide len(series) evenly. half = window/2 (floor division);
// the value at centre c averages series[c-half : c-half+window], so even
// windows carry one more sample before the centre than after it. Centres
// run from half to len(series)-window+half-1, shrinking the output by window
// samples. The second result holds each output's centre index. A window of
// 0 or 1 returns the series unchanged.
func MovingAverage(series []float64, window int) ([]float64, []int, error) {
	n := len(series)
	if window <= 1 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return append([]float64(nil), series...), idx, nil
	}
	if window >= n || n%window != 0 {
		return nil, nil, fmt.Errorf("%w: %d does not evenly divide a series of %d", ErrInvalidWindow, window, n)
	}

	half := window / 2
	count := n - window
	out := make([]float64, count)
	idx := make([]int, count)
	present := make([]float64, 0, window)
	for k := range out {
		lo := k
		present = present[:0]
		for _, v := range series[lo : lo+window] {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		idx[k] = lo + half
		if len(present) == 0 {
			out[k] = math.NaN()
			continue
		}
		out[k] = floats.Sum(present) / float64(len(present))
	}
	return out, idx, nil
}

// AverageAcrossLocationsAndSeasons builds the season shape of rows and
// smooths it with MovingAverage.
func AverageAcrossLocationsAndSeasons(rows [][]float64, slotsPerSeason, window int) ([]float64, []int, error) {
	return MovingAverage(SeasonShape(rows, slotsPerSeason), window)
}

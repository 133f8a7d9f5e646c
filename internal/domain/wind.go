package domain

import (
	"errors"
	"fmt"
	"math"
)

// WindField is the archive triple: locations, serial sample times and a dense
// [location][time] speed matrix. Missing samples are NaN.
type WindField struct {
	Locations []Location
	Times     []float64
	Speeds    [][]float64
}

// Validate checks that the three arrays agree in shape.
func (w *WindField) Validate() error {
	if len(w.Locations) != len(w.Speeds) {
		return fmt.Errorf("wind field: %d locations but %d speed rows", len(w.Locations), len(w.Speeds))
	}
	for i, row := range w.Speeds {
		if len(row) != len(w.Times) {
			return fmt.Errorf("wind field: row %d has %d samples, want %d", i, len(row), len(w.Times))
		}
	}
	if len(w.Times) == 0 {
		return errors.New("wind field: no sample times")
	}
	return nil
}

// NumSlots returns the archive length T.
func (w *WindField) NumSlots() int {
	return len(w.Times)
}

// NumSamples returns N*T.
func (w *WindField) NumSamples() int {
	return len(w.Locations) * len(w.Times)
}

// Clone returns a deep copy.
func (w *WindField) Clone() *WindField {
	out := &WindField{
		Locations: append([]Location(nil), w.Locations...),
		Times:     append([]float64(nil), w.Times...),
		Speeds:    make([][]float64, len(w.Speeds)),
	}
	for i, row := range w.Speeds {
		out.Speeds[i] = append([]float64(nil), row...)
	}
	return out
}

// Select returns a field restricted to the given location indices, in the
// given order. Rows are shared with the receiver.
func (w *WindField) Select(idx []int) *WindField {
	out := &WindField{
		Locations: make([]Location, len(idx)),
		Times:     w.Times,
		Speeds:    make([][]float64, len(idx)),
	}
	for k, i := range idx {
		out.Locations[k] = w.Locations[i]
		out.Speeds[k] = w.Speeds[i]
	}
	return out
}

// Interval returns every location's samples with global index in
// [left, right). Rows are sub-slices of the receiver's rows.
func (w *WindField) Interval(left, right int) [][]float64 {
	return Interval(w.Speeds, left, right)
}

// Interval slices every row to [left, right), clamped to the row length.
func Interval(speeds [][]float64, left, right int) [][]float64 {
	out := make([][]float64, len(speeds))
	for i, row := range speeds {
		l := min(max(left, 0), len(row))
		r := min(max(right, l), len(row))
		out[i] = row[l:r]
	}
	return out
}

// PeriodBucket returns per-location samples inside the period and bucket.
func (w *WindField) PeriodBucket(p Period, b Bucket) [][]float64 {
	left, right := p.Window(w.NumSlots())
	return selectBucketFrom(w.Interval(left, right), b, left)
}

// MaxAbsSpeed returns the largest non-missing speed magnitude, or NaN when
// every sample is missing.
func (w *WindField) MaxAbsSpeed() float64 {
	best := math.NaN()
	for _, row := range w.Speeds {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			if a := math.Abs(v); math.IsNaN(best) || a > best {
				best = a
			}
		}
	}
	return best
}

// CountMissing returns the number of NaN samples.
func (w *WindField) CountMissing() int {
	n := 0
	for _, row := range w.Speeds {
		for _, v := range row {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

// Flatten concatenates rows into one slice of speed magnitudes, dropping
// missing samples.
func Flatten(rows [][]float64) []float64 {
	n := 0
	for _, row := range rows {
		n += len(row)
	}
	out := make([]float64, 0, n)
	for _, row := range rows {
		for _, v := range row {
			if !math.IsNaN(v) {
				out = append(out, math.Abs(v))
			}
		}
	}
	return out
}

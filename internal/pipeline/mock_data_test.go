package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"math/rand"

	"github.com/couchcryptid/dlm-steering-stats/internal/domain"
	"github.com/couchcryptid/dlm-steering-stats/internal/pipeline"
)

// Grid points used across the tests.
var (
	northTexas   = domain.Location{Lon: -95.0, Lat: 29.5}
	louisiana    = domain.Location{Lon: -90.0, Lat: 29.5}
	eastFlorida  = domain.Location{Lon: -80.5, Lat: 30.0}
	offshoreNE   = domain.Location{Lon: -70.0, Lat: 40.0}
	twoSeasons   = domain.Period{FirstSeason: 0, EndSeason: 2}
	testResample = 50
)

// newField builds a synthetic archive of whole seasons starting in 1979.
func newField(seasons int, locs []domain.Location, value func(loc, slot int) float64) *domain.WindField {
	n := seasons * domain.SlotsPerSeason
	f := &domain.WindField{
		Locations: locs,
		Times:     make([]float64, n),
		Speeds:    make([][]float64, len(locs)),
	}
	for j := range f.Times {
		f.Times[j] = domain.ToSerialDay(domain.SlotTime(j))
	}
	for i := range locs {
		row := make([]float64, n)
		for j := range row {
			row[j] = value(i, j)
		}
		f.Speeds[i] = row
	}
	return f
}

func constant(v float64) func(int, int) float64 {
	return func(int, int) float64 { return v }
}

func testOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Periods = []domain.Period{twoSeasons}
	opts.Bootstrap.Resamples = testResample
	opts.Rand = rand.New(rand.NewSource(7))
	return opts
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingLoader struct {
	reports []*pipeline.Report
	err     error
}

func (l *recordingLoader) LoadReport(_ context.Context, r *pipeline.Report) error {
	l.reports = append(l.reports, r)
	return l.err
}

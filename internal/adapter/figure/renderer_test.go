package figure

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/dlm-steering-stats/internal/domain"
	"github.com/couchcryptid/dlm-steering-stats/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderer_LoadReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figures")
	early := pipeline.PeriodInfo{Key: "79_97", Label: "1979-1997"}
	late := pipeline.PeriodInfo{Key: "98_16", Label: "1998-2016"}
	report := &pipeline.Report{
		Region: pipeline.RegionInfo{Code: "GOM", Key: "gulf", Phrase: "the U.S. Gulf Coast"},
		Results: []pipeline.CombinationResult{
			{Key: "gulf_ALL_79_97", Bucket: domain.BucketSeason, Period: early, Percentages: pipeline.Series{10, 60, 30}},
			{Key: "gulf_NOV_79_97", Bucket: domain.BucketNovember, Period: early, Skipped: "empty bucket"},
		},
		Differences: []pipeline.Difference{
			{Bucket: domain.BucketSeason, Later: late, Earlier: early, Points: pipeline.Series{-5, 2, 3}},
		},
		SeasonShapes: []pipeline.SeasonShape{
			{Period: early, Window: 2, Offsets: []int{1, 2, 3, 4}, Speeds: pipeline.Series{4, math.NaN(), 5, 6}},
			{Period: late, Skipped: "empty bucket"},
		},
	}

	r := NewRenderer(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, r.LoadReport(context.Background(), report))

	for _, name := range []string{
		"gulf_ALL_79_97_hist.png",
		"gulf_ALL_98_16_minus_79_97.png",
		"gulf_season_79_97.png",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, pngMagic), name)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRenderer_Cancelled(t *testing.T) {
	report := &pipeline.Report{
		Results: []pipeline.CombinationResult{
			{Key: "all_ALL_79_16", Percentages: pipeline.Series{100}},
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRenderer(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.ErrorIs(t, r.LoadReport(ctx, report), context.Canceled)
}

package pipeline

import (
	"encoding/json"
	"math"
	"time"

	"github.com/couchcryptid/dlm-steering-stats/internal/domain"
	"github.com/couchcryptid/dlm-steering-stats/internal/stats"
)

// Series is a float slice whose missing values encode as JSON null.
type Series []float64

// MarshalJSON implements json.Marshaler.
func (s Series) MarshalJSON() ([]byte, error) {
	out := make([]*float64, len(s))
	for i := range s {
		if !math.IsNaN(s[i]) && !math.IsInf(s[i], 0) {
			out[i] = &s[i]
		}
	}
	return json.Marshal(out)
}

// RegionInfo identifies the analysed region.
type RegionInfo struct {
	Code   string `json:"code"`
	Key    string `json:"key"`
	Phrase string `json:"phrase"`
}

// LocationInfo is one retained grid point.
type LocationInfo struct {
	Lon     float64        `json:"lon"`
	Lat     float64        `json:"lat"`
	Segment domain.Segment `json:"segment"`
}

// PeriodInfo identifies a period in results.
type PeriodInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func periodInfo(p domain.Period) PeriodInfo {
	return PeriodInfo{Key: p.Key(), Label: p.Label()}
}

// CombinationResult holds every statistic for one (region, bucket, period).
type CombinationResult struct {
	Key    string        `json:"key"`
	Region string        `json:"region"`
	Bucket domain.Bucket `json:"bucket"`
	Period PeriodInfo    `json:"period"`

	// Binned is the number of samples counted in the table; Dropped were
	// above the ceiling and excluded from it.
	Binned          int             `json:"binned"`
	Dropped         int             `json:"dropped"`
	Counts          []int           `json:"counts,omitempty"`
	Percentages     Series          `json:"percentages,omitempty"`
	Stagnant        int             `json:"stagnant"`
	StagnantPercent float64         `json:"stagnant_percent"`
	Summary         stats.Summary   `json:"summary"`
	MedianCI        *stats.MedianCI `json:"median_ci,omitempty"`

	Skipped string `json:"skipped,omitempty"`
}

// Computed reports whether the combination produced statistics.
func (c CombinationResult) Computed() bool {
	return c.Skipped == ""
}

// Difference compares one bucket between two periods, later minus earlier.
type Difference struct {
	Bucket  domain.Bucket `json:"bucket"`
	Later   PeriodInfo    `json:"later"`
	Earlier PeriodInfo    `json:"earlier"`
	Counts  []int         `json:"counts,omitempty"`
	Points  Series        `json:"percentage_points,omitempty"`
	Skipped string        `json:"skipped,omitempty"`
}

// SeasonShape is the smoothed average season of one period.
type SeasonShape struct {
	Period  PeriodInfo `json:"period"`
	Window  int        `json:"window"`
	Offsets []int      `json:"offsets,omitempty"`
	Speeds  Series     `json:"speeds,omitempty"`
	Skipped string     `json:"skipped,omitempty"`
}

// TranslationSummary describes storm motion near the region.
type TranslationSummary struct {
	Fixes   int           `json:"fixes"`
	Storms  int           `json:"storms"`
	Summary stats.Summary `json:"summary"`
}

// Report is the full output of one run.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Region            RegionInfo     `json:"region"`
	Locations         []LocationInfo `json:"locations"`
	Slots             int            `json:"slots"`
	MaxSpeedBuckets   int            `json:"max_speed_buckets"`
	StagnantThreshold int            `json:"stagnant_threshold"`
	// MaxObservedSpeed is nil when every sample is missing.
	MaxObservedSpeed *float64 `json:"max_observed_speed,omitempty"`
	MissingSamples   int      `json:"missing_samples"`

	Contamination domain.ContaminationStats `json:"contamination"`
	BestTrack     *domain.BestTrackStats    `json:"best_track,omitempty"`

	Results      []CombinationResult `json:"results"`
	Differences  []Difference        `json:"differences"`
	SeasonShapes []SeasonShape       `json:"season_shapes"`
	Translation  *TranslationSummary `json:"translation_speed,omitempty"`
}

// Result returns the combination for a bucket and period, if present.
func (r *Report) Result(bucket string, p domain.Period) (CombinationResult, bool) {
	for _, c := range r.Results {
		if c.Bucket.Code == bucket && c.Period.Key == p.Key() {
			return c, true
		}
	}
	return CombinationResult{}, false
}

func combinationKey(region domain.Region, b domain.Bucket, p domain.Period) string {
	return region.Key + "_" + b.Code + "_" + p.Key()
}

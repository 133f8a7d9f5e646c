package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/couchcryptid/dlm-steering-stats/internal/domain"
	"github.com/couchcryptid/dlm-steering-stats/internal/observability"
	"github.com/couchcryptid/dlm-steering-stats/internal/stats"
	"github.com/google/uuid"
)

// ErrNoLocations is returned when the region filter leaves no grid points.
var ErrNoLocations = errors.New("no coastal locations in region")

// ReportLoader receives the finished report.
type ReportLoader interface {
	LoadReport(ctx context.Context, report *Report) error
}

// Input is everything one run analyses.
type Input struct {
	Field  *domain.WindField
	Region domain.Region
	// Fixes are the filtered best-track fixes; nil disables the
	// contamination filter and translation speeds.
	Fixes     []domain.CycloneFix
	BestTrack *domain.BestTrackStats
}

// Options tunes the analysis.
type Options struct {
	MaxSpeedBuckets   int
	StagnantThreshold int
	SmoothingWindow   int
	ProximityDegrees  float64
	Bootstrap         stats.BootstrapOptions
	// Rand drives the bootstrap; nil uses the process-global source.
	Rand          stats.Intner
	Contamination domain.ContaminationOptions
	Periods       []domain.Period
	Buckets       []domain.Bucket
}

// DefaultOptions returns the standard battery: every bucket over the whole
// record and both halves.
func DefaultOptions() Options {
	return Options{
		MaxSpeedBuckets:   51,
		StagnantThreshold: 2,
		SmoothingWindow:   12,
		ProximityDegrees:  1.0,
		Bootstrap:         stats.DefaultBootstrapOptions(),
		Contamination:     domain.DefaultContaminationOptions(),
		Periods:           domain.StandardPeriods(),
		Buckets:           domain.AllBuckets(),
	}
}

// Pipeline runs the (region, bucket, period) battery over a wind field.
type Pipeline struct {
	opts    Options
	loaders []ReportLoader
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
	latest  atomic.Pointer[Report]
}

// New creates a Pipeline. Loaders are called in order once the report is built.
func New(opts Options, logger *slog.Logger, metrics *observability.Metrics, loaders ...ReportLoader) *Pipeline {
	return &Pipeline{
		opts:    opts,
		loaders: loaders,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once a run has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no analysis run has completed yet")
	}
	return nil
}

// LatestReport returns the report of the last completed run, or nil.
func (p *Pipeline) LatestReport() *Report {
	return p.latest.Load()
}

// Run filters the field to the region, masks cyclone-contaminated samples,
// computes every combination, and hands the report to the loaders. A
// cancelled context stops the battery between combinations.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Report, error) {
	if in.Field == nil {
		return nil, errors.New("no wind field")
	}
	if err := in.Field.Validate(); err != nil {
		return nil, err
	}
	if p.opts.MaxSpeedBuckets <= 0 {
		return nil, fmt.Errorf("max speed buckets must be positive, got %d", p.opts.MaxSpeedBuckets)
	}

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	field, err := p.selectRegion(in.Field, in.Region)
	if err != nil {
		return nil, err
	}

	clean, cst := domain.RemoveStormWinds(field, in.Fixes, p.opts.Contamination)
	p.metrics.SamplesMasked.Add(float64(cst.Masked))
	p.logger.Info("storm winds removed",
		"fixes_matched", cst.FixesMatched,
		"masked", cst.Masked,
	)

	report := &Report{
		RunID:             uuid.NewString(),
		GeneratedAt:       domain.Clock().Now().UTC(),
		Region:            RegionInfo{Code: in.Region.Code, Key: in.Region.Key, Phrase: in.Region.Phrase},
		Locations:         describeLocations(clean.Locations),
		Slots:             clean.NumSlots(),
		MaxSpeedBuckets:   p.opts.MaxSpeedBuckets,
		StagnantThreshold: p.opts.StagnantThreshold,
		MissingSamples:    clean.CountMissing(),
		Contamination:     cst,
		BestTrack:         in.BestTrack,
	}
	if m := clean.MaxAbsSpeed(); !math.IsNaN(m) {
		report.MaxObservedSpeed = &m
		if int(m) >= p.opts.MaxSpeedBuckets {
			p.logger.Warn("speeds above histogram ceiling will be dropped",
				"max_observed", m,
				"ceiling", p.opts.MaxSpeedBuckets,
			)
		}
	}

	tables := make(map[string]stats.FrequencyTable)
	for _, period := range p.opts.Periods {
		for _, bucket := range p.opts.Buckets {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("run cancelled: %w", err)
			}
			res, table := p.combine(clean, in.Region, bucket, period)
			report.Results = append(report.Results, res)
			if res.Computed() {
				tables[res.Key] = table
			}
		}
	}

	report.Differences = p.differences(in.Region, tables)
	report.SeasonShapes = p.seasonShapes(clean)
	report.Translation = p.translation(in.Fixes, clean.Locations)

	for _, l := range p.loaders {
		if err := l.LoadReport(ctx, report); err != nil {
			return report, fmt.Errorf("load report: %w", err)
		}
	}

	p.latest.Store(report)
	p.ready.Store(true)
	p.logger.Info("analysis complete",
		"run_id", report.RunID,
		"region", in.Region.Code,
		"combinations", len(report.Results),
	)
	return report, nil
}

func (p *Pipeline) selectRegion(field *domain.WindField, region domain.Region) (*domain.WindField, error) {
	coastal, coastalIdx := domain.FilterCoastal(field.Locations)
	_, regionIdx := domain.FilterRegion(coastal, region)
	if len(regionIdx) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoLocations, region.Code)
	}
	idx := make([]int, len(regionIdx))
	for k, i := range regionIdx {
		idx[k] = coastalIdx[i]
	}
	p.metrics.LocationsRetained.Set(float64(len(idx)))
	p.logger.Info("region selected",
		"region", region.Code,
		"archive_locations", len(field.Locations),
		"coastal", len(coastal),
		"retained", len(idx),
	)
	return field.Select(idx), nil
}

func (p *Pipeline) combine(field *domain.WindField, region domain.Region, bucket domain.Bucket, period domain.Period) (CombinationResult, stats.FrequencyTable) {
	start := domain.Clock().Now()
	res := CombinationResult{
		Key:    combinationKey(region, bucket, period),
		Region: region.Code,
		Bucket: bucket,
		Period: periodInfo(period),
	}

	rows := field.PeriodBucket(period, bucket)
	table, err := p.fill(&res, rows)
	if err != nil {
		res.Skipped = err.Error()
		p.metrics.Combinations.WithLabelValues("skipped").Inc()
		p.logger.Debug("combination skipped", "key", res.Key, "reason", res.Skipped)
		return res, nil
	}

	p.metrics.Combinations.WithLabelValues("computed").Inc()
	p.metrics.CombinationDuration.Observe(domain.Clock().Since(start).Seconds())
	return res, table
}

func (p *Pipeline) fill(res *CombinationResult, rows [][]float64) (stats.FrequencyTable, error) {
	summary, err := stats.SummarizeRows(rows)
	res.Summary = summary
	if err != nil {
		return nil, err
	}

	table := stats.NewFrequencyTable(p.opts.MaxSpeedBuckets)
	res.Binned = table.Accumulate(rows)
	res.Dropped = summary.Count - res.Binned
	pct, err := stats.Normalize(table)
	if err != nil {
		return nil, fmt.Errorf("every sample above %d m/s: %w", p.opts.MaxSpeedBuckets, err)
	}
	res.Counts = table
	res.Percentages = pct
	res.Stagnant = table.StagnantCount(p.opts.StagnantThreshold)
	res.StagnantPercent = 100 * float64(res.Stagnant) / float64(res.Binned)

	ci, err := stats.BootstrapMedianCI(domain.Flatten(rows), p.opts.Rand, p.opts.Bootstrap)
	if err != nil {
		p.logger.Warn("bootstrap skipped", "key", res.Key, "error", err)
		return table, nil
	}
	res.MedianCI = &ci
	return table, nil
}

// differences compares each bucket of every later period with every earlier
// one; with the standard periods that is 1998-2016 minus 1979-1997.
func (p *Pipeline) differences(region domain.Region, tables map[string]stats.FrequencyTable) []Difference {
	var out []Difference
	for i, earlier := range p.opts.Periods {
		for _, later := range p.opts.Periods[i+1:] {
			if !disjoint(earlier, later) {
				continue
			}
			for _, bucket := range p.opts.Buckets {
				out = append(out, p.difference(region, bucket, later, earlier, tables))
			}
		}
	}
	return out
}

func (p *Pipeline) difference(region domain.Region, bucket domain.Bucket, later, earlier domain.Period, tables map[string]stats.FrequencyTable) Difference {
	if earlier.FirstSeason > later.FirstSeason {
		later, earlier = earlier, later
	}
	d := Difference{Bucket: bucket, Later: periodInfo(later), Earlier: periodInfo(earlier)}
	lt, lok := tables[combinationKey(region, bucket, later)]
	et, eok := tables[combinationKey(region, bucket, earlier)]
	if !lok || !eok {
		d.Skipped = "a period has no samples"
		return d
	}

	counts, err := stats.Diff(lt, et)
	if err != nil {
		d.Skipped = err.Error()
		return d
	}
	points, err := stats.NormalizedDiff(lt, et)
	if err != nil {
		d.Skipped = err.Error()
		return d
	}
	d.Counts = counts
	d.Points = points
	return d
}

func disjoint(a, b domain.Period) bool {
	return a.EndSeason <= b.FirstSeason || b.EndSeason <= a.FirstSeason
}

func (p *Pipeline) seasonShapes(field *domain.WindField) []SeasonShape {
	out := make([]SeasonShape, 0, len(p.opts.Periods))
	for _, period := range p.opts.Periods {
		shape := SeasonShape{Period: periodInfo(period), Window: p.opts.SmoothingWindow}
		left, right := period.Window(field.NumSlots())
		if left == right {
			shape.Skipped = stats.ErrEmptyBucket.Error()
			out = append(out, shape)
			continue
		}
		speeds, idx, err := stats.AverageAcrossLocationsAndSeasons(field.Interval(left, right), domain.SlotsPerSeason, p.opts.SmoothingWindow)
		if err != nil {
			shape.Skipped = err.Error()
		} else {
			shape.Speeds = speeds
			shape.Offsets = idx
		}
		out = append(out, shape)
	}
	return out
}

func (p *Pipeline) translation(fixes []domain.CycloneFix, locs []domain.Location) *TranslationSummary {
	if len(fixes) == 0 {
		return nil
	}
	speeds := domain.TranslationSpeeds(fixes, locs, p.opts.ProximityDegrees)
	if len(speeds) == 0 {
		return nil
	}
	values := make([]float64, len(speeds))
	storms := make(map[string]struct{})
	for i, s := range speeds {
		values[i] = s.Speed
		storms[s.StormID] = struct{}{}
	}
	summary, err := stats.Summarize(values)
	if err != nil {
		return nil
	}
	return &TranslationSummary{Fixes: len(speeds), Storms: len(storms), Summary: summary}
}

func describeLocations(locs []domain.Location) []LocationInfo {
	out := make([]LocationInfo, len(locs))
	for i, l := range locs {
		out[i] = LocationInfo{Lon: l.Lon, Lat: l.Lat, Segment: domain.ClassifySegment(l)}
	}
	return out
}

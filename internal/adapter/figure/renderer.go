// Package figure renders report figures as PNG files.
package figure

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/dlm-steering-stats/internal/pipeline"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg" // png format
)

const (
	figureWidth  = 8 * vg.Inch
	figureHeight = 5 * vg.Inch
	barWidth     = vg.Points(6)
)

// Renderer writes one histogram per computed combination, one bar chart per
// period difference, and one line per season shape into dir. It implements
// pipeline.ReportLoader.
type Renderer struct {
	dir    string
	logger *slog.Logger
}

// NewRenderer returns a Renderer writing into dir, which is created if needed.
func NewRenderer(dir string, logger *slog.Logger) *Renderer {
	return &Renderer{dir: dir, logger: logger}
}

// LoadReport renders every figure for the report.
func (r *Renderer) LoadReport(ctx context.Context, report *pipeline.Report) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("plot dir: %w", err)
	}

	n := 0
	for _, res := range report.Results {
		if !res.Computed() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		title := fmt.Sprintf("DLM wind speeds, %s, %s %s", report.Region.Phrase, res.Bucket.Phrase, res.Period.Label)
		if err := r.bars(res.Key+"_hist.png", title, "% of samples", res.Percentages); err != nil {
			return err
		}
		n++
	}

	for _, d := range report.Differences {
		if d.Skipped != "" {
			continue
		}
		name := fmt.Sprintf("%s_%s_%s_minus_%s.png", report.Region.Key, d.Bucket.Code, d.Later.Key, d.Earlier.Key)
		title := fmt.Sprintf("%s %s minus %s", d.Bucket.Phrase, d.Later.Label, d.Earlier.Label)
		if err := r.bars(name, title, "percentage points", d.Points); err != nil {
			return err
		}
		n++
	}

	for _, s := range report.SeasonShapes {
		if s.Skipped != "" {
			continue
		}
		name := fmt.Sprintf("%s_season_%s.png", report.Region.Key, s.Period.Key)
		title := fmt.Sprintf("Mean DLM wind speed, %s, %s (%d-slot average)", report.Region.Phrase, s.Period.Label, s.Window)
		if err := r.line(name, title, s.Offsets, s.Speeds); err != nil {
			return err
		}
		n++
	}

	r.logger.Info("figures rendered", "dir", r.dir, "count", n)
	return nil
}

func (r *Renderer) bars(name, title, yLabel string, values []float64) error {
	vals := make(plotter.Values, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals[i] = v
		}
	}
	bars, err := plotter.NewBarChart(vals, barWidth)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	bars.LineStyle.Width = vg.Length(0)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "wind speed (m/s)"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid(), bars)
	return r.save(p, name)
}

// line drops missing points; gaps are bridged.
func (r *Renderer) line(name, title string, offsets []int, speeds []float64) error {
	pts := make(plotter.XYs, 0, len(speeds))
	for i, v := range speeds {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(offsets[i]), Y: v})
	}
	if len(pts) == 0 {
		return nil
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "six-hour slot since May 30"
	p.Y.Label.Text = "wind speed (m/s)"
	p.Add(plotter.NewGrid(), l)
	return r.save(p, name)
}

func (r *Renderer) save(p *plot.Plot, name string) error {
	path := filepath.Join(r.dir, name)
	if err := p.Save(figureWidth, figureHeight, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Package xlsx exports analysis reports as Excel workbooks.
package xlsx

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/couchcryptid/dlm-steering-stats/internal/pipeline"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetSummary     = "Summary"
	SheetCounts      = "Counts"
	SheetPercentages = "Percentages"
	SheetDifferences = "Differences"
	SheetLocations   = "Locations"
)

var summaryHeader = []any{
	"key", "bucket", "period", "binned", "dropped", "missing",
	"mean", "median", "std_dev", "min", "max",
	"ci_lower", "ci_upper", "stagnant", "stagnant_pct", "skipped",
}

// Writer saves each report to a workbook path. It implements
// pipeline.ReportLoader.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter returns a Writer targeting path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// LoadReport writes the workbook, replacing any existing file.
func (w *Writer) LoadReport(_ context.Context, report *pipeline.Report) error {
	f, err := Build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	w.logger.Info("workbook written", "path", w.path, "combinations", len(report.Results))
	return nil
}

// Build lays out the report as a workbook: one summary row per combination,
// bin-by-combination count and percentage grids, the period differences in
// percentage points, and the retained locations.
func Build(report *pipeline.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetCounts, SheetPercentages, SheetDifferences, SheetLocations} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	steps := []func(*excelize.File, *pipeline.Report) error{
		writeSummary,
		writeGrids,
		writeDifferences,
		writeLocations,
	}
	for _, step := range steps {
		if err := step(f, report); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeSummary(f *excelize.File, report *pipeline.Report) error {
	if err := writeRow(f, SheetSummary, 1, summaryHeader); err != nil {
		return err
	}
	for i, r := range report.Results {
		s := r.Summary
		row := []any{
			r.Key, r.Bucket.Code, r.Period.Label, r.Binned, r.Dropped, s.Missing,
			s.Mean, s.Median, s.StdDev, s.Min, s.Max,
			nil, nil, r.Stagnant, r.StagnantPercent, r.Skipped,
		}
		if r.MedianCI != nil {
			row[11], row[12] = r.MedianCI.Lower, r.MedianCI.Upper
		}
		if err := writeRow(f, SheetSummary, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// writeGrids writes bins down the rows and one column per computed combination.
func writeGrids(f *excelize.File, report *pipeline.Report) error {
	counts := []any{"bin"}
	pcts := []any{"bin"}
	var computed []pipeline.CombinationResult
	for _, r := range report.Results {
		if r.Computed() {
			computed = append(computed, r)
			counts = append(counts, r.Key)
			pcts = append(pcts, r.Key)
		}
	}
	if err := writeRow(f, SheetCounts, 1, counts); err != nil {
		return err
	}
	if err := writeRow(f, SheetPercentages, 1, pcts); err != nil {
		return err
	}

	for bin := 0; bin < report.MaxSpeedBuckets; bin++ {
		counts := []any{bin}
		pcts := []any{bin}
		for _, r := range computed {
			counts = append(counts, r.Counts[bin])
			pcts = append(pcts, cellFloat(r.Percentages[bin]))
		}
		if err := writeRow(f, SheetCounts, bin+2, counts); err != nil {
			return err
		}
		if err := writeRow(f, SheetPercentages, bin+2, pcts); err != nil {
			return err
		}
	}
	return nil
}

func writeDifferences(f *excelize.File, report *pipeline.Report) error {
	header := []any{"bin"}
	var diffs []pipeline.Difference
	for _, d := range report.Differences {
		if d.Skipped != "" {
			continue
		}
		diffs = append(diffs, d)
		header = append(header, fmt.Sprintf("%s %s minus %s", d.Bucket.Code, d.Later.Key, d.Earlier.Key))
	}
	if err := writeRow(f, SheetDifferences, 1, header); err != nil {
		return err
	}
	for bin := 0; bin < report.MaxSpeedBuckets; bin++ {
		row := []any{bin}
		for _, d := range diffs {
			row = append(row, cellFloat(d.Points[bin]))
		}
		if err := writeRow(f, SheetDifferences, bin+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeLocations(f *excelize.File, report *pipeline.Report) error {
	if err := writeRow(f, SheetLocations, 1, []any{"lon", "lat", "segment"}); err != nil {
		return err
	}
	for i, l := range report.Locations {
		if err := writeRow(f, SheetLocations, i+2, []any{l.Lon, l.Lat, string(l.Segment)}); err != nil {
			return err
		}
	}
	return nil
}

// cellFloat leaves missing values as empty cells.
func cellFloat(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

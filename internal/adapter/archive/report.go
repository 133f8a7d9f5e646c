package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/dlm-steering-stats/internal/pipeline"
)

// Stdout is the ReportWriter path that selects standard output.
const Stdout = "-"

// ReportWriter encodes each report as indented JSON. It implements
// pipeline.ReportLoader.
type ReportWriter struct {
	path   string
	stdout io.Writer
	logger *slog.Logger
}

// NewReportWriter returns a writer for path. Stdout writes to os.Stdout;
// any other path is created, compressed by extension like an archive.
func NewReportWriter(path string, logger *slog.Logger) *ReportWriter {
	return &ReportWriter{path: path, stdout: os.Stdout, logger: logger}
}

// LoadReport writes the report.
func (w *ReportWriter) LoadReport(_ context.Context, report *pipeline.Report) error {
	if w.path == Stdout {
		return encodeReport(w.stdout, report)
	}

	wc, err := Create(w.path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := encodeReport(wc, report); err != nil {
		wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	w.logger.Info("report written", "path", w.path, "run_id", report.RunID)
	return nil
}

func encodeReport(w io.Writer, report *pipeline.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

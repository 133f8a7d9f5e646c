// Command dlmstats computes deep-layer-mean steering wind statistics for one
// Gulf or Atlantic coastal region.
//
// Usage:
//
//	dlmstats [flags] <data_file> <region_code>
//
// Configuration is read from the environment (see internal/config); flags
// override the matching variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/dlm-steering-stats/internal/adapter/archive"
	"github.com/couchcryptid/dlm-steering-stats/internal/adapter/figure"
	httpadapter "github.com/couchcryptid/dlm-steering-stats/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/dlm-steering-stats/internal/adapter/kafka"
	"github.com/couchcryptid/dlm-steering-stats/internal/adapter/xlsx"
	"github.com/couchcryptid/dlm-steering-stats/internal/config"
	"github.com/couchcryptid/dlm-steering-stats/internal/domain"
	"github.com/couchcryptid/dlm-steering-stats/internal/observability"
	"github.com/couchcryptid/dlm-steering-stats/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("dlmstats", flag.ContinueOnError)
	bestTrack := fs.String("best-track", "", "HURDAT2 best-track file (overrides BEST_TRACK_FILE)")
	out := fs.String("out", "", "report destination, - for stdout (overrides REPORT_OUTPUT)")
	xlsxOut := fs.String("xlsx", "", "Excel workbook path (overrides XLSX_OUTPUT)")
	plotDir := fs.String("plots", "", "figure directory (overrides PLOT_DIR)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: dlmstats [flags] <data_file> <region_code>\n\nregions: %s\n\nflags:\n",
			strings.Join(domain.RegionCodes(), ", "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	dataFile, regionCode := fs.Arg(0), fs.Arg(1)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	override(&cfg.BestTrackFile, *bestTrack)
	override(&cfg.ReportOutput, *out)
	override(&cfg.XLSXOutput, *xlsxOut)
	override(&cfg.PlotDir, *plotDir)

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	region, err := domain.ParseRegion(regionCode)
	if err != nil {
		logger.Error("unknown region", "region", regionCode, "known", domain.RegionCodes())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	in, err := loadInput(ctx, cfg, dataFile, region, logger, metrics)
	if err != nil {
		logger.Error("failed to load input", "error", err)
		return 1
	}

	loaders := []pipeline.ReportLoader{archive.NewReportWriter(cfg.ReportOutput, logger)}
	if cfg.XLSXOutput != "" {
		loaders = append(loaders, xlsx.NewWriter(cfg.XLSXOutput, logger))
	}
	if cfg.PlotDir != "" {
		loaders = append(loaders, figure.NewRenderer(cfg.PlotDir, logger))
	}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		loaders = append(loaders, writer)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	p := pipeline.New(options(cfg), logger, metrics, loaders...)

	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	code := 0
	if _, err := p.Run(ctx, in); err != nil {
		logger.Error("analysis failed", "error", err)
		code = 1
	}

	// With a server configured the report stays available until a signal.
	if srv != nil && code == 0 {
		logger.Info("serving report until interrupted", "addr", cfg.HTTPAddr)
		<-ctx.Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return code
}

// loadInput reads the archive and the optional best track concurrently.
func loadInput(ctx context.Context, cfg *config.Config, dataFile string, region domain.Region, logger *slog.Logger, metrics *observability.Metrics) (pipeline.Input, error) {
	in := pipeline.Input{Region: region}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		field, err := archive.LoadWindField(dataFile)
		if err != nil {
			return err
		}
		in.Field = field
		logger.Info("archive loaded",
			"file", dataFile,
			"locations", len(field.Locations),
			"slots", field.NumSlots(),
		)
		return nil
	})
	if cfg.BestTrackFile != "" {
		g.Go(func() error {
			fixes, st, err := archive.LoadBestTrack(cfg.BestTrackFile, logger)
			if err != nil {
				return err
			}
			in.Fixes = fixes
			in.BestTrack = &st
			metrics.TrackLinesSkipped.Add(float64(st.Skipped))
			metrics.TrackFixesKept.Add(float64(st.Kept))
			logger.Info("best track loaded",
				"file", cfg.BestTrackFile,
				"storms", st.Storms,
				"kept", st.Kept,
				"skipped", st.Skipped,
			)
			return nil
		})
	} else {
		logger.Info("no best track configured, contamination filter disabled")
	}

	if err := g.Wait(); err != nil {
		return pipeline.Input{}, err
	}
	return in, nil
}

func options(cfg *config.Config) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.MaxSpeedBuckets = cfg.MaxSpeedBuckets
	opts.StagnantThreshold = cfg.StagnantThreshold
	opts.SmoothingWindow = cfg.SmoothingWindow
	opts.ProximityDegrees = cfg.ProximityDegrees
	opts.Bootstrap.Resamples = cfg.BootstrapResamples
	if cfg.BootstrapSeed != 0 {
		opts.Rand = rand.New(rand.NewSource(cfg.BootstrapSeed))
	}
	return opts
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

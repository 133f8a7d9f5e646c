package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Inputs and analysis parameters.
	BestTrackFile      string
	MaxSpeedBuckets    int
	StagnantThreshold  int
	SmoothingWindow    int
	ProximityDegrees   float64
	BootstrapResamples int
	BootstrapSeed      int64

	// Outputs.
	ReportOutput string
	XLSXOutput   string
	PlotDir      string

	// Kafka result publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honoured but never
// overrides variables already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	maxBuckets, err := parsePositiveInt("MAX_SPEED_BUCKETS", 51)
	if err != nil {
		return nil, err
	}
	stagnant, err := parseNonNegativeInt("STAGNANT_THRESHOLD", 2)
	if err != nil {
		return nil, err
	}
	window, err := parseNonNegativeInt("SMOOTHING_WINDOW", 12)
	if err != nil {
		return nil, err
	}
	resamples, err := parseNonNegativeInt("BOOTSTRAP_RESAMPLES", 0)
	if err != nil {
		return nil, err
	}

	proximity, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("PROXIMITY_DEGREES", "1.0"), 64)
	if err != nil || proximity <= 0 {
		return nil, errors.New("invalid PROXIMITY_DEGREES")
	}

	seed, err := strconv.ParseInt(sharedcfg.EnvOrDefault("BOOTSTRAP_SEED", "0"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid BOOTSTRAP_SEED")
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		BestTrackFile:      os.Getenv("BEST_TRACK_FILE"),
		MaxSpeedBuckets:    maxBuckets,
		StagnantThreshold:  stagnant,
		SmoothingWindow:    window,
		ProximityDegrees:   proximity,
		BootstrapResamples: resamples,
		BootstrapSeed:      seed,

		ReportOutput: sharedcfg.EnvOrDefault("REPORT_OUTPUT", "-"),
		XLSXOutput:   os.Getenv("XLSX_OUTPUT"),
		PlotDir:      os.Getenv("PLOT_DIR"),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "dlm-steering-stats"),
	}

	if cfg.StagnantThreshold > cfg.MaxSpeedBuckets {
		return nil, errors.New("STAGNANT_THRESHOLD exceeds MAX_SPEED_BUCKETS")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	n, err := parseNonNegativeInt(key, def)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// Package config loads artron settings from defaults, an optional TOML file,
// and ARTRON_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ItIsUday/artron/internal/archive"
	"github.com/ItIsUday/artron/internal/catalog"
	"github.com/ItIsUday/artron/internal/model"
	"github.com/ItIsUday/artron/internal/resolve"
)

// DefaultFile is read from the working directory when ARTRON_CONFIG is unset.
const DefaultFile = "artron.toml"

type Config struct {
	CatalogURL string          `toml:"catalog_url"` // ARTRON_CATALOG_URL
	Columns    catalog.Columns `toml:"columns"`

	CacheFile       string `toml:"cache_file"`        // ARTRON_CACHE_FILE (default "exofop_toi.csv")
	CacheS3Bucket   string `toml:"cache_s3_bucket"`   // ARTRON_CACHE_S3_BUCKET (enables S3 cache when set)
	CacheS3Key      string `toml:"cache_s3_key"`      // ARTRON_CACHE_S3_KEY (default "artron/exofop_toi.csv")
	CacheS3Region   string `toml:"cache_s3_region"`   // ARTRON_CACHE_S3_REGION (default "us-east-1")
	CacheS3Endpoint string `toml:"cache_s3_endpoint"` // ARTRON_CACHE_S3_ENDPOINT (custom endpoint for MinIO)

	ArchiveURL string `toml:"archive_url"` // ARTRON_ARCHIVE_URL
	OutputDir  string `toml:"output_dir"`  // ARTRON_OUTPUT_DIR (default "data")

	MinSector    int      `toml:"min_sector"`   // ARTRON_MIN_SECTOR (default 1)
	MaxSector    int      `toml:"max_sector"`   // ARTRON_MAX_SECTOR (default 26)
	Dispositions []string `toml:"dispositions"` // ARTRON_DISPOSITIONS (comma separated, default "CP,KP")

	Workers     int           `toml:"workers"`      // ARTRON_WORKERS (default 4)
	RateLimit   float64       `toml:"rate_limit"`   // ARTRON_RATE_LIMIT (requests/s, 0 = unlimited)
	HTTPTimeout time.Duration `toml:"http_timeout"` // ARTRON_HTTP_TIMEOUT (default 5m, 0 = none)

	NATSURL     string `toml:"nats_url"`     // ARTRON_NATS_URL (optional, empty = no events)
	DatabaseURL string `toml:"database_url"` // ARTRON_DATABASE_URL (optional, empty = no ledger)
	LogLevel    string `toml:"log_level"`    // ARTRON_LOG_LEVEL (default "info")
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		CatalogURL:    catalog.DefaultURL,
		Columns:       catalog.DefaultColumns,
		CacheFile:     catalog.DefaultCacheFile,
		CacheS3Key:    "artron/" + catalog.DefaultCacheFile,
		CacheS3Region: "us-east-1",
		ArchiveURL:    archive.DefaultBaseURL,
		OutputDir:     "data",
		MinSector:     resolve.DefaultEpochs.Min,
		MaxSector:     resolve.DefaultEpochs.Max,
		Dispositions:  []string{string(model.DispositionConfirmedPlanet), string(model.DispositionKnownPlanet)},
		Workers:       4,
		HTTPTimeout:   5 * time.Minute,
		LogLevel:      "info",
	}
}

// Load builds the configuration. path names a TOML file; when empty,
// ARTRON_CONFIG is used, then DefaultFile. Only an explicitly named file
// must exist.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := true
	if path == "" {
		path = os.Getenv("ARTRON_CONFIG")
	}
	if path == "" {
		path, explicit = DefaultFile, false
	}
	if err := c.loadFile(path, explicit); err != nil {
		return nil, err
	}
	if err := c.loadEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) loadFile(path string, mustExist bool) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return nil
		}
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.CatalogURL, "ARTRON_CATALOG_URL")
	setString(&c.CacheFile, "ARTRON_CACHE_FILE")
	setString(&c.CacheS3Bucket, "ARTRON_CACHE_S3_BUCKET")
	setString(&c.CacheS3Key, "ARTRON_CACHE_S3_KEY")
	setString(&c.CacheS3Region, "ARTRON_CACHE_S3_REGION")
	setString(&c.CacheS3Endpoint, "ARTRON_CACHE_S3_ENDPOINT")
	setString(&c.ArchiveURL, "ARTRON_ARCHIVE_URL")
	setString(&c.OutputDir, "ARTRON_OUTPUT_DIR")
	setString(&c.NATSURL, "ARTRON_NATS_URL")
	setString(&c.DatabaseURL, "ARTRON_DATABASE_URL")
	setString(&c.LogLevel, "ARTRON_LOG_LEVEL")

	if v := os.Getenv("ARTRON_DISPOSITIONS"); v != "" {
		c.Dispositions = splitList(v)
	}

	for _, f := range []struct {
		key string
		dst *int
	}{
		{"ARTRON_MIN_SECTOR", &c.MinSector},
		{"ARTRON_MAX_SECTOR", &c.MaxSector},
		{"ARTRON_WORKERS", &c.Workers},
	} {
		if v := os.Getenv(f.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", f.key, err)
			}
			*f.dst = n
		}
	}

	if v := os.Getenv("ARTRON_RATE_LIMIT"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ARTRON_RATE_LIMIT: %w", err)
		}
		c.RateLimit = r
	}
	if v := os.Getenv("ARTRON_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ARTRON_HTTP_TIMEOUT: %w", err)
		}
		c.HTTPTimeout = d
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.CatalogURL == "" {
		return fmt.Errorf("catalog_url is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.MinSector < 0 || c.MaxSector > resolve.MaxEpoch || c.MinSector > c.MaxSector {
		return fmt.Errorf("sector range %d-%d is invalid (must be within 0-%d)", c.MinSector, c.MaxSector, resolve.MaxEpoch)
	}
	if len(c.Dispositions) == 0 {
		return fmt.Errorf("dispositions must not be empty")
	}
	for _, d := range c.Dispositions {
		if !model.Disposition(d).IsKnown() {
			return fmt.Errorf("unknown disposition %q", d)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %g", c.RateLimit)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative, got %s", c.HTTPTimeout)
	}
	if c.CacheS3Bucket != "" && c.CacheS3Key == "" {
		return fmt.Errorf("cache_s3_key is required when cache_s3_bucket is set")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Epochs returns the configured sector window.
func (c *Config) Epochs() resolve.EpochRange {
	return resolve.EpochRange{Min: c.MinSector, Max: c.MaxSector}
}

// DispositionSet returns the accepted dispositions as typed values.
func (c *Config) DispositionSet() []model.Disposition {
	out := make([]model.Disposition, len(c.Dispositions))
	for i, d := range c.Dispositions {
		out[i] = model.Disposition(d)
	}
	return out
}

// ConfirmedOnly reports whether the accepted dispositions are exactly the
// confirmed and known planet codes.
func (c *Config) ConfirmedOnly() bool {
	var cp, kp bool
	for _, d := range c.DispositionSet() {
		if !d.IsPlanet() {
			return false
		}
		cp = cp || d == model.DispositionConfirmedPlanet
		kp = kp || d == model.DispositionKnownPlanet
	}
	return cp && kp
}

// ParseLevel maps a level name to its slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

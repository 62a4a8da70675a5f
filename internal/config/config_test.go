package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ItIsUday/artron/internal/catalog"
)

// envVars lists every variable Load reads; each test starts with all of them empty.
var envVars = []string{
	"ARTRON_CONFIG", "ARTRON_CATALOG_URL", "ARTRON_CACHE_FILE",
	"ARTRON_CACHE_S3_BUCKET", "ARTRON_CACHE_S3_KEY", "ARTRON_CACHE_S3_REGION",
	"ARTRON_CACHE_S3_ENDPOINT", "ARTRON_ARCHIVE_URL", "ARTRON_OUTPUT_DIR",
	"ARTRON_MIN_SECTOR", "ARTRON_MAX_SECTOR", "ARTRON_DISPOSITIONS",
	"ARTRON_WORKERS", "ARTRON_RATE_LIMIT", "ARTRON_HTTP_TIMEOUT",
	"ARTRON_NATS_URL", "ARTRON_DATABASE_URL", "ARTRON_LOG_LEVEL",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	// Keep a stray artron.toml in the package dir from leaking into tests.
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artron.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearAllEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.CacheFile != "exofop_toi.csv" || cfg.MinSector != 1 || cfg.MaxSector != 26 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Columns != catalog.DefaultColumns {
		t.Errorf("Columns = %+v", cfg.Columns)
	}
}

func TestLoad_File(t *testing.T) {
	clearAllEnv(t)
	path := writeFile(t, `
catalog_url = "http://mirror/toi.csv"
output_dir = "lightcurves"
min_sector = 14
max_sector = 40
dispositions = ["CP", "KP", "PC"]
workers = 8
rate_limit = 2.5
http_timeout = "30s"
nats_url = "nats://localhost:4222"

[columns]
target_id = "TIC"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CatalogURL != "http://mirror/toi.csv" || cfg.OutputDir != "lightcurves" {
		t.Errorf("unexpected strings: %+v", cfg)
	}
	if cfg.MinSector != 14 || cfg.MaxSector != 40 || cfg.Workers != 8 || cfg.RateLimit != 2.5 {
		t.Errorf("unexpected numbers: %+v", cfg)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if diff := cmp.Diff([]string{"CP", "KP", "PC"}, cfg.Dispositions); diff != "" {
		t.Errorf("Dispositions mismatch (-want +got):\n%s", diff)
	}
	if cfg.Columns.TargetID != "TIC" || cfg.Columns.Epochs != catalog.DefaultColumns.Epochs {
		t.Errorf("Columns = %+v", cfg.Columns)
	}
	if got := cfg.Epochs(); got.Min != 14 || got.Max != 40 {
		t.Errorf("Epochs() = %+v", got)
	}
	// Untouched keys keep their defaults.
	if cfg.CacheFile != catalog.DefaultCacheFile {
		t.Errorf("CacheFile = %q", cfg.CacheFile)
	}
}

func TestLoad_ConfigEnvSelectsFile(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("ARTRON_CONFIG", writeFile(t, `workers = 2`))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	clearAllEnv(t)
	if err := os.WriteFile(DefaultFile, []byte(`output_dir = "here"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OutputDir != "here" {
		t.Errorf("OutputDir = %q, want here", cfg.OutputDir)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearAllEnv(t)
	path := writeFile(t, "workers = 8\nmax_sector = 40\n")
	for k, v := range map[string]string{
		"ARTRON_WORKERS":         "16",
		"ARTRON_MAX_SECTOR":      "55",
		"ARTRON_DISPOSITIONS":    " CP , PC ,",
		"ARTRON_RATE_LIMIT":      "0.5",
		"ARTRON_HTTP_TIMEOUT":    "1m",
		"ARTRON_DATABASE_URL":    "postgres://localhost/artron",
		"ARTRON_CACHE_S3_BUCKET": "shared",
		"ARTRON_LOG_LEVEL":       "debug",
	} {
		t.Setenv(k, v)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 16 || cfg.MaxSector != 55 || cfg.RateLimit != 0.5 || cfg.HTTPTimeout != time.Minute {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"CP", "PC"}, cfg.Dispositions); diff != "" {
		t.Errorf("Dispositions mismatch (-want +got):\n%s", diff)
	}
	if cfg.DatabaseURL != "postgres://localhost/artron" || cfg.CacheS3Bucket != "shared" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected strings: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "BadWorkersEnv", env: map[string]string{"ARTRON_WORKERS": "many"}},
		{name: "BadRateEnv", env: map[string]string{"ARTRON_RATE_LIMIT": "fast"}},
		{name: "BadTimeoutEnv", env: map[string]string{"ARTRON_HTTP_TIMEOUT": "soon"}},
		{name: "ZeroWorkers", env: map[string]string{"ARTRON_WORKERS": "0"}},
		{name: "NegativeRate", env: map[string]string{"ARTRON_RATE_LIMIT": "-1"}},
		{name: "InvertedSectors", env: map[string]string{"ARTRON_MIN_SECTOR": "30", "ARTRON_MAX_SECTOR": "10"}},
		{name: "SectorTooLarge", env: map[string]string{"ARTRON_MAX_SECTOR": "10000"}},
		{name: "UnknownDisposition", env: map[string]string{"ARTRON_DISPOSITIONS": "CP,XX"}},
		{name: "UnknownLogLevel", env: map[string]string{"ARTRON_LOG_LEVEL": "loud"}},
		{name: "MalformedFile", file: "workers = "},
		{name: "UnknownKey", file: "wokers = 3"},
		{name: "EmptyDispositions", file: "dispositions = []"},
		{name: "S3BucketWithoutKey", file: "cache_s3_bucket = \"b\"\ncache_s3_key = \"\""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.file != "" {
				path = writeFile(t, tc.file)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearAllEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for a named file that does not exist")
	}
}

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	} {
		got, err := ParseLevel(tc.in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDispositionSet(t *testing.T) {
	cfg := Default()
	got := cfg.DispositionSet()
	if len(got) != 2 || got[0] != "CP" || got[1] != "KP" {
		t.Errorf("DispositionSet() = %v", got)
	}
}

func TestConfirmedOnly(t *testing.T) {
	for _, tc := range []struct {
		dispositions []string
		want         bool
	}{
		{[]string{"CP", "KP"}, true},
		{[]string{"KP", "CP", "KP"}, true},
		{[]string{"CP"}, false},
		{[]string{"CP", "KP", "PC"}, false},
		{nil, false},
	} {
		cfg := Default()
		cfg.Dispositions = tc.dispositions
		if got := cfg.ConfirmedOnly(); got != tc.want {
			t.Errorf("ConfirmedOnly(%v) = %v, want %v", tc.dispositions, got, tc.want)
		}
	}
}

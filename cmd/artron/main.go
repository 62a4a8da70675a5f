// Command artron downloads TESS light curves for confirmed exoplanet hosts.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ItIsUday/artron/internal/config"
	"github.com/ItIsUday/artron/internal/ui"
)

var (
	configPath string
	jsonOutput bool
	verbose    bool
	refresh    bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "artron",
	Short: "Download TESS light curves for confirmed exoplanet hosts",
	Long: `Artron reads the TESS Objects of Interest catalog, keeps confirmed and
known planets, and downloads the TESS-SPOC light curve of every host star
for every sector it was observed in.

With no subcommand it runs the whole pipeline.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, c); err != nil {
			return err
		}
		cfg = c
		logger, err = newLogger(c.LogLevel, verbose)
		if err != nil {
			return err
		}
		ui.SetColor(ui.ShouldUseColor(os.Stderr))
		return nil
	},
	RunE: runPipeline,
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		c.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("workers") {
		c.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("rate") {
		c.RateLimit, _ = flags.GetFloat64("rate")
	}
	if flags.Changed("min-sector") {
		c.MinSector, _ = flags.GetInt("min-sector")
	}
	if flags.Changed("max-sector") {
		c.MaxSector, _ = flags.GetInt("max-sector")
	}
	if flags.Changed("disposition") {
		c.Dispositions, _ = flags.GetStringSlice("disposition")
	}
	return c.Validate()
}

func newLogger(level string, verbose bool) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default $ARTRON_CONFIG or ./artron.toml)")
	pf.BoolVar(&jsonOutput, "json", false, "output as JSON")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	pf.BoolVar(&refresh, "refresh", false, "download the catalog even when a cached copy exists")
	pf.String("output", "", "directory light curves are written to")
	pf.Int("workers", 0, "concurrent downloads")
	pf.Float64("rate", 0, "maximum download requests per second (0 = unlimited)")
	pf.Int("min-sector", 0, "lowest sector to download")
	pf.Int("max-sector", 0, "highest sector to download")
	pf.StringSlice("disposition", nil, "dispositions to keep, e.g. CP,KP,PC (default CP,KP)")

	rootCmd.Flags().Bool("dry-run", false, "resolve and plan, but do not download")

	rootCmd.AddGroup(
		&cobra.Group{ID: "plan", Title: "Planning:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Planning
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(uriCmd)
	rootCmd.AddCommand(manifestCmd)

	// System
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(runsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errDownloadsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ItIsUday/artron/internal/archive"
	"github.com/ItIsUday/artron/internal/config"
	"github.com/ItIsUday/artron/internal/events"
	"github.com/ItIsUday/artron/internal/fetch"
	"github.com/ItIsUday/artron/internal/idgen"
	"github.com/ItIsUday/artron/internal/store"
	"github.com/ItIsUday/artron/internal/store/postgres"
	"github.com/ItIsUday/artron/internal/ui"
)

// errDownloadsFailed marks a run that finished with failed downloads. The
// summary has already been printed, so main only sets the exit code.
var errDownloadsFailed = errors.New("downloads failed")

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	p, err := buildPlan(ctx, cfg, refresh, logger)
	if err != nil {
		return err
	}
	if dryRun {
		return printPlan(cmd.OutOrStdout(), p, jsonOutput)
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	ledger, err := newStore(cfg, logger)
	if err != nil {
		return err
	}
	defer ledger.Close()

	runID, err := idgen.NewRunID()
	if err != nil {
		return err
	}

	runner := fetch.NewRunner(archive.NewMASTClient(cfg.ArchiveURL, httpClient(cfg)), fetch.Config{
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
		RateLimit: cfg.RateLimit,
		Publisher: publisher,
		Store:     ledger,
		Logger:    logger,
		Progress:  progressPrinter(cmd.ErrOrStderr(), len(p.Jobs), jsonOutput),
	})
	sum, runErr := runner.Run(ctx, fetch.RunInfo{
		ID:         runID,
		CatalogURL: p.CatalogURL,
		Targets:    p.Resolution.Len(),
	}, p.Jobs)

	if sum != nil {
		if err := printSummary(cmd.OutOrStdout(), sum, jsonOutput); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", errDownloadsFailed, sum.Failed, sum.Planned)
	}
	return nil
}

// progressPrinter returns a callback that writes one line per finished job.
// JSON output suppresses it so stdout stays machine readable.
func progressPrinter(w io.Writer, total int, quiet bool) func(fetch.Result) {
	if quiet {
		return nil
	}
	done := 0
	return func(r fetch.Result) {
		done++
		label := fmt.Sprintf("TIC %s s%04d", r.TargetID, r.Epoch)
		detail := r.Error
		if r.OK() {
			detail = ui.FormatBytes(r.Bytes)
		}
		fmt.Fprintln(w, ui.ProgressLine(done, total, r.OK(), label, detail))
	}
}

func newPublisher(c *config.Config, log *slog.Logger) (events.Publisher, error) {
	if c.NATSURL == "" {
		log.Debug("events disabled (ARTRON_NATS_URL not set)")
		return &events.NoopPublisher{}, nil
	}
	pub, err := events.NewNATSPublisher(c.NATSURL)
	if err != nil {
		return nil, err
	}
	log.Info("events enabled", "nats_url", c.NATSURL)
	return pub, nil
}

func newStore(c *config.Config, log *slog.Logger) (store.Store, error) {
	if c.DatabaseURL == "" {
		log.Debug("run ledger disabled (ARTRON_DATABASE_URL not set)")
		return store.NoopStore{}, nil
	}
	s, err := postgres.New(c.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info("run ledger enabled")
	return s, nil
}

// Package fetch hands a download plan to the archive client across a bounded
// worker pool and records what happened.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ItIsUday/artron/internal/archive"
	"github.com/ItIsUday/artron/internal/events"
	"github.com/ItIsUday/artron/internal/model"
	"github.com/ItIsUday/artron/internal/resolve"
	"github.com/ItIsUday/artron/internal/store"
)

// DefaultWorkers is used when Config.Workers is not positive.
const DefaultWorkers = 4

// Config configures a Runner. Zero values select no-op collaborators.
type Config struct {
	OutputDir string
	Workers   int
	// RateLimit caps requests per second across all workers. 0 is unlimited.
	RateLimit float64

	Publisher events.Publisher
	Store     store.Store
	Logger    *slog.Logger

	// Progress, if set, is called once per finished job. Calls are serialized.
	Progress func(Result)
}

// Result is the outcome of one job.
type Result struct {
	resolve.Job
	Path  string `json:"path,omitempty"`
	Bytes int64  `json:"bytes"`
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the download succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Summary describes a finished run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Status    string        `json:"status"`
	Planned   int           `json:"planned"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
	Results   []Result      `json:"results"`
}

// Failures returns the failed results in plan order.
func (s *Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// RunInfo is descriptive metadata stored with a run.
type RunInfo struct {
	ID         string
	CatalogURL string
	Targets    int
}

// Runner executes plans.
type Runner struct {
	downloader archive.Downloader
	cfg        Config
	limiter    *rate.Limiter
	progressMu sync.Mutex
}

// NewRunner creates a Runner that downloads through d.
func NewRunner(d archive.Downloader, cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Publisher == nil {
		cfg.Publisher = &events.NoopPublisher{}
	}
	if cfg.Store == nil {
		cfg.Store = store.NoopStore{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{downloader: d, cfg: cfg}
	if cfg.RateLimit > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return r
}

// Run downloads every job. A failed job never cancels the others; its error
// is kept in the summary. Run returns an error only when ctx ends before all
// jobs were attempted, and the summary is returned either way.
func (r *Runner) Run(ctx context.Context, info RunInfo, jobs []resolve.Job) (*Summary, error) {
	log := r.cfg.Logger.With("run", info.ID)
	start := time.Now().UTC()

	run := &model.Run{
		ID:         info.ID,
		Status:     model.RunStatusRunning,
		CatalogURL: info.CatalogURL,
		OutputDir:  r.cfg.OutputDir,
		Targets:    info.Targets,
		Planned:    len(jobs),
		StartedAt:  start,
	}
	if err := r.cfg.Store.CreateRun(ctx, run); err != nil {
		log.Warn("failed to record run", "err", err)
	}
	r.publish(ctx, log, events.TopicRunStarted, events.RunStarted{
		RunID:      info.ID,
		CatalogURL: info.CatalogURL,
		OutputDir:  r.cfg.OutputDir,
		Targets:    info.Targets,
		Planned:    len(jobs),
		StartedAt:  start,
	})
	log.Info("run started", "jobs", len(jobs), "workers", r.cfg.Workers)

	results := make([]Result, len(jobs))
	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = r.fetchOne(ctx, log, info.ID, job)
			return nil
		})
	}
	_ = g.Wait()

	sum := &Summary{
		RunID:    info.ID,
		Planned:  len(jobs),
		Results:  results,
		Duration: time.Since(start),
	}
	for _, res := range results {
		if res.OK() {
			sum.Succeeded++
		} else {
			sum.Failed++
		}
	}

	runErr := ctx.Err()
	sum.Status = string(model.RunStatusComplete)
	if sum.Failed > 0 || runErr != nil {
		sum.Status = string(model.RunStatusFailed)
	}

	finished := time.Now().UTC()
	run.Status = model.RunStatus(sum.Status)
	run.Succeeded = sum.Succeeded
	run.Failed = sum.Failed
	run.FinishedAt = &finished
	switch {
	case runErr != nil:
		run.Error = runErr.Error()
	case sum.Failed > 0:
		run.Error = fmt.Sprintf("%d of %d downloads failed", sum.Failed, sum.Planned)
	}

	// The run context may already be canceled; the ledger and event bus
	// should still hear how it ended.
	finishCtx := context.WithoutCancel(ctx)
	if err := r.cfg.Store.FinishRun(finishCtx, run); err != nil {
		log.Warn("failed to finish run record", "err", err)
	}
	r.publish(finishCtx, log, events.TopicRunFinished, events.RunFinished{
		RunID:     info.ID,
		Status:    sum.Status,
		Succeeded: sum.Succeeded,
		Failed:    sum.Failed,
		Duration:  sum.Duration,
	})
	log.Info("run finished", "status", sum.Status, "succeeded", sum.Succeeded, "failed", sum.Failed, "duration", sum.Duration)

	if runErr != nil {
		return sum, fmt.Errorf("run %s interrupted: %w", info.ID, runErr)
	}
	return sum, nil
}

func (r *Runner) fetchOne(ctx context.Context, log *slog.Logger, runID string, job resolve.Job) Result {
	res := Result{Job: job}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			res.Err = err
		}
	}
	if res.Err == nil {
		if err := ctx.Err(); err != nil {
			res.Err = err
		}
	}
	if res.Err == nil {
		out, err := r.downloader.Download(ctx, job.Identifier, r.cfg.OutputDir)
		res.Path, res.Bytes, res.Err = out.Path, out.Bytes, err
	}

	d := &model.Download{
		RunID:      runID,
		TargetID:   job.TargetID,
		Epoch:      job.Epoch,
		Identifier: job.Identifier,
		Path:       res.Path,
		Bytes:      res.Bytes,
		Status:     model.DownloadStatusSucceeded,
		CreatedAt:  time.Now().UTC(),
	}
	bg := context.WithoutCancel(ctx)
	if res.Err != nil {
		res.Error = res.Err.Error()
		d.Status = model.DownloadStatusFailed
		d.Error = res.Error
		log.Warn("download failed", "target", job.TargetID, "sector", job.Epoch, "err", res.Err)
		r.publish(bg, log, events.TopicDownloadFailed, events.DownloadFailed{
			RunID:      runID,
			TargetID:   job.TargetID,
			Epoch:      job.Epoch,
			Identifier: job.Identifier,
			Error:      res.Error,
		})
	} else {
		log.Debug("downloaded", "target", job.TargetID, "sector", job.Epoch, "path", res.Path, "bytes", res.Bytes)
		r.publish(bg, log, events.TopicDownloadSucceeded, events.DownloadSucceeded{
			RunID:      runID,
			TargetID:   job.TargetID,
			Epoch:      job.Epoch,
			Identifier: job.Identifier,
			Path:       res.Path,
			Bytes:      res.Bytes,
		})
	}
	if err := r.cfg.Store.RecordDownload(bg, d); err != nil {
		log.Warn("failed to record download", "identifier", job.Identifier, "err", err)
	}

	if r.cfg.Progress != nil {
		r.progressMu.Lock()
		r.cfg.Progress(res)
		r.progressMu.Unlock()
	}
	return res
}

func (r *Runner) publish(ctx context.Context, log *slog.Logger, topic string, event any) {
	if err := r.cfg.Publisher.Publish(ctx, topic, event); err != nil {
		log.Warn("failed to publish event", "topic", topic, "err", err)
	}
}

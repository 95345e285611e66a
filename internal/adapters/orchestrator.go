package adapters

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/huangsam/qualityscore/schema"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a single adapter run.
const DefaultTimeout = 5 * time.Minute

// Collection is the outcome of one orchestrated run.
type Collection struct {
	Reports  schema.Reports  // in adapter registration order
	Failures []*AdapterError // adapters that ran and failed
	Skipped  []schema.Tool   // adapters not relevant for the languages
}

// Orchestrator runs adapters concurrently. A failing adapter is logged and
// left out of the collection; it never fails the whole run.
type Orchestrator struct {
	adapters []Adapter
	workers  int
	timeout  time.Duration
	logger   *slog.Logger
}

// NewOrchestrator creates an orchestrator. Non-positive workers or timeout fall back to defaults.
func NewOrchestrator(adapters []Adapter, workers int, timeout time.Duration, logger *slog.Logger) *Orchestrator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{adapters: adapters, workers: workers, timeout: timeout, logger: logger}
}

// Collect runs every applicable adapter against dir.
func (o *Orchestrator) Collect(ctx context.Context, dir string, langs []schema.Language) Collection {
	var out Collection
	var active []Adapter
	for _, a := range o.adapters {
		if a.Applies(langs) {
			active = append(active, a)
		} else {
			out.Skipped = append(out.Skipped, a.Tool())
		}
	}

	reports := make([]schema.Report, len(active))
	failures := make([]*AdapterError, len(active))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, a := range active {
		g.Go(func() error {
			runCtx, cancel := context.WithTimeout(gCtx, o.timeout)
			defer cancel()

			start := time.Now()
			report, err := a.Run(runCtx, dir)
			if err != nil {
				failures[i] = &AdapterError{Tool: a.Tool(), Err: err}
				o.logger.Warn("adapter failed, continuing without its report", "tool", a.Tool(), "error", err)
				return nil
			}
			reports[i] = report
			o.logger.Debug("adapter finished", "tool", a.Tool(), "duration", time.Since(start))
			return nil
		})
	}
	// Goroutines always return nil; failures are collected per slot.
	_ = g.Wait()

	for i := range active {
		if reports[i] != nil {
			out.Reports = append(out.Reports, reports[i])
		}
		if failures[i] != nil {
			out.Failures = append(out.Failures, failures[i])
		}
	}
	return out
}

// Package reportwarm recomputes dashboard reports on a cron schedule so the
// first admin request after a cache expiry is served warm.
package reportwarm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raja1702/computer-storage-solutions/internal/analytics/reports"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

type Refresher interface {
	Refresh(ctx context.Context, name reports.Name, params reports.Params) (*reports.Result, error)
}

type Target struct {
	Report reports.Name
	Params reports.Params
}

// DefaultTargets are the catalog entries that need no caller input.
func DefaultTargets() []Target {
	return []Target{
		{Report: reports.TotalSalesMonthWise},
		{Report: reports.CustomersWithNoRecentOrders},
		{Report: reports.OrderAndCustomerForTopSeller},
	}
}

type Warmer struct {
	log       *logger.Logger
	refresher Refresher
	targets   []Target
	schedule  string
	timeout   time.Duration

	mu   sync.Mutex
	cron *cron.Cron
}

// New validates schedule (standard five-field cron syntax or a descriptor such
// as "@every 5m"). Nothing runs until Start.
func New(log *logger.Logger, refresher Refresher, schedule string, targets []Target, timeout time.Duration) (*Warmer, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("report warm schedule %q: %w", schedule, err)
	}
	if len(targets) == 0 {
		targets = DefaultTargets()
	}
	return &Warmer{
		log:       log.With("job", "ReportWarmer"),
		refresher: refresher,
		targets:   targets,
		schedule:  schedule,
		timeout:   timeout,
	}, nil
}

// WarmOnce refreshes every target in order and returns how many succeeded.
// A failing target is logged and does not stop the rest.
func (w *Warmer) WarmOnce(ctx context.Context) int {
	ok := 0
	for _, t := range w.targets {
		if ctx.Err() != nil {
			break
		}
		runCtx := ctx
		cancel := func() {}
		if w.timeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, w.timeout)
		}
		start := time.Now()
		res, err := w.refresher.Refresh(runCtx, t.Report, t.Params)
		cancel()
		if err != nil {
			w.log.Warn("report warm failed", "report", t.Report, "error", err)
			continue
		}
		ok++
		w.log.Debug("report warmed", "report", t.Report, "rows", res.RowCount, "elapsed_ms", time.Since(start).Milliseconds())
	}
	return ok
}

// Start schedules WarmOnce until ctx is done. Overlapping ticks are skipped.
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cron != nil {
		return nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.schedule, func() { w.WarmOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule report warmer: %w", err)
	}
	w.cron = c
	c.Start()
	w.log.Info("Report warmer started", "schedule", w.schedule, "targets", len(w.targets))

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// Stop waits for a running warm pass to finish.
func (w *Warmer) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

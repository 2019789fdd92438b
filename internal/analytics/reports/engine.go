// Package reports is the analytics engine: a closed catalog of named reports,
// each a declarative plan over the grouping pipeline, executed against a
// commerce.Ledger inside one read snapshot.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/raja1702/computer-storage-solutions/internal/analytics/window"
	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
	"github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

const (
	defaultParallelism = 4
	// MaxBatchSize bounds RunBatch requests.
	MaxBatchSize = 32
)

// Cache stores encoded results. Implementations need not be durable; a
// failing cache never fails a report.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Result is one report invocation's output. Rows holds the report's typed
// slice ([]MonthlySales, []commerce.Order, ...); it is never nil.
type Result struct {
	Report      Name      `json:"report"`
	Params      Params    `json:"params"`
	GeneratedAt time.Time `json:"generatedAt"`
	RowCount    int       `json:"rowCount"`
	Rows        any       `json:"rows"`
	Cached      bool      `json:"cached"`
}

type Request struct {
	Report Name   `json:"report"`
	Params Params `json:"params"`
}

// BatchItem pairs a request with its outcome. Exactly one of Result and Err is set.
type BatchItem struct {
	Request Request
	Result  *Result
	Err     error
}

// Observer receives one call per report run and per cache lookup.
type Observer interface {
	ObserveReport(report, outcome string, rows int, dur time.Duration)
	ObserveCacheLookup(report, result string)
}

type noopObserver struct{}

func (noopObserver) ObserveReport(string, string, int, time.Duration) {}
func (noopObserver) ObserveCacheLookup(string, string)               {}

type Engine struct {
	ledger      commerce.Ledger
	windows     window.Resolver
	log         *logger.Logger
	tracer      trace.Tracer
	observer    Observer
	catalog     []*Definition
	byName      map[Name]*Definition
	cache       Cache
	cacheTTL    time.Duration
	timeout     time.Duration
	parallelism int
}

type Option func(*Engine)

// WithCache enables result caching for ttl. A zero ttl or nil cache disables it.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(e *Engine) {
		if c != nil && ttl > 0 {
			e.cache = c
			e.cacheTTL = ttl
		}
	}
}

// WithTimeout bounds every invocation. Zero means the caller's context alone decides.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithParallelism bounds how many reports RunBatch executes at once.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

func NewEngine(ledger commerce.Ledger, windows window.Resolver, baseLog *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		ledger:      ledger,
		windows:     windows,
		log:         baseLog.With("service", "ReportEngine"),
		tracer:      otel.Tracer("github.com/raja1702/computer-storage-solutions/internal/analytics/reports"),
		observer:    noopObserver{},
		catalog:     catalog(),
		parallelism: defaultParallelism,
	}
	e.byName = make(map[Name]*Definition, len(e.catalog))
	for _, def := range e.catalog {
		e.byName[def.Name] = def
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Definitions lists the catalog in its fixed order.
func (e *Engine) Definitions() []Definition {
	out := make([]Definition, 0, len(e.catalog))
	for _, def := range e.catalog {
		out = append(out, *def)
	}
	return out
}

func (e *Engine) Definition(name Name) (Definition, bool) {
	def, ok := e.byName[name]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// Run executes one report. An empty result is a success with zero rows.
func (e *Engine) Run(ctx context.Context, name Name, params Params) (*Result, error) {
	return e.run(ctx, name, params, true)
}

// Refresh recomputes a report without consulting the cache and stores the
// fresh result when caching is enabled.
func (e *Engine) Refresh(ctx context.Context, name Name, params Params) (*Result, error) {
	return e.run(ctx, name, params, false)
}

func (e *Engine) run(ctx context.Context, name Name, params Params, readCache bool) (*Result, error) {
	op := "reports." + string(name)
	def, ok := e.byName[name]
	if !ok {
		return nil, analytics.NewError(analytics.CodeNotFound, "reports.run", fmt.Sprintf("unknown report %q", name), nil)
	}
	params, err := params.normalize(def)
	if err != nil {
		return nil, err
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	ctx, span := e.tracer.Start(ctx, "reports.run", trace.WithAttributes(
		attribute.String("report.name", string(name)),
	))
	defer span.End()

	start := time.Now()
	key := "report:" + params.cacheKey(name)
	if !readCache {
		span.SetAttributes(attribute.Bool("report.refresh", true))
	} else if res, ok := e.cached(ctx, def, key); ok {
		span.SetAttributes(attribute.Bool("report.cached", true), attribute.Int("report.rows", res.RowCount))
		e.observer.ObserveReport(string(name), "cached", res.RowCount, time.Since(start))
		return res, nil
	}

	res, err := e.execute(ctx, def, params)
	if err != nil {
		err = contextError(ctx, op, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(analytics.CodeOf(err)))
		e.observer.ObserveReport(string(name), string(analytics.CodeOf(err)), 0, time.Since(start))
		e.logFailure(name, params, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("report.rows", res.RowCount))
	e.observer.ObserveReport(string(name), "ok", res.RowCount, time.Since(start))
	e.log.Debug("report computed", "report", name, "rows", res.RowCount, "elapsed_ms", time.Since(start).Milliseconds())

	e.store(ctx, key, res)
	return res, nil
}

func (e *Engine) execute(ctx context.Context, def *Definition, params Params) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	generatedAt := e.windows.Now()
	var (
		rows  any
		count int
	)
	err := e.ledger.ReadSnapshot(ctx, func(view commerce.Ledger) error {
		var err error
		rows, count, err = def.plan.execute(env{
			ctx:     ctx,
			ledger:  view,
			windows: e.windows,
			params:  params,
			op:      "reports." + string(def.Name),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Report:      def.Name,
		Params:      params,
		GeneratedAt: generatedAt,
		RowCount:    count,
		Rows:        rows,
	}, nil
}

// RunBatch runs every request with bounded parallelism. Individual failures
// are reported per item; the returned error covers only the batch itself.
func (e *Engine) RunBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	if len(reqs) == 0 {
		return nil, analytics.InvalidParameter("reports.batch", "at least one report is required")
	}
	if len(reqs) > MaxBatchSize {
		return nil, analytics.InvalidParameter("reports.batch", "at most %d reports per batch, got %d", MaxBatchSize, len(reqs))
	}
	items := make([]BatchItem, len(reqs))
	var g errgroup.Group
	g.SetLimit(e.parallelism)
	for i, req := range reqs {
		items[i].Request = req
		g.Go(func() error {
			res, err := e.Run(ctx, req.Report, req.Params)
			items[i].Result = res
			items[i].Err = err
			return nil
		})
	}
	_ = g.Wait()
	return items, nil
}

type cachedResult struct {
	Report      Name            `json:"report"`
	Params      Params          `json:"params"`
	GeneratedAt time.Time       `json:"generatedAt"`
	RowCount    int             `json:"rowCount"`
	Rows        json.RawMessage `json:"rows"`
}

func (e *Engine) cached(ctx context.Context, def *Definition, key string) (*Result, bool) {
	if e.cache == nil {
		return nil, false
	}
	raw, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.observer.ObserveCacheLookup(string(def.Name), "error")
		e.log.Warn("report cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		e.observer.ObserveCacheLookup(string(def.Name), "miss")
		return nil, false
	}
	var stored cachedResult
	if err := json.Unmarshal(raw, &stored); err != nil {
		e.log.Warn("report cache entry unreadable", "key", key, "error", err)
		return nil, false
	}
	rows, err := def.decode(stored.Rows)
	if err != nil {
		e.log.Warn("report cache rows unreadable", "key", key, "error", err)
		return nil, false
	}
	e.observer.ObserveCacheLookup(string(def.Name), "hit")
	return &Result{
		Report:      stored.Report,
		Params:      stored.Params,
		GeneratedAt: stored.GeneratedAt,
		RowCount:    stored.RowCount,
		Rows:        rows,
		Cached:      true,
	}, true
}

func (e *Engine) store(ctx context.Context, key string, res *Result) {
	if e.cache == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		e.log.Warn("report cache encode failed", "key", key, "error", err)
		return
	}
	if err := e.cache.Set(ctx, key, raw, e.cacheTTL); err != nil {
		e.log.Warn("report cache write failed", "key", key, "error", err)
	}
}

func (e *Engine) logFailure(name Name, params Params, err error) {
	switch analytics.CodeOf(err) {
	case analytics.CodeDataIntegrity:
		e.log.Error("report failed on ledger integrity", "report", name, "customer_id", params.CustomerID, "error", err)
	case analytics.CodeInvalidParameter, analytics.CodeCanceled:
		e.log.Debug("report rejected", "report", name, "error", err)
	default:
		e.log.Warn("report failed", "report", name, "code", analytics.CodeOf(err), "error", err)
	}
}

// contextError makes sure a failure caused by ctx carries the matching code
// even when a store returned it uncoded.
func contextError(ctx context.Context, op string, err error) error {
	var coded *analytics.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return analytics.Wrap(analytics.CodeCanceled, op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return analytics.Wrap(analytics.CodeUnavailable, op, err)
	case ctx.Err() != nil:
		return contextError(context.Background(), op, errors.Join(ctx.Err(), err))
	}
	return analytics.Wrap(analytics.CodeInternal, op, err)
}

package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
	"github.com/abdul-hamid-achik/crudspec/packages/http"
	"github.com/abdul-hamid-achik/crudspec/packages/metrics"
	"github.com/abdul-hamid-achik/crudspec/packages/store"
	"github.com/google/uuid"
)

// DefaultDelay is the pause between two consecutive steps of a run
const DefaultDelay = 500 * time.Millisecond

type Config struct {
	BaseURL        string
	Delay          time.Duration
	Timeout        time.Duration
	FollowRedirect bool
	MaxRedirects   int // 0 keeps http.DefaultMaxRedirects
	ValidateSSL    bool
	Proxy          string
	RateLimit      float64
	DefaultHeaders map[string]string
}

// SleepFunc pauses for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

type Runner struct {
	catalog   *catalog.Catalog
	store     *store.Store
	transport Transport
	executor  *Executor
	config    *Config
	sleep     SleepFunc
	logger    *slog.Logger
}

type RunnerOption func(*Runner)

// WithCatalog replaces the built-in catalog
func WithCatalog(c *catalog.Catalog) RunnerOption {
	return func(r *Runner) {
		r.catalog = c
	}
}

// WithStore shares an existing result store with the runner
func WithStore(s *store.Store) RunnerOption {
	return func(r *Runner) {
		r.store = s
	}
}

// WithTransport replaces the HTTP client built from Config
func WithTransport(t Transport) RunnerOption {
	return func(r *Runner) {
		r.transport = t
	}
}

func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

func WithSleep(fn SleepFunc) RunnerOption {
	return func(r *Runner) {
		r.sleep = fn
	}
}

func NewRunner(cfg *Config, opts ...RunnerOption) *Runner {
	if cfg == nil {
		cfg = &Config{
			Delay:          DefaultDelay,
			Timeout:        http.DefaultTimeout,
			FollowRedirect: true,
			ValidateSSL:    true,
		}
	}

	r := &Runner{
		config: cfg,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.catalog == nil {
		r.catalog = catalog.Default()
	}
	if r.store == nil {
		r.store = store.New()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.transport == nil {
		r.transport = newClient(cfg)
	}

	r.executor = NewExecutor(r.transport, r.store, cfg.BaseURL, r.logger)
	return r
}

func newClient(cfg *Config) *http.Client {
	clientOpts := []http.ClientOption{
		http.WithTimeout(cfg.Timeout),
		http.WithFollowRedirects(cfg.FollowRedirect),
		http.WithMaxRedirects(cfg.MaxRedirects),
		http.WithValidateSSL(cfg.ValidateSSL),
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
	}
	if cfg.RateLimit > 0 {
		clientOpts = append(clientOpts, http.WithRateLimit(cfg.RateLimit))
	}
	if len(cfg.DefaultHeaders) > 0 {
		clientOpts = append(clientOpts, http.WithDefaultHeaders(cfg.DefaultHeaders))
	}
	return http.NewClient(clientOpts...)
}

type RunResult struct {
	ID          string
	StartedAt   time.Time
	Duration    time.Duration
	Steps       []*StepResult
	Responses   int
	Errors      int
	Interrupted bool
	Latency     metrics.Summary
}

// Failed reports whether any executed step settled with an error
func (r *RunResult) Failed() bool {
	return r.Errors > 0
}

type StepResult struct {
	Step     catalog.Step
	State    store.State
	Duration time.Duration
}

func (r *Runner) Catalog() *catalog.Catalog {
	return r.catalog
}

// Store exposes the result store for rendering
func (r *Runner) Store() *store.Store {
	return r.store
}

// Execute runs the step with the given id on its own, without pacing
func (r *Runner) Execute(ctx context.Context, id string) (store.State, error) {
	step, ok := r.catalog.Get(id)
	if !ok {
		return store.State{}, fmt.Errorf("unknown step %q", id)
	}
	return r.executor.ExecuteStep(ctx, step), nil
}

// RunAll executes every catalog step in order
func (r *Runner) RunAll(ctx context.Context) *RunResult {
	return r.runSteps(ctx, r.catalog.Steps())
}

// Run executes the listed steps in catalog order
func (r *Runner) Run(ctx context.Context, ids []string) (*RunResult, error) {
	steps, err := r.catalog.Select(ids)
	if err != nil {
		return nil, err
	}
	return r.runSteps(ctx, steps), nil
}

// Reset clears every recorded result
func (r *Runner) Reset() {
	r.store.Reset()
}

func (r *Runner) runSteps(ctx context.Context, steps []catalog.Step) *RunResult {
	result := &RunResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	latency := metrics.NewLatency()

	r.logger.Debug("run started", "run", result.ID, "steps", len(steps))

	for i, step := range steps {
		if i > 0 {
			if err := r.sleep(ctx, r.config.Delay); err != nil {
				result.Interrupted = true
				break
			}
		} else if ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		state := r.executor.ExecuteStep(ctx, step)
		sr := &StepResult{Step: step, State: state, Duration: state.Duration()}
		result.Steps = append(result.Steps, sr)

		_, failed := state.Err()
		latency.Record(sr.Duration, failed)
		if failed {
			result.Errors++
		} else {
			result.Responses++
		}
	}

	result.Duration = time.Since(result.StartedAt)
	result.Latency = latency.Summary()

	r.logger.Debug("run finished",
		"run", result.ID,
		"responses", result.Responses,
		"errors", result.Errors,
		"interrupted", result.Interrupted,
		"duration", result.Duration,
	)
	return result
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

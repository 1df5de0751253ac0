package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
	"github.com/abdul-hamid-achik/crudspec/packages/http"
	"github.com/abdul-hamid-achik/crudspec/packages/store"
)

// Transport sends one step to the API under test. *http.Client implements it.
type Transport interface {
	Send(ctx context.Context, baseURL string, step catalog.Step) (*http.Response, error)
}

// Executor runs single steps and settles them in a store
type Executor struct {
	transport Transport
	store     *store.Store
	baseURL   string
	logger    *slog.Logger
}

func NewExecutor(transport Transport, s *store.Store, baseURL string, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		transport: transport,
		store:     s,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// ExecuteStep marks step as loading, sends it and settles the result. It
// never fails: every error is stored as a NormalizedError. The returned
// state is the one produced by this call, even when a newer invocation of
// the same step has since superseded it in the store.
func (e *Executor) ExecuteStep(ctx context.Context, step catalog.Step) store.State {
	ticket := e.store.Begin(step.ID)
	e.logger.Debug("step started", "step", step.ID, "method", step.Method, "endpoint", step.Endpoint)

	result := e.send(ctx, step)

	if !e.store.Settle(ticket, result) {
		e.logger.Debug("step result superseded", "step", step.ID)
	}

	state := store.Settled(result)
	if ne, failed := state.Err(); failed {
		e.logger.Debug("step settled", "step", step.ID, "error", ne.Message, "kind", ne.Kind, "duration", ne.Duration)
	} else {
		o, _ := state.Response()
		e.logger.Debug("step settled", "step", step.ID, "status", o.Status, "duration", o.Duration)
	}
	return state
}

func (e *Executor) send(ctx context.Context, step catalog.Step) (result store.Result) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			ne := Normalize(fmt.Errorf("%v", p))
			ne.Duration = time.Since(start)
			result = ne
		}
	}()

	resp, err := e.transport.Send(ctx, e.baseURL, step)
	if err == nil {
		err = http.CheckStatus(resp)
	}
	if err != nil {
		ne := Normalize(err)
		ne.Duration = time.Since(start)
		return ne
	}

	return toOutcome(resp)
}

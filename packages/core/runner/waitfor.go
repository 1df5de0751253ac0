package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
	"github.com/abdul-hamid-achik/crudspec/packages/http"
)

// DefaultWaitInterval is the polling interval of WaitForAPI
const DefaultWaitInterval = 250 * time.Millisecond

// WaitForAPI polls the root of the API under test until it answers with any
// status code or timeout elapses. A missing or invalid base URL fails at once.
func (r *Runner) WaitForAPI(ctx context.Context, timeout, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultWaitInterval
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	probe := catalog.Step{ID: "wait-for-api", Method: catalog.MethodGet, Endpoint: "/"}
	var lastErr error

	r.logger.Debug("waiting for API", "url", r.config.BaseURL, "timeout", timeout, "interval", interval)

	for {
		_, err := r.transport.Send(ctx, r.config.BaseURL, probe)
		if err == nil {
			r.logger.Debug("API is ready", "url", r.config.BaseURL)
			return nil
		}

		var cfgErr *http.ConfigurationError
		if errors.As(err, &cfgErr) {
			return err
		}
		lastErr = err

		if err := r.sleep(ctx, interval); err != nil {
			return fmt.Errorf("API at %s not ready after %v: %w", r.config.BaseURL, timeout, lastErr)
		}
	}
}

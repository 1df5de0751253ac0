package cmd

import "fmt"

// Exit codes for crudspec CLI
const (
	// ExitSuccess indicates the run finished and no step settled with an error
	ExitSuccess = 0

	// ExitStepErrors indicates one or more steps settled with an error
	ExitStepErrors = 1

	// ExitCatalogError indicates an invalid or unreadable catalog file
	ExitCatalogError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitServeError indicates the reference API could not start
	ExitServeError = 4

	// ExitInterrupted indicates the run was stopped by a signal
	ExitInterrupted = 130

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// ExitError carries the process exit code of a failed command
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitErr(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

package store

import (
	"encoding/json"
	"time"
)

// Result is either an Outcome or a NormalizedError
type Result interface {
	isResult()
}

// Outcome is a completed exchange with a success status
type Outcome struct {
	Data       any           `json:"data"`
	Status     int           `json:"status"`
	StatusText string        `json:"statusText"`
	Duration   time.Duration `json:"-"`
}

func (Outcome) isResult() {}

// ErrorKind classifies where a failure came from
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindTransport     ErrorKind = "transport"
	KindServer        ErrorKind = "server"
	KindUnknown       ErrorKind = "unknown"
)

// NormalizedError is the single displayable form of a failed step
type NormalizedError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	// Status is set for server errors only
	Status int `json:"status,omitempty"`
	// Payload is the decoded error body returned by the server, if any
	Payload  any           `json:"payload,omitempty"`
	Duration time.Duration `json:"-"`
}

func (NormalizedError) isResult() {}

// Display returns what a renderer should show for the error. A server
// payload wins over the message.
func (e NormalizedError) Display() string {
	if e.Payload != nil {
		if s, ok := e.Payload.(string); ok {
			return s
		}
		if data, err := json.Marshal(e.Payload); err == nil {
			return string(data)
		}
	}
	return e.Message
}

// State is the execution state of one step
type State struct {
	Loading bool
	Result  Result
}

// Loading is the state written when a step starts
func Loading() State {
	return State{Loading: true}
}

// Settled wraps a result into a settled state
func Settled(r Result) State {
	return State{Result: r}
}

// Response returns the outcome of a successfully settled step
func (s State) Response() (Outcome, bool) {
	o, ok := s.Result.(Outcome)
	return o, ok
}

// Err returns the error of a step that settled with a failure
func (s State) Err() (NormalizedError, bool) {
	e, ok := s.Result.(NormalizedError)
	return e, ok
}

func (s State) Settled() bool {
	return !s.Loading && s.Result != nil
}

// Duration is how long the settled call took
func (s State) Duration() time.Duration {
	switch r := s.Result.(type) {
	case Outcome:
		return r.Duration
	case NormalizedError:
		return r.Duration
	}
	return 0
}

func (s State) valid() bool {
	if s.Loading {
		return s.Result == nil
	}
	return s.Result != nil
}

// MarshalJSON renders the state in its { response, error, loading } shape
func (s State) MarshalJSON() ([]byte, error) {
	out := struct {
		Response *Outcome         `json:"response"`
		Error    *NormalizedError `json:"error"`
		Loading  bool             `json:"loading"`
	}{Loading: s.Loading}

	if o, ok := s.Response(); ok {
		out.Response = &o
	}
	if e, ok := s.Err(); ok {
		out.Error = &e
	}
	return json.Marshal(out)
}

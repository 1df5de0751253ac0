package http

import "fmt"

// MissingAPIURL is the message of the configuration error raised when no
// base URL is configured
const MissingAPIURL = "Missing API URL"

// ConfigurationError means the request could not be built; no network I/O
// was attempted
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TransportError means the exchange could not be completed (DNS, refused
// connection, timeout). No response is available.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a completed exchange whose status indicates failure
type ServerError struct {
	Response *Response
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server responded %s", e.Response.Status)
}

// CheckStatus returns a ServerError when resp has a non-2xx status
func CheckStatus(resp *Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return &ServerError{Response: resp}
}

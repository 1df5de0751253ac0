package runner

import (
	"errors"
	"strings"

	"github.com/abdul-hamid-achik/crudspec/packages/http"
	"github.com/abdul-hamid-achik/crudspec/packages/store"
	"github.com/tidwall/gjson"
)

// FallbackMessage is shown when a failure carries nothing more specific
const FallbackMessage = "An unexpected error occurred"

// messageFields are probed, in order, for a human message in a JSON error body
var messageFields = []string{"error", "message", "detail", "error.message"}

// Normalize turns any failure of a step into its single displayable form.
// A server-provided error body is preferred, then the error's own message,
// then FallbackMessage.
func Normalize(err error) store.NormalizedError {
	var (
		cfgErr       *http.ConfigurationError
		transportErr *http.TransportError
		serverErr    *http.ServerError
	)

	switch {
	case errors.As(err, &serverErr):
		return normalizeServer(serverErr.Response)
	case errors.As(err, &cfgErr):
		return store.NormalizedError{Kind: store.KindConfiguration, Message: messageOr(cfgErr.Error())}
	case errors.As(err, &transportErr):
		msg := ""
		if transportErr.Err != nil {
			msg = transportErr.Err.Error()
		}
		return store.NormalizedError{Kind: store.KindTransport, Message: messageOr(msg)}
	case err != nil:
		return store.NormalizedError{Kind: store.KindUnknown, Message: messageOr(err.Error())}
	}
	return store.NormalizedError{Kind: store.KindUnknown, Message: FallbackMessage}
}

func normalizeServer(resp *http.Response) store.NormalizedError {
	ne := store.NormalizedError{
		Kind:   store.KindServer,
		Status: resp.StatusCode,
	}

	body := strings.TrimSpace(resp.BodyString())
	switch {
	case decodable(resp, body):
		parsed := gjson.Parse(body)
		ne.Payload = parsed.Value()
		ne.Message = extractMessage(parsed)
		if ne.Message == "" {
			ne.Message = body
		}
	case body != "":
		ne.Payload = body
		ne.Message = body
	default:
		ne.Message = messageOr(strings.TrimSpace(resp.Status))
	}

	return ne
}

func extractMessage(doc gjson.Result) string {
	if doc.Type == gjson.String {
		return doc.String()
	}
	for _, path := range messageFields {
		if v := doc.Get(path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func messageOr(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return FallbackMessage
	}
	return msg
}

// decodable reports whether body should be decoded as JSON. A body declared
// as another content type stays text even when it parses.
func decodable(resp *http.Response, body string) bool {
	if body == "" || !gjson.Valid(body) {
		return false
	}
	return resp.IsJSON() || resp.ContentType() == ""
}

// toOutcome converts a successful response into an Outcome. JSON bodies are
// decoded, anything else is kept as text.
func toOutcome(resp *http.Response) store.Outcome {
	o := store.Outcome{
		Status:     resp.StatusCode,
		StatusText: resp.StatusText(),
		Duration:   resp.Duration,
	}

	body := strings.TrimSpace(resp.BodyString())
	switch {
	case body == "":
	case decodable(resp, body):
		o.Data = gjson.Parse(body).Value()
	default:
		o.Data = resp.BodyString()
	}
	return o
}

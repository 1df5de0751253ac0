package http

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
)

var jsonHeaders = map[string]string{
	"Content-Type": "application/json",
	"Accept":       "application/json",
}

// ResolveURL joins baseURL and endpoint. It fails with a ConfigurationError
// when baseURL is empty or not an absolute http(s) URL.
func ResolveURL(baseURL, endpoint string) (string, error) {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		return "", &ConfigurationError{Message: MissingAPIURL}
	}
	if err := ValidateURL(base); err != nil {
		return "", &ConfigurationError{Message: "Invalid API URL", Err: err}
	}
	return strings.TrimRight(base, "/") + endpoint, nil
}

// Send issues the request described by step against baseURL.
//
// A response is returned for any completed exchange, whatever its status;
// use CheckStatus to classify it. Errors are *ConfigurationError when the
// request could not be built and *TransportError when the exchange failed.
func (c *Client) Send(ctx context.Context, baseURL string, step catalog.Step) (*Response, error) {
	target, err := ResolveURL(baseURL, step.Endpoint)
	if err != nil {
		return nil, err
	}

	var resp *Response
	switch step.Method {
	case catalog.MethodGet:
		resp, err = c.Get(ctx, target, map[string]string{"Accept": "application/json"})
	case catalog.MethodDelete:
		resp, err = c.Delete(ctx, target, map[string]string{"Accept": "application/json"})
	case catalog.MethodPost, catalog.MethodPut:
		body, merr := json.Marshal(step.Body)
		if merr != nil {
			return nil, &ConfigurationError{Message: fmt.Sprintf("Invalid body for %s", step.ID), Err: merr}
		}
		if step.Method == catalog.MethodPost {
			resp, err = c.Post(ctx, target, body, jsonHeaders)
		} else {
			resp, err = c.Put(ctx, target, body, jsonHeaders)
		}
	default:
		return nil, &ConfigurationError{Message: fmt.Sprintf("Unsupported method %s", step.Method)}
	}

	if err != nil {
		return nil, &TransportError{Method: step.Method, URL: target, Err: err}
	}
	return resp, nil
}

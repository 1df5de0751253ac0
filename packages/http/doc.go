// Package http is the transport adapter used to execute catalog steps.
//
// It wraps the standard library's http package with additional features:
//   - Configurable timeouts, redirects, proxy and TLS verification
//   - An optional client-side request rate cap
//   - Method-specific dispatch of a step against a base URL
//   - Typed errors separating configuration, transport and server failures
package http

// Package http provides the HTTP client used to execute resolved requests
// and to talk to the workspace service.
//
// It wraps the standard library's http package with additional features:
//   - Configurable timeouts
//   - Redirect handling
//   - Default headers applied to every request
//   - Proxy and TLS verification controls
package http

// Package httpapi serves the college REST API: a login endpoint that issues
// bearer tokens and the bearer-gated /students collection, plus /healthz and
// /metrics.
//
// Routes use the net/http method-and-wildcard patterns, for example
// "PUT /students/{id}". Every error body has the shape {"detail": "..."}.
package httpapi

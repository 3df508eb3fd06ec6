// Package client talks to the Second Brain REST API.
//
// # Overview
//
// Client is the transport contract used by the CLI stores. HTTPClient is
// the JSON-over-HTTP implementation: it prefixes every call with the API
// base path, attaches the bearer token set via SetToken, and decodes the
// server's {"message": ...} error bodies.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses come back as
// *APIError, which unwraps to the matching common sentinel (ErrorNotFound,
// ErrorForbidden, ErrorGone, ErrorUnauthorized, ErrorValidation), so callers
// can match with errors.Is and still show the server's message.
package client

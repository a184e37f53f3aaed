// Package api handles incoming HTTP requests, request validation and response
// formatting. It is a thin adapter over the station and card services: every
// handler decodes input, calls one use case and maps the result or error to a
// JSON response.
package api

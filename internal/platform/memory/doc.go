// Package memory provides in-memory implementations of the store interfaces.
// They are the reference behaviour the PostgreSQL and MongoDB backends are
// checked against, and the default backend for local development and tests.
package memory

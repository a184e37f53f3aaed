// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store. Queries go through database/sql with
// the pgx driver; the schema is managed by embedded goose migrations.
//
// Stores accept either a *sql.DB or a *sql.Tx. Multi-statement operations
// (Atomically, card updates) open their own transaction when given a *sql.DB
// and join the caller's transaction when given a *sql.Tx.
package postgres

// Package store defines the repository contracts for stations, cards and the
// card ledger. The interfaces abstract the persistence backend (memory,
// PostgreSQL, MongoDB) from the use cases, which never branch on backend
// identity. Contract tests shared by every backend live in storetest.
package store

// Package mongodb provides MongoDB implementations of the store interfaces
// defined in internal/store.
//
// Integer IDs are allocated from a counters collection with an atomic $inc, so
// an ID is never handed out twice even after the row holding it is removed.
// Multi-document writes run in session transactions, which require the server
// to be a replica set member (a single-node replica set is enough).
package mongodb

// Package domain contains the core business entities of the transit system:
// stations with a soft-delete lifecycle, stored-value cards, and the immutable
// transaction ledger derived from card balance changes. It is independent of any
// persistence or delivery mechanism.
package domain

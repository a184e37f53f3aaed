// Package storetest provides the behavioural contract shared by every
// store.StationStore and store.CardStore implementation. Backends call
// RunStationStoreTests and RunCardStoreTests from their own tests with a
// factory that returns an empty store whose ID sequences start at 1.
package storetest

package store

import (
	"context"

	"github.com/phrazzld/transit-api/internal/domain"
)

// NameCheck is the result of StationStore.VerifyNameAlreadyExists.
type NameCheck struct {
	// Matched is the station holding the name, or nil when no other row has it.
	// It may be a deleted station.
	Matched *domain.Station

	// AlreadyExists is true when a row other than the excluded one holds the name.
	AlreadyExists bool
}

// StationStore defines the interface for station data persistence.
// All implementations must behave identically; see storetest for the contract suite.
type StationStore interface {
	// Save inserts a station without an ID, assigning the next ID onto the entity,
	// or overwrites name, line and deleted flag of an existing one.
	// Returns a NotFound error if the station has an ID that no longer exists.
	Save(ctx context.Context, station *domain.Station) error

	// FindAll returns every non-deleted station in insertion order.
	FindAll(ctx context.Context) ([]*domain.Station, error)

	// FindByID retrieves a station by ID.
	// Returns a NotFound error if the station does not exist or is deleted.
	FindByID(ctx context.Context, id int64) (*domain.Station, error)

	// FindByName retrieves the non-deleted station with the given name.
	// Returns a NotFound error if there is none.
	FindByName(ctx context.Context, name string) (*domain.Station, error)

	// VerifyNameAlreadyExists looks for any station, deleted or not, holding name.
	// The row with ID excludeID is ignored; pass 0 to exclude nothing.
	// When several rows match, the active one wins, then the lowest ID.
	VerifyNameAlreadyExists(ctx context.Context, name string, excludeID int64) (NameCheck, error)

	// Delete permanently removes a station.
	// Returns a NotFound error if the station does not exist.
	Delete(ctx context.Context, id int64) error

	// DeleteAll soft-deletes every active station and returns how many changed.
	DeleteAll(ctx context.Context) (int64, error)

	// RestoreAll restores every deleted station and returns how many changed.
	RestoreAll(ctx context.Context) (int64, error)

	// Atomically runs fn with a store bound to a single unit of work.
	// If fn returns an error none of the writes made through that store are kept.
	Atomically(ctx context.Context, fn func(ctx context.Context, tx StationStore) error) error
}

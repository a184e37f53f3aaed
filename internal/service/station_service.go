package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/store"
)

// AddStationInput carries the values for a new station.
type AddStationInput struct {
	Name string
	Line string
}

// UpdateStationInput carries a partial station update. Nil fields are left unchanged.
type UpdateStationInput struct {
	Name *string
	Line *string
}

// StationService provides the station use cases.
type StationService interface {
	// Add creates a station. If a deleted station already holds the name, that
	// station is restored with the new line instead of allocating a new ID.
	// Returns a UniqueField error if an active station holds the name.
	Add(ctx context.Context, input AddStationInput) (*domain.Station, error)

	// Update applies a partial update to an active station. If a deleted station
	// holds the new name it is permanently removed in the same unit of work.
	// Returns a UniqueField error if an active station holds the new name.
	Update(ctx context.Context, id int64, input UpdateStationInput) (*domain.Station, error)

	// Remove soft-deletes an active station.
	Remove(ctx context.Context, id int64) error

	// RemoveAll soft-deletes every active station and returns how many changed.
	RemoveAll(ctx context.Context) (int64, error)

	// RestoreAll restores every deleted station and returns how many changed.
	RestoreAll(ctx context.Context) (int64, error)

	// List returns the active stations in insertion order.
	List(ctx context.Context) ([]*domain.Station, error)

	// Get returns an active station by ID.
	Get(ctx context.Context, id int64) (*domain.Station, error)
}

// stationServiceImpl implements the StationService interface
type stationServiceImpl struct {
	stations store.StationStore
	logger   *slog.Logger
}

// NewStationService creates a new StationService.
// It returns an error if the store is nil.
func NewStationService(stations store.StationStore, logger *slog.Logger) (StationService, error) {
	if stations == nil {
		return nil, nilDependency("stations")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &stationServiceImpl{
		stations: stations,
		logger:   logger.With(slog.String("component", "station_service")),
	}, nil
}

// Add implements StationService.Add
func (s *stationServiceImpl) Add(ctx context.Context, input AddStationInput) (*domain.Station, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	candidate, err := domain.NewStation(input.Name, input.Line)
	if err != nil {
		log.Debug("invalid station input", slog.String("error", err.Error()))
		return nil, err
	}

	var added *domain.Station
	err = s.stations.Atomically(ctx, func(ctx context.Context, tx store.StationStore) error {
		check, err := tx.VerifyNameAlreadyExists(ctx, candidate.Name, 0)
		if err != nil {
			return err
		}

		if !check.AlreadyExists {
			station := *candidate
			if err := tx.Save(ctx, &station); err != nil {
				return err
			}
			added = &station
			return nil
		}

		if !check.Matched.IsDeleted {
			return nameTaken(candidate.Name, check.Matched.ID)
		}

		// Reactivate the deleted row that holds the name.
		station := *check.Matched
		station.Restore()
		if err := station.Update(domain.StationChanges{Line: &candidate.Line}); err != nil {
			return err
		}
		if err := tx.Save(ctx, &station); err != nil {
			return err
		}
		log.Info("deleted station reactivated by add",
			slog.Int64("station_id", station.ID),
			slog.String("name", station.Name))
		added = &station
		return nil
	})
	if err != nil {
		return nil, s.wrap("add", "failed to add station", err)
	}

	log.Info("station added",
		slog.Int64("station_id", added.ID),
		slog.String("name", added.Name))
	return added, nil
}

// Update implements StationService.Update
func (s *stationServiceImpl) Update(
	ctx context.Context,
	id int64,
	input UpdateStationInput,
) (*domain.Station, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Station
	err := s.stations.Atomically(ctx, func(ctx context.Context, tx store.StationStore) error {
		station, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if err := station.Update(domain.StationChanges{Name: input.Name, Line: input.Line}); err != nil {
			return err
		}

		check, err := tx.VerifyNameAlreadyExists(ctx, station.Name, station.ID)
		if err != nil {
			return err
		}

		if check.AlreadyExists {
			if !check.Matched.IsDeleted {
				return nameTaken(station.Name, check.Matched.ID)
			}

			// The deleted holder gives up the name for good.
			if err := tx.Delete(ctx, check.Matched.ID); err != nil {
				return err
			}
			log.Info("deleted station evicted by rename",
				slog.Int64("evicted_id", check.Matched.ID),
				slog.Int64("station_id", station.ID))
		}

		if err := tx.Save(ctx, station); err != nil {
			return err
		}
		updated = station
		return nil
	})
	if err != nil {
		return nil, s.wrap("update", "failed to update station", err)
	}

	log.Info("station updated", slog.Int64("station_id", updated.ID))
	return updated, nil
}

// Remove implements StationService.Remove
func (s *stationServiceImpl) Remove(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.stations.Atomically(ctx, func(ctx context.Context, tx store.StationStore) error {
		station, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		station.Delete()
		return tx.Save(ctx, station)
	})
	if err != nil {
		return s.wrap("remove", "failed to remove station", err)
	}

	log.Info("station removed", slog.Int64("station_id", id))
	return nil
}

// RemoveAll implements StationService.RemoveAll
func (s *stationServiceImpl) RemoveAll(ctx context.Context) (int64, error) {
	n, err := s.stations.DeleteAll(ctx)
	if err != nil {
		return 0, s.wrap("remove_all", "failed to remove stations", err)
	}
	return n, nil
}

// RestoreAll implements StationService.RestoreAll
func (s *stationServiceImpl) RestoreAll(ctx context.Context) (int64, error) {
	n, err := s.stations.RestoreAll(ctx)
	if err != nil {
		return 0, s.wrap("restore_all", "failed to restore stations", err)
	}
	return n, nil
}

// List implements StationService.List
func (s *stationServiceImpl) List(ctx context.Context) ([]*domain.Station, error) {
	stations, err := s.stations.FindAll(ctx)
	if err != nil {
		return nil, s.wrap("list", "failed to list stations", err)
	}
	return stations, nil
}

// Get implements StationService.Get
func (s *stationServiceImpl) Get(ctx context.Context, id int64) (*domain.Station, error) {
	station, err := s.stations.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrap("get", "failed to get station", err)
	}
	return station, nil
}

func (s *stationServiceImpl) wrap(op, msg string, err error) error {
	if isDomainError(err) {
		return err
	}
	return NewStationServiceError(op, msg, err)
}

func nameTaken(name string, holderID int64) error {
	return domain.NewUniqueFieldError("name",
		fmt.Sprintf("%q is already used by station %d", name, holderID))
}

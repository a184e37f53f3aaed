package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/store"
)

const stationColumns = `id, name, line, is_deleted`

// PostgresStationStore implements the store.StationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStationStore struct {
	db     store.DBTX
	conn   store.TxBeginner // nil when db is already a transaction
	logger *slog.Logger
}

// NewPostgresStationStore creates a new PostgreSQL implementation of the StationStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresStationStore(db store.DBTX, logger *slog.Logger) *PostgresStationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	conn, _ := db.(store.TxBeginner)
	return &PostgresStationStore{
		db:     db,
		conn:   conn,
		logger: logger.With(slog.String("component", "station_store"), slog.String("backend", "postgres")),
	}
}

// Ensure PostgresStationStore implements store.StationStore interface
var _ store.StationStore = (*PostgresStationStore)(nil)

// WithTx returns a store that issues all queries on tx.
func (s *PostgresStationStore) WithTx(tx *sql.Tx) *PostgresStationStore {
	return &PostgresStationStore{
		db:     tx,
		logger: s.logger,
	}
}

// Save implements store.StationStore.Save
// Returns store.ErrDuplicate if another active station already uses the name.
func (s *PostgresStationStore) Save(ctx context.Context, station *domain.Station) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !station.IsPersisted() {
		query := `
			INSERT INTO stations (name, line, is_deleted)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		var id int64
		err := s.db.QueryRowContext(ctx, query, station.Name, station.Line, station.IsDeleted).Scan(&id)
		if err != nil {
			log.Error("failed to insert station",
				slog.String("error", err.Error()),
				slog.String("name", station.Name))
			return store.NewStoreError(store.EntityStation, "insert", "failed to insert station", MapError(err))
		}

		station.ID = id
		log.Debug("station inserted", slog.Int64("station_id", id))
		return nil
	}

	query := `
		UPDATE stations
		SET name = $1, line = $2, is_deleted = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, station.Name, station.Line, station.IsDeleted, station.ID)
	if err != nil {
		log.Error("failed to update station",
			slog.String("error", err.Error()),
			slog.Int64("station_id", station.ID))
		return store.NewStoreError(store.EntityStation, "update", "failed to update station", MapError(err))
	}

	n, err := rowsAffected(result)
	if err != nil {
		return store.NewStoreError(store.EntityStation, "update", "failed to update station", err)
	}
	if n == 0 {
		log.Debug("station not found for update", slog.Int64("station_id", station.ID))
		return store.StationNotFound(station.ID)
	}

	log.Debug("station updated", slog.Int64("station_id", station.ID))
	return nil
}

// FindAll implements store.StationStore.FindAll
func (s *PostgresStationStore) FindAll(ctx context.Context) ([]*domain.Station, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + stationColumns + ` FROM stations WHERE is_deleted = FALSE ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query stations", slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.EntityStation, "find_all", "failed to query stations", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	stations := make([]*domain.Station, 0)
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, store.NewStoreError(store.EntityStation, "find_all", "failed to scan station", err)
		}
		stations = append(stations, station)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(store.EntityStation, "find_all", "failed to iterate stations", err)
	}

	log.Debug("stations listed", slog.Int("count", len(stations)))
	return stations, nil
}

// FindByID implements store.StationStore.FindByID
func (s *PostgresStationStore) FindByID(ctx context.Context, id int64) (*domain.Station, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + stationColumns + ` FROM stations WHERE id = $1 AND is_deleted = FALSE`
	station, err := scanStation(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			log.Debug("station not found", slog.Int64("station_id", id))
			return nil, store.StationNotFound(id)
		}
		log.Error("failed to get station",
			slog.String("error", err.Error()),
			slog.Int64("station_id", id))
		return nil, store.NewStoreError(store.EntityStation, "find_by_id", "failed to get station", MapError(err))
	}

	return station, nil
}

// FindByName implements store.StationStore.FindByName
func (s *PostgresStationStore) FindByName(ctx context.Context, name string) (*domain.Station, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + stationColumns + `
		FROM stations
		WHERE name = $1 AND is_deleted = FALSE
		ORDER BY id
		LIMIT 1
	`
	station, err := scanStation(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NewNotFoundError(store.EntityStation, "name "+name)
		}
		log.Error("failed to get station by name", slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.EntityStation, "find_by_name", "failed to get station", MapError(err))
	}

	return station, nil
}

// VerifyNameAlreadyExists implements store.StationStore.VerifyNameAlreadyExists
// IDs start at 1, so excluding ID 0 excludes nothing.
func (s *PostgresStationStore) VerifyNameAlreadyExists(
	ctx context.Context,
	name string,
	excludeID int64,
) (store.NameCheck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + stationColumns + `
		FROM stations
		WHERE name = $1 AND id <> $2
		ORDER BY is_deleted ASC, id ASC
		LIMIT 1
	`
	station, err := scanStation(s.db.QueryRowContext(ctx, query, name, excludeID))
	if err != nil {
		if isNoRows(err) {
			return store.NameCheck{}, nil
		}
		log.Error("failed to check station name", slog.String("error", err.Error()))
		return store.NameCheck{}, store.NewStoreError(
			store.EntityStation, "verify_name", "failed to check station name", MapError(err))
	}

	return store.NameCheck{Matched: station, AlreadyExists: true}, nil
}

// Delete implements store.StationStore.Delete
func (s *PostgresStationStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete station",
			slog.String("error", err.Error()),
			slog.Int64("station_id", id))
		return store.NewStoreError(store.EntityStation, "delete", "failed to delete station", MapError(err))
	}

	n, err := rowsAffected(result)
	if err != nil {
		return store.NewStoreError(store.EntityStation, "delete", "failed to delete station", err)
	}
	if n == 0 {
		return store.StationNotFound(id)
	}

	log.Debug("station removed", slog.Int64("station_id", id))
	return nil
}

// DeleteAll implements store.StationStore.DeleteAll
func (s *PostgresStationStore) DeleteAll(ctx context.Context) (int64, error) {
	return s.setDeleted(ctx, true, "delete_all")
}

// RestoreAll implements store.StationStore.RestoreAll
func (s *PostgresStationStore) RestoreAll(ctx context.Context) (int64, error) {
	return s.setDeleted(ctx, false, "restore_all")
}

func (s *PostgresStationStore) setDeleted(ctx context.Context, deleted bool, op string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE stations SET is_deleted = $1 WHERE is_deleted <> $1`, deleted)
	if err != nil {
		log.Error("failed to flip station deleted flags",
			slog.String("error", err.Error()),
			slog.String("operation", op))
		return 0, store.NewStoreError(store.EntityStation, op, "failed to update stations", MapError(err))
	}

	n, err := rowsAffected(result)
	if err != nil {
		return 0, store.NewStoreError(store.EntityStation, op, "failed to update stations", err)
	}

	log.Info("station deleted flags updated",
		slog.String("operation", op),
		slog.Int64("count", n))
	return n, nil
}

// Atomically implements store.StationStore.Atomically
// A store built on a transaction runs fn directly inside it.
func (s *PostgresStationStore) Atomically(
	ctx context.Context,
	fn func(ctx context.Context, tx store.StationStore) error,
) error {
	if s.conn == nil {
		return fn(ctx, s)
	}

	return store.RunInTransaction(ctx, s.conn, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.WithTx(tx))
	})
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row rowScanner) (*domain.Station, error) {
	var station domain.Station
	if err := row.Scan(&station.ID, &station.Name, &station.Line, &station.IsDeleted); err != nil {
		return nil, err
	}
	return &station, nil
}

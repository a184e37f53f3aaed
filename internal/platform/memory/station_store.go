package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/store"
)

// stationState is the data guarded by MemoryStationStore.mu.
// rows are kept in ID order, which is insertion order.
type stationState struct {
	rows   []*domain.Station
	lastID int64
}

func (st *stationState) clone() *stationState {
	rows := make([]*domain.Station, len(st.rows))
	for i, row := range st.rows {
		cp := *row
		rows[i] = &cp
	}
	return &stationState{rows: rows, lastID: st.lastID}
}

func (st *stationState) index(id int64) int {
	for i, row := range st.rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

// MemoryStationStore implements store.StationStore in process memory.
type MemoryStationStore struct {
	mu     sync.Mutex
	state  *stationState
	logger *slog.Logger
}

// NewMemoryStationStore creates an empty station store.
// If logger is nil, a default logger will be used.
func NewMemoryStationStore(logger *slog.Logger) *MemoryStationStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &MemoryStationStore{
		state:  &stationState{},
		logger: logger.With(slog.String("component", "station_store"), slog.String("backend", "memory")),
	}
}

// Ensure MemoryStationStore implements store.StationStore interface
var _ store.StationStore = (*MemoryStationStore)(nil)

// Save implements store.StationStore.Save
func (s *MemoryStationStore) Save(ctx context.Context, station *domain.Station) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !station.IsPersisted() {
		s.state.lastID++
		station.ID = s.state.lastID
		cp := *station
		s.state.rows = append(s.state.rows, &cp)
		log.Debug("station inserted", slog.Int64("station_id", station.ID))
		return nil
	}

	i := s.state.index(station.ID)
	if i < 0 {
		return store.StationNotFound(station.ID)
	}
	cp := *station
	s.state.rows[i] = &cp
	log.Debug("station updated",
		slog.Int64("station_id", station.ID),
		slog.Bool("is_deleted", station.IsDeleted))
	return nil
}

// FindAll implements store.StationStore.FindAll
func (s *MemoryStationStore) FindAll(ctx context.Context) ([]*domain.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stations := make([]*domain.Station, 0, len(s.state.rows))
	for _, row := range s.state.rows {
		if row.IsDeleted {
			continue
		}
		cp := *row
		stations = append(stations, &cp)
	}
	return stations, nil
}

// FindByID implements store.StationStore.FindByID
func (s *MemoryStationStore) FindByID(ctx context.Context, id int64) (*domain.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.index(id)
	if i < 0 || s.state.rows[i].IsDeleted {
		return nil, store.StationNotFound(id)
	}
	cp := *s.state.rows[i]
	return &cp, nil
}

// FindByName implements store.StationStore.FindByName
func (s *MemoryStationStore) FindByName(ctx context.Context, name string) (*domain.Station, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.state.rows {
		if row.Name == name && !row.IsDeleted {
			cp := *row
			return &cp, nil
		}
	}
	return nil, domain.NewNotFoundError(store.EntityStation, "name "+name)
}

// VerifyNameAlreadyExists implements store.StationStore.VerifyNameAlreadyExists
func (s *MemoryStationStore) VerifyNameAlreadyExists(
	ctx context.Context,
	name string,
	excludeID int64,
) (store.NameCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var match *domain.Station
	for _, row := range s.state.rows {
		if row.Name != name || (excludeID != 0 && row.ID == excludeID) {
			continue
		}
		// Rows are in ID order, so the first hit is the lowest ID;
		// an active row replaces an earlier deleted one.
		if match == nil || (match.IsDeleted && !row.IsDeleted) {
			match = row
		}
	}

	if match == nil {
		return store.NameCheck{}, nil
	}
	cp := *match
	return store.NameCheck{Matched: &cp, AlreadyExists: true}, nil
}

// Delete implements store.StationStore.Delete
func (s *MemoryStationStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.index(id)
	if i < 0 {
		return store.StationNotFound(id)
	}
	s.state.rows = append(s.state.rows[:i], s.state.rows[i+1:]...)
	log.Debug("station removed permanently", slog.Int64("station_id", id))
	return nil
}

// DeleteAll implements store.StationStore.DeleteAll
func (s *MemoryStationStore) DeleteAll(ctx context.Context) (int64, error) {
	return s.setDeleted(ctx, true), nil
}

// RestoreAll implements store.StationStore.RestoreAll
func (s *MemoryStationStore) RestoreAll(ctx context.Context) (int64, error) {
	return s.setDeleted(ctx, false), nil
}

func (s *MemoryStationStore) setDeleted(ctx context.Context, deleted bool) int64 {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, row := range s.state.rows {
		if row.IsDeleted != deleted {
			row.IsDeleted = deleted
			n++
		}
	}
	log.Debug("bulk station state change",
		slog.Bool("is_deleted", deleted),
		slog.Int64("affected", n))
	return n
}

// Atomically implements store.StationStore.Atomically.
// fn works on a private copy of the data which replaces the store's data only
// when fn succeeds. Writes made to the parent store while fn runs are lost;
// callers are single writers.
func (s *MemoryStationStore) Atomically(
	ctx context.Context,
	fn func(ctx context.Context, tx store.StationStore) error,
) error {
	s.mu.Lock()
	snapshot := s.state.clone()
	s.mu.Unlock()

	tx := &MemoryStationStore{state: snapshot, logger: s.logger}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = tx.state
	s.mu.Unlock()
	return nil
}

package metrics

import (
	"context"
	"time"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/store"
)

// instrumentedStationStore decorates a store.StationStore with metrics.
type instrumentedStationStore struct {
	next    store.StationStore
	metrics *StoreMetrics
}

// InstrumentStationStore wraps next so every call is counted and timed.
func InstrumentStationStore(next store.StationStore, m *StoreMetrics) store.StationStore {
	return &instrumentedStationStore{next: next, metrics: m}
}

func (s *instrumentedStationStore) Save(ctx context.Context, station *domain.Station) error {
	start := time.Now()
	err := s.next.Save(ctx, station)
	s.metrics.observe(storeStation, "save", start, err)
	return err
}

func (s *instrumentedStationStore) FindAll(ctx context.Context) ([]*domain.Station, error) {
	start := time.Now()
	stations, err := s.next.FindAll(ctx)
	s.metrics.observe(storeStation, "find_all", start, err)
	return stations, err
}

func (s *instrumentedStationStore) FindByID(ctx context.Context, id int64) (*domain.Station, error) {
	start := time.Now()
	station, err := s.next.FindByID(ctx, id)
	s.metrics.observe(storeStation, "find_by_id", start, err)
	return station, err
}

func (s *instrumentedStationStore) FindByName(ctx context.Context, name string) (*domain.Station, error) {
	start := time.Now()
	station, err := s.next.FindByName(ctx, name)
	s.metrics.observe(storeStation, "find_by_name", start, err)
	return station, err
}

func (s *instrumentedStationStore) VerifyNameAlreadyExists(
	ctx context.Context,
	name string,
	excludeID int64,
) (store.NameCheck, error) {
	start := time.Now()
	check, err := s.next.VerifyNameAlreadyExists(ctx, name, excludeID)
	s.metrics.observe(storeStation, "verify_name", start, err)
	return check, err
}

func (s *instrumentedStationStore) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	err := s.next.Delete(ctx, id)
	s.metrics.observe(storeStation, "delete", start, err)
	return err
}

func (s *instrumentedStationStore) DeleteAll(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.next.DeleteAll(ctx)
	s.metrics.observe(storeStation, "delete_all", start, err)
	return n, err
}

func (s *instrumentedStationStore) RestoreAll(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.next.RestoreAll(ctx)
	s.metrics.observe(storeStation, "restore_all", start, err)
	return n, err
}

// Atomically times the whole unit of work and instruments the calls made inside it.
func (s *instrumentedStationStore) Atomically(
	ctx context.Context,
	fn func(ctx context.Context, tx store.StationStore) error,
) error {
	start := time.Now()
	err := s.next.Atomically(ctx, func(ctx context.Context, tx store.StationStore) error {
		return fn(ctx, &instrumentedStationStore{next: tx, metrics: s.metrics})
	})
	s.metrics.observe(storeStation, "atomically", start, err)
	return err
}

// instrumentedCardStore decorates a store.CardStore with metrics.
type instrumentedCardStore struct {
	next    store.CardStore
	metrics *StoreMetrics
}

// InstrumentCardStore wraps next so every call is counted and timed.
func InstrumentCardStore(next store.CardStore, m *StoreMetrics) store.CardStore {
	return &instrumentedCardStore{next: next, metrics: m}
}

func (s *instrumentedCardStore) Save(ctx context.Context, card *domain.Card) (*domain.Transaction, error) {
	start := time.Now()
	txn, err := s.next.Save(ctx, card)
	s.metrics.observe(storeCard, "save", start, err)
	return txn, err
}

func (s *instrumentedCardStore) FindByID(ctx context.Context, id int64) (*domain.Card, error) {
	start := time.Now()
	card, err := s.next.FindByID(ctx, id)
	s.metrics.observe(storeCard, "find_by_id", start, err)
	return card, err
}

func (s *instrumentedCardStore) FindTransactionsByCardID(
	ctx context.Context,
	cardID int64,
) ([]*domain.Transaction, error) {
	start := time.Now()
	txns, err := s.next.FindTransactionsByCardID(ctx, cardID)
	s.metrics.observe(storeCard, "find_transactions", start, err)
	return txns, err
}

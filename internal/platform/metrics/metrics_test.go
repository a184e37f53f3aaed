package metrics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/platform/memory"
	"github.com/phrazzld/transit-api/internal/platform/metrics"
	"github.com/phrazzld/transit-api/internal/store"
	"github.com/phrazzld/transit-api/internal/store/storetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedStoresKeepContract(t *testing.T) {
	storetest.RunStationStoreTests(t, func(t *testing.T) store.StationStore {
		m := metrics.New(prometheus.NewRegistry())
		return metrics.InstrumentStationStore(memory.NewMemoryStationStore(nil), m)
	})

	storetest.RunCardStoreTests(t, func(t *testing.T) store.CardStore {
		m := metrics.New(prometheus.NewRegistry())
		return metrics.InstrumentCardStore(memory.NewMemoryCardStore(nil), m)
	})
}

func TestStationStoreMetrics(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())
	s := metrics.InstrumentStationStore(memory.NewMemoryStationStore(nil), m)

	storetest.MustSaveStation(ctx, t, s, "alpha", "red line")
	_, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	_, err = s.FindByID(ctx, 42)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("station", "save", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("station", "find_by_id", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("station", "find_by_id", "not_found")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.OperationDuration))
}

func TestAtomicallyInstrumentsInnerCalls(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())
	s := metrics.InstrumentStationStore(memory.NewMemoryStationStore(nil), m)

	rejected := domain.NewUniqueFieldError("name", "taken")
	err := s.Atomically(ctx, func(ctx context.Context, tx store.StationStore) error {
		if _, err := tx.FindAll(ctx); err != nil {
			return err
		}
		return rejected
	})
	assert.True(t, errors.Is(err, rejected))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("station", "find_all", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("station", "atomically", "rejected")))
}

func TestCardStoreMetrics(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())
	s := metrics.InstrumentCardStore(memory.NewMemoryCardStore(nil), m)

	card := storetest.MustSaveCard(ctx, t, s, "commuter", 0)
	storetest.MustSetBalance(ctx, t, s, card, 10)

	_, err := s.FindTransactionsByCardID(ctx, card.ID)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("card", "save", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("card", "find_transactions", "success")))
}

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)

	assert.Panics(t, func() { metrics.New(reg) }, "registering twice must fail")
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/store"
	"github.com/phrazzld/transit-api/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStationStore(t *testing.T) {
	storetest.RunStationStoreTests(t, func(t *testing.T) store.StationStore {
		return NewMemoryStationStore(nil)
	})
}

func TestMemoryCardStore(t *testing.T) {
	storetest.RunCardStoreTests(t, func(t *testing.T) store.CardStore {
		return NewMemoryCardStore(nil)
	})
}

func TestMemoryCardStoreUsesClock(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	s := NewMemoryCardStore(nil)
	s.now = func() time.Time { return fixed }

	card := storetest.MustSaveCard(ctx, t, s, "commuter", 5)
	txn := storetest.MustSetBalance(ctx, t, s, card, 15)

	assert.Equal(t, fixed, txn.Timestamp)

	// Mutating the returned transaction must not alter the ledger.
	txn.Amount = 999
	txns, err := s.FindTransactionsByCardID(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, int64(10), txns[0].Amount)
}

func TestMemoryStationStoreAtomicallyIsolatesUntilCommit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStationStore(nil)
	storetest.MustSaveStation(ctx, t, s, "alpha", "red line")

	err := s.Atomically(ctx, func(ctx context.Context, tx store.StationStore) error {
		require.NoError(t, tx.Delete(ctx, 1))

		// The parent store still sees the row until fn returns.
		_, err := s.FindByID(ctx, 1)
		assert.NoError(t, err)
		_, err = tx.FindByID(ctx, 1)
		assert.True(t, domain.IsNotFound(err))
		return nil
	})
	require.NoError(t, err)

	_, err = s.FindByID(ctx, 1)
	assert.True(t, domain.IsNotFound(err))
}

package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CardStoreFactory returns an empty CardStore for one subtest.
type CardStoreFactory func(t *testing.T) store.CardStore

// MustSaveCard inserts a card and fails the test on error.
func MustSaveCard(ctx context.Context, t *testing.T, s store.CardStore, name string, balance int64) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(name, balance)
	require.NoError(t, err)
	txn, err := s.Save(ctx, card)
	require.NoError(t, err)
	require.Nil(t, txn, "inserting a card must not record a transaction")
	return card
}

// MustSetBalance updates a card's balance and returns the recorded transaction.
func MustSetBalance(ctx context.Context, t *testing.T, s store.CardStore, card *domain.Card, balance int64) *domain.Transaction {
	t.Helper()
	require.NoError(t, card.Update(domain.CardChanges{Balance: &balance}))
	txn, err := s.Save(ctx, card)
	require.NoError(t, err)
	require.NotNil(t, txn, "updating a card must record a transaction")
	return txn
}

// RunCardStoreTests runs the card and ledger contract against stores built by newStore.
func RunCardStoreTests(t *testing.T, newStore CardStoreFactory) {
	t.Helper()

	t.Run("insert assigns IDs and records no transaction", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)

		a := MustSaveCard(ctx, t, s, "commuter", 100)
		b := MustSaveCard(ctx, t, s, "student", 0)
		assert.Equal(t, int64(1), a.ID)
		assert.Equal(t, int64(2), b.ID)

		got, err := s.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, &domain.Card{ID: 1, Name: "commuter", Balance: 100}, got)

		txns, err := s.FindTransactionsByCardID(ctx, a.ID)
		require.NoError(t, err)
		assert.NotNil(t, txns, "an empty ledger should be an empty slice, not nil")
		assert.Empty(t, txns)
	})

	t.Run("update records the balance delta", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		card := MustSaveCard(ctx, t, s, "commuter", 0)

		before := time.Now().Add(-time.Minute)
		txn := MustSetBalance(ctx, t, s, card, 100)

		assert.Equal(t, int64(1), txn.ID)
		assert.Equal(t, int64(100), txn.Amount)
		assert.Equal(t, domain.CardSnapshot{ID: card.ID, Name: "commuter", Balance: 100}, txn.Card)
		assert.True(t, txn.Timestamp.After(before), "timestamp should be the time of the update")

		got, err := s.FindByID(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), got.Balance)
	})

	t.Run("ledger keeps insertion order", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		card := MustSaveCard(ctx, t, s, "commuter", 0)
		other := MustSaveCard(ctx, t, s, "student", 50)

		MustSetBalance(ctx, t, s, card, 100)
		MustSetBalance(ctx, t, s, other, 10)
		MustSetBalance(ctx, t, s, card, 80)

		txns, err := s.FindTransactionsByCardID(ctx, card.ID)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, int64(100), txns[0].Amount)
		assert.Equal(t, int64(-20), txns[1].Amount)
		assert.Less(t, txns[0].ID, txns[1].ID)
		assert.False(t, txns[1].Timestamp.Before(txns[0].Timestamp))
		assert.Equal(t, int64(80), txns[1].Card.Balance)

		otherTxns, err := s.FindTransactionsByCardID(ctx, other.ID)
		require.NoError(t, err)
		require.Len(t, otherTxns, 1)
		assert.Equal(t, int64(-40), otherTxns[0].Amount)
		assert.Equal(t, int64(2), otherTxns[0].ID, "transaction IDs are global and sequential")
	})

	t.Run("update without balance change records a zero amount", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		card := MustSaveCard(ctx, t, s, "commuter", 30)

		name := "renamed"
		require.NoError(t, card.Update(domain.CardChanges{Name: &name}))
		txn, err := s.Save(ctx, card)
		require.NoError(t, err)
		require.NotNil(t, txn)
		assert.Equal(t, int64(0), txn.Amount)
		assert.Equal(t, "renamed", txn.Card.Name)

		txns, err := s.FindTransactionsByCardID(ctx, card.ID)
		require.NoError(t, err)
		assert.Len(t, txns, 1)
	})

	t.Run("update of unknown card is not found", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)

		txn, err := s.Save(ctx, &domain.Card{ID: 7, Name: "ghost", Balance: 10})
		require.Error(t, err)
		assert.Nil(t, txn)
		assert.True(t, domain.IsNotFound(err))

		txns, err := s.FindTransactionsByCardID(ctx, 7)
		require.NoError(t, err)
		assert.Empty(t, txns)
	})

	t.Run("FindByID of unknown card is not found", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)

		_, err := s.FindByID(ctx, 1)
		assert.True(t, domain.IsNotFound(err))
	})
}

package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	card, err := NewCard("commuter", 100)
	require.NoError(t, err)
	assert.Equal(t, "commuter", card.Name)
	assert.Equal(t, int64(100), card.Balance)
	assert.False(t, card.IsPersisted())

	card, err = NewCard("neg", -50)
	require.NoError(t, err, "balance has no range constraint")
	assert.Equal(t, int64(-50), card.Balance)

	for _, name := range []string{"", "ab", strings.Repeat("c", 33)} {
		_, err := NewCard(name, 0)
		require.Error(t, err, "name %q should be rejected", name)
		assert.True(t, IsInvalidField(err))
	}
}

func TestCardUpdate(t *testing.T) {
	t.Parallel()

	t.Run("balance only", func(t *testing.T) {
		t.Parallel()
		card := &Card{ID: 1, Name: "commuter", Balance: 10}
		balance := int64(80)

		require.NoError(t, card.Update(CardChanges{Balance: &balance}))
		assert.Equal(t, "commuter", card.Name)
		assert.Equal(t, int64(80), card.Balance)
	})

	t.Run("name and balance", func(t *testing.T) {
		t.Parallel()
		card := &Card{ID: 1, Name: "commuter", Balance: 10}
		name := "student"
		balance := int64(0)

		require.NoError(t, card.Update(CardChanges{Name: &name, Balance: &balance}))
		assert.Equal(t, "student", card.Name)
		assert.Equal(t, int64(0), card.Balance)
	})

	t.Run("invalid name keeps previous values", func(t *testing.T) {
		t.Parallel()
		card := &Card{ID: 1, Name: "commuter", Balance: 10}
		name := "no"
		balance := int64(99)

		err := card.Update(CardChanges{Name: &name, Balance: &balance})
		require.Error(t, err)
		assert.True(t, IsInvalidField(err))
		assert.Equal(t, "commuter", card.Name)
		assert.Equal(t, int64(10), card.Balance)
	})
}

func TestNewTransaction(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	card := &Card{ID: 3, Name: "commuter", Balance: 80}

	txn := NewTransaction(card, 100, at)
	assert.Equal(t, int64(-20), txn.Amount)
	assert.Equal(t, CardSnapshot{ID: 3, Name: "commuter", Balance: 80}, txn.Card)
	assert.Equal(t, time.UTC, txn.Timestamp.Location())
	assert.True(t, txn.Timestamp.Equal(at))

	zero := NewTransaction(card, 80, at)
	assert.Equal(t, int64(0), zero.Amount)
}

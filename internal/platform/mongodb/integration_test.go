//go:build integration

package mongodb_test

import (
	"context"
	"testing"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/platform/mongodb"
	"github.com/phrazzld/transit-api/internal/store"
	"github.com/phrazzld/transit-api/internal/store/storetest"
	"github.com/phrazzld/transit-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoStationStoreContract(t *testing.T) {
	db := testdb.OpenMongo(t)

	storetest.RunStationStoreTests(t, func(t *testing.T) store.StationStore {
		testdb.ResetMongo(t, db)
		return mongodb.NewMongoStationStore(db, nil)
	})
}

func TestMongoCardStoreContract(t *testing.T) {
	db := testdb.OpenMongo(t)

	storetest.RunCardStoreTests(t, func(t *testing.T) store.CardStore {
		testdb.ResetMongo(t, db)
		return mongodb.NewMongoCardStore(db, nil)
	})
}

func TestMongoActiveNameIndex(t *testing.T) {
	db := testdb.OpenMongo(t)
	testdb.ResetMongo(t, db)
	ctx := context.Background()
	s := mongodb.NewMongoStationStore(db, nil)

	first := storetest.MustSaveStation(ctx, t, s, "alpha", "red line")

	dup, err := domain.NewStation("alpha", "blue line")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Save(ctx, dup), store.ErrDuplicate)
	assert.Equal(t, int64(0), dup.ID)

	first.Delete()
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, dup))
	assert.NotEqual(t, first.ID, dup.ID)
}

func TestEnsureIndexesIsIdempotent(t *testing.T) {
	db := testdb.OpenMongo(t)
	testdb.ResetMongo(t, db)

	assert.NoError(t, mongodb.EnsureIndexes(context.Background(), db))
}

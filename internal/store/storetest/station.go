package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StationStoreFactory returns an empty StationStore for one subtest.
type StationStoreFactory func(t *testing.T) store.StationStore

// testTimeout bounds each contract subtest.
const testTimeout = 10 * time.Second

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

// MustSaveStation inserts a station and fails the test on error.
func MustSaveStation(ctx context.Context, t *testing.T, s store.StationStore, name, line string) *domain.Station {
	t.Helper()
	station, err := domain.NewStation(name, line)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, station))
	return station
}

// RunStationStoreTests runs the station contract against stores built by newStore.
func RunStationStoreTests(t *testing.T, newStore StationStoreFactory) {
	t.Helper()

	t.Run("Save assigns sequential IDs starting at 1", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)

		a := MustSaveStation(ctx, t, s, "alpha", "red line")
		b := MustSaveStation(ctx, t, s, "bravo", "red line")
		c := MustSaveStation(ctx, t, s, "charlie", "blue line")

		assert.Equal(t, []int64{1, 2, 3}, []int64{a.ID, b.ID, c.ID})
	})

	t.Run("Save updates an existing station", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		station := MustSaveStation(ctx, t, s, "alpha", "red line")

		station.Name = "alpha prime"
		station.Line = "green line"
		require.NoError(t, s.Save(ctx, station))

		got, err := s.FindByID(ctx, station.ID)
		require.NoError(t, err)
		assert.Equal(t, &domain.Station{ID: station.ID, Name: "alpha prime", Line: "green line"}, got)
	})

	t.Run("Save of unknown ID is not found", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)

		err := s.Save(ctx, &domain.Station{ID: 42, Name: "ghost", Line: "red line"})
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("FindAll returns active stations in insertion order", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)

		empty, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty, "FindAll should return an empty slice, not nil")
		assert.Empty(t, empty)

		MustSaveStation(ctx, t, s, "alpha", "red line")
		b := MustSaveStation(ctx, t, s, "bravo", "red line")
		MustSaveStation(ctx, t, s, "charlie", "red line")

		b.Delete()
		require.NoError(t, s.Save(ctx, b))

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "alpha", all[0].Name)
		assert.Equal(t, "charlie", all[1].Name)
		for _, st := range all {
			assert.False(t, st.IsDeleted)
		}
	})

	t.Run("FindByID hides deleted and missing stations", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		station := MustSaveStation(ctx, t, s, "alpha", "red line")

		got, err := s.FindByID(ctx, station.ID)
		require.NoError(t, err)
		assert.Equal(t, station, got)

		station.Delete()
		require.NoError(t, s.Save(ctx, station))

		_, err = s.FindByID(ctx, station.ID)
		assert.True(t, domain.IsNotFound(err), "deleted station should be not found, got %v", err)

		_, err = s.FindByID(ctx, 999)
		assert.True(t, domain.IsNotFound(err), "missing station should be not found, got %v", err)
	})

	t.Run("FindByName returns only active stations", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		station := MustSaveStation(ctx, t, s, "alpha", "red line")

		got, err := s.FindByName(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, station.ID, got.ID)

		station.Delete()
		require.NoError(t, s.Save(ctx, station))

		_, err = s.FindByName(ctx, "alpha")
		assert.True(t, domain.IsNotFound(err))

		_, err = s.FindByName(ctx, "nobody")
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("VerifyNameAlreadyExists", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		active := MustSaveStation(ctx, t, s, "alpha", "red line")
		deleted := MustSaveStation(ctx, t, s, "bravo", "red line")
		deleted.Delete()
		require.NoError(t, s.Save(ctx, deleted))

		check, err := s.VerifyNameAlreadyExists(ctx, "zulu", 0)
		require.NoError(t, err)
		assert.False(t, check.AlreadyExists)
		assert.Nil(t, check.Matched)

		check, err = s.VerifyNameAlreadyExists(ctx, "alpha", 0)
		require.NoError(t, err)
		assert.True(t, check.AlreadyExists)
		require.NotNil(t, check.Matched)
		assert.Equal(t, active.ID, check.Matched.ID)
		assert.False(t, check.Matched.IsDeleted)

		check, err = s.VerifyNameAlreadyExists(ctx, "bravo", 0)
		require.NoError(t, err)
		assert.True(t, check.AlreadyExists, "deleted rows still hold their name")
		require.NotNil(t, check.Matched)
		assert.Equal(t, deleted.ID, check.Matched.ID)
		assert.True(t, check.Matched.IsDeleted)

		check, err = s.VerifyNameAlreadyExists(ctx, "alpha", active.ID)
		require.NoError(t, err)
		assert.False(t, check.AlreadyExists, "a station never collides with itself")
		assert.Nil(t, check.Matched)

		check, err = s.VerifyNameAlreadyExists(ctx, "alpha", deleted.ID)
		require.NoError(t, err)
		assert.True(t, check.AlreadyExists)
	})

	t.Run("Delete removes the row permanently", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		station := MustSaveStation(ctx, t, s, "alpha", "red line")
		station.Delete()
		require.NoError(t, s.Save(ctx, station))

		require.NoError(t, s.Delete(ctx, station.ID))

		check, err := s.VerifyNameAlreadyExists(ctx, "alpha", 0)
		require.NoError(t, err)
		assert.False(t, check.AlreadyExists)

		restored, err := s.RestoreAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), restored, "a hard-deleted row cannot be restored")

		err = s.Delete(ctx, station.ID)
		assert.True(t, domain.IsNotFound(err), "second delete should be not found, got %v", err)
	})

	t.Run("IDs are never reused after a hard delete", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		MustSaveStation(ctx, t, s, "alpha", "red line")
		b := MustSaveStation(ctx, t, s, "bravo", "red line")
		c := MustSaveStation(ctx, t, s, "charlie", "red line")

		require.NoError(t, s.Delete(ctx, c.ID))
		require.NoError(t, s.Delete(ctx, b.ID))

		d := MustSaveStation(ctx, t, s, "delta", "red line")
		e := MustSaveStation(ctx, t, s, "echo", "red line")
		assert.Equal(t, int64(4), d.ID)
		assert.Equal(t, int64(5), e.ID)
	})

	t.Run("DeleteAll and RestoreAll", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		MustSaveStation(ctx, t, s, "alpha", "red line")
		b := MustSaveStation(ctx, t, s, "bravo", "red line")
		MustSaveStation(ctx, t, s, "charlie", "red line")
		b.Delete()
		require.NoError(t, s.Save(ctx, b))

		deleted, err := s.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		restored, err := s.RestoreAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), restored)

		all, err = s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"alpha", "bravo", "charlie"}, stationNames(all))
		for _, st := range all {
			assert.False(t, st.IsDeleted)
		}

		again, err := s.RestoreAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), again)
	})

	t.Run("Atomically commits on success", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		old := MustSaveStation(ctx, t, s, "alpha", "red line")

		err := s.Atomically(ctx, func(ctx context.Context, tx store.StationStore) error {
			if err := tx.Delete(ctx, old.ID); err != nil {
				return err
			}
			fresh, err := domain.NewStation("alpha", "blue line")
			if err != nil {
				return err
			}
			return tx.Save(ctx, fresh)
		})
		require.NoError(t, err)

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, int64(2), all[0].ID)
		assert.Equal(t, "blue line", all[0].Line)
	})

	t.Run("Atomically rolls back on error", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		evicted := MustSaveStation(ctx, t, s, "alpha", "red line")
		evicted.Delete()
		require.NoError(t, s.Save(ctx, evicted))
		target := MustSaveStation(ctx, t, s, "bravo", "red line")

		boom := errors.New("boom")
		err := s.Atomically(ctx, func(ctx context.Context, tx store.StationStore) error {
			if err := tx.Delete(ctx, evicted.ID); err != nil {
				return err
			}
			renamed := *target
			renamed.Name = "alpha"
			if err := tx.Save(ctx, &renamed); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		check, err := s.VerifyNameAlreadyExists(ctx, "alpha", 0)
		require.NoError(t, err)
		require.True(t, check.AlreadyExists, "evicted row must survive a failed unit of work")
		assert.Equal(t, evicted.ID, check.Matched.ID)
		assert.True(t, check.Matched.IsDeleted)

		got, err := s.FindByID(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, "bravo", got.Name)
	})

	t.Run("returned stations are copies", func(t *testing.T) {
		ctx := testContext(t)
		s := newStore(t)
		station := MustSaveStation(ctx, t, s, "alpha", "red line")

		got, err := s.FindByID(ctx, station.ID)
		require.NoError(t, err)
		got.Name = "mutated"
		station.Line = "mutated"

		again, err := s.FindByID(ctx, station.ID)
		require.NoError(t, err)
		assert.Equal(t, "alpha", again.Name)
		assert.Equal(t, "red line", again.Line)
	})
}

func stationNames(stations []*domain.Station) []string {
	names := make([]string, 0, len(stations))
	for _, st := range stations {
		names = append(names, st.Name)
	}
	return names
}

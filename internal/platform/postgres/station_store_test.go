package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stationRowColumns = []string{"id", "name", "line", "is_deleted"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPostgresStationStore_SaveInsert(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	mock.ExpectQuery("INSERT INTO stations").
		WithArgs("alpha", "red line", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	station, err := domain.NewStation("alpha", "red line")
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), station))
	assert.Equal(t, int64(7), station.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStationStore_SaveInsertDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "stations_active_name_key"}
	mock.ExpectQuery("INSERT INTO stations").
		WithArgs("alpha", "red line", false).
		WillReturnError(pgErr)

	station, err := domain.NewStation("alpha", "red line")
	require.NoError(t, err)

	err = s.Save(context.Background(), station)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	var storeErr *store.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, store.EntityStation, storeErr.Entity)
	assert.Equal(t, int64(0), station.ID)
}

func TestPostgresStationStore_SaveUpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	mock.ExpectExec("UPDATE stations").
		WithArgs("alpha", "red line", true, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	station := &domain.Station{ID: 9, Name: "alpha", Line: "red line", IsDeleted: true}
	err := s.Save(context.Background(), station)

	assert.True(t, store.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStationStore_FindAll(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	mock.ExpectQuery("FROM stations WHERE is_deleted = FALSE ORDER BY id").
		WillReturnRows(sqlmock.NewRows(stationRowColumns).
			AddRow(int64(1), "alpha", "red line", false).
			AddRow(int64(3), "charlie", "blue line", false))

	stations, err := s.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, "alpha", stations[0].Name)
	assert.Equal(t, int64(3), stations[1].ID)
}

func TestPostgresStationStore_FindAllEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	mock.ExpectQuery("FROM stations").WillReturnRows(sqlmock.NewRows(stationRowColumns))

	stations, err := s.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stations)
	assert.Empty(t, stations)
}

func TestPostgresStationStore_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	mock.ExpectQuery("FROM stations WHERE id = ").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(stationRowColumns))

	_, err := s.FindByID(context.Background(), 4)
	assert.True(t, store.IsNotFoundError(err))
	assert.EqualError(t, err, "station not found: id 4")
}

func TestPostgresStationStore_FindByIDDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	mock.ExpectQuery("FROM stations WHERE id = ").
		WithArgs(int64(4)).
		WillReturnError(errors.New("connection reset"))

	_, err := s.FindByID(context.Background(), 4)
	require.Error(t, err)
	assert.False(t, store.IsNotFoundError(err))

	var storeErr *store.StoreError
	assert.True(t, errors.As(err, &storeErr))
}

func TestPostgresStationStore_VerifyNameAlreadyExists(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresStationStore(db, nil)

		mock.ExpectQuery("ORDER BY is_deleted ASC, id ASC").
			WithArgs("alpha", int64(0)).
			WillReturnRows(sqlmock.NewRows(stationRowColumns).AddRow(int64(2), "alpha", "red line", true))

		check, err := s.VerifyNameAlreadyExists(context.Background(), "alpha", 0)
		require.NoError(t, err)
		assert.True(t, check.AlreadyExists)
		require.NotNil(t, check.Matched)
		assert.Equal(t, int64(2), check.Matched.ID)
		assert.True(t, check.Matched.IsDeleted)
	})

	t.Run("no match", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresStationStore(db, nil)

		mock.ExpectQuery("ORDER BY is_deleted ASC, id ASC").
			WithArgs("alpha", int64(2)).
			WillReturnRows(sqlmock.NewRows(stationRowColumns))

		check, err := s.VerifyNameAlreadyExists(context.Background(), "alpha", 2)
		require.NoError(t, err)
		assert.False(t, check.AlreadyExists)
		assert.Nil(t, check.Matched)
	})
}

func TestPostgresStationStore_DeleteAllAndRestoreAll(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	mock.ExpectExec("UPDATE stations SET is_deleted").
		WithArgs(true).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE stations SET is_deleted").
		WithArgs(false).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := s.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	restored, err := s.RestoreAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), restored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStationStore_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	mock.ExpectExec("DELETE FROM stations").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM stations").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), 1))
	assert.True(t, store.IsNotFoundError(s.Delete(context.Background(), 1)))
}

func TestPostgresStationStore_AtomicallyCommits(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM stations").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE stations").
		WithArgs("alpha", "red line", false, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Atomically(context.Background(), func(ctx context.Context, tx store.StationStore) error {
		if err := tx.Delete(ctx, 1); err != nil {
			return err
		}
		return tx.Save(ctx, &domain.Station{ID: 2, Name: "alpha", Line: "red line"})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStationStore_AtomicallyRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresStationStore(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM stations").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE stations").
		WithArgs("alpha", "red line", false, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.Atomically(context.Background(), func(ctx context.Context, tx store.StationStore) error {
		if err := tx.Delete(ctx, 1); err != nil {
			return err
		}
		return tx.Save(ctx, &domain.Station{ID: 2, Name: "alpha", Line: "red line"})
	})

	assert.True(t, store.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStationStore_AtomicallyJoinsCallerTransaction(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM stations").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	s := NewPostgresStationStore(tx, nil)
	err = s.Atomically(context.Background(), func(ctx context.Context, inner store.StationStore) error {
		assert.Same(t, s, inner)
		return inner.Delete(ctx, 1)
	})
	require.NoError(t, err)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresStationStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() {
		NewPostgresStationStore(nil, nil)
	})
}

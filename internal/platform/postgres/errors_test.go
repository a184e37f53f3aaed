package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/transit-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"unique violation", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: foreignKeyViolationCode}, store.ErrInvalidEntity},
		{"check violation", &pgconn.PgError{Code: checkViolationCode}, store.ErrInvalidEntity},
		{"not null violation", &pgconn.PgError{Code: notNullViolationCode}, store.ErrInvalidEntity},
		{"wrapped unique violation", fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolationCode}), store.ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.target)

			var pgErr *pgconn.PgError
			assert.True(t, errors.As(mapped, &pgErr), "original error should stay in the chain")
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("unknown errors pass through", func(t *testing.T) {
		err := errors.New("boom")
		assert.Same(t, err, MapError(err))

		pgErr := &pgconn.PgError{Code: "40001"}
		assert.Equal(t, error(pgErr), MapError(pgErr))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: checkViolationCode}))
	assert.False(t, IsUniqueViolation(sql.ErrNoRows))
}

func TestRowsAffected(t *testing.T) {
	n, err := rowsAffected(sqlmock.NewResult(0, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = rowsAffected(sqlmock.NewErrorResult(errors.New("unsupported")))
	assert.Error(t, err)

	_, err = rowsAffected(nil)
	assert.Error(t, err)
}

package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		stName    string
		line      string
		wantField string
	}{
		{name: "minimum lengths", stName: "abc", line: "xyz"},
		{name: "maximum lengths", stName: strings.Repeat("a", 32), line: strings.Repeat("b", 32)},
		{name: "multibyte name counts characters", stName: "ééé", line: "line"},
		{name: "name too short", stName: "ab", line: "line", wantField: "name"},
		{name: "name too long", stName: strings.Repeat("a", 33), line: "line", wantField: "name"},
		{name: "empty name", stName: "", line: "line", wantField: "name"},
		{name: "line too short", stName: "central", line: "l1", wantField: "line"},
		{name: "line too long", stName: "central", line: strings.Repeat("l", 33), wantField: "line"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			station, err := NewStation(tt.stName, tt.line)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.stName, station.Name)
				assert.Equal(t, tt.line, station.Line)
				assert.False(t, station.IsDeleted)
				assert.False(t, station.IsPersisted())
				return
			}

			require.Error(t, err)
			assert.Nil(t, station)
			assert.True(t, IsInvalidField(err))

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.wantField, fieldErr.Field)
			assert.Contains(t, fieldErr.Reason, "between 3 and 32")
		})
	}
}

func TestStationUpdate(t *testing.T) {
	t.Parallel()

	t.Run("applies only present fields", func(t *testing.T) {
		t.Parallel()
		station := &Station{ID: 7, Name: "central", Line: "red line"}
		name := "harbour"

		require.NoError(t, station.Update(StationChanges{Name: &name}))
		assert.Equal(t, "harbour", station.Name)
		assert.Equal(t, "red line", station.Line)
		assert.Equal(t, int64(7), station.ID)
	})

	t.Run("invalid change leaves station untouched", func(t *testing.T) {
		t.Parallel()
		station := &Station{ID: 7, Name: "central", Line: "red line"}
		name := "ok-name"
		line := "x"

		err := station.Update(StationChanges{Name: &name, Line: &line})
		require.Error(t, err)
		assert.True(t, IsInvalidField(err))
		assert.Equal(t, "central", station.Name)
		assert.Equal(t, "red line", station.Line)
	})
}

func TestStationDeleteRestore(t *testing.T) {
	t.Parallel()
	station := &Station{Name: "central", Line: "red line"}

	station.Delete()
	station.Delete()
	assert.True(t, station.IsDeleted)

	station.Restore()
	station.Restore()
	assert.False(t, station.IsDeleted)
}

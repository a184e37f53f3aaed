package backend_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/phrazzld/transit-api/internal/config"
	"github.com/phrazzld/transit-api/internal/platform/backend"
	"github.com/phrazzld/transit-api/internal/platform/memory"
	"github.com/phrazzld/transit-api/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  backend.Kind
	}{
		{"memory", backend.Memory},
		{"postgres", backend.Postgres},
		{"mongo", backend.Mongo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, err := backend.ParseKind(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
			assert.Equal(t, tt.input, kind.String())
		})
	}

	for _, bad := range []string{"", "Memory", "mysql"} {
		_, err := backend.ParseKind(bad)
		assert.ErrorIs(t, err, backend.ErrUnknownBackend, "input %q", bad)
	}

	assert.Equal(t, "Kind(9)", backend.Kind(9).String())
}

func TestOpenMemory(t *testing.T) {
	ctx := context.Background()

	stores, err := backend.Open(ctx, config.StorageConfig{Backend: config.BackendMemory}, backend.Options{})
	require.NoError(t, err)

	assert.Equal(t, backend.Memory, stores.Kind)
	assert.Nil(t, stores.DB)
	assert.IsType(t, &memory.MemoryStationStore{}, stores.Stations)
	assert.IsType(t, &memory.MemoryCardStore{}, stores.Cards)
	assert.NoError(t, stores.Close(ctx))
}

func TestOpenInstrumentsStores(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())

	stores, err := backend.Open(ctx,
		config.StorageConfig{Backend: config.BackendMemory},
		backend.Options{Metrics: m})
	require.NoError(t, err)

	_, err = stores.Stations.FindAll(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "*memory.MemoryStationStore", typeName(stores.Stations))
}

func TestOpenConfigurationErrors(t *testing.T) {
	ctx := context.Background()

	_, err := backend.Open(ctx, config.StorageConfig{Backend: "sqlite"}, backend.Options{})
	assert.ErrorIs(t, err, backend.ErrUnknownBackend)

	_, err = backend.Open(ctx, config.StorageConfig{Backend: config.BackendPostgres}, backend.Options{})
	assert.ErrorIs(t, err, backend.ErrMissingSetting)

	_, err = backend.Open(ctx, config.StorageConfig{Backend: config.BackendMongo}, backend.Options{})
	assert.ErrorIs(t, err, backend.ErrMissingSetting)

	_, err = backend.Open(ctx, config.StorageConfig{
		Backend:  config.BackendMongo,
		MongoURI: "mongodb://localhost:27017",
	}, backend.Options{})
	assert.ErrorIs(t, err, backend.ErrMissingSetting)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

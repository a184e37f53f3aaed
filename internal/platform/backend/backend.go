// Package backend resolves the configured storage backend once at startup and
// builds the matching station and card stores.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/transit-api/internal/config"
	"github.com/phrazzld/transit-api/internal/platform/memory"
	"github.com/phrazzld/transit-api/internal/platform/metrics"
	"github.com/phrazzld/transit-api/internal/platform/mongodb"
	"github.com/phrazzld/transit-api/internal/platform/postgres"
	"github.com/phrazzld/transit-api/internal/redact"
	"github.com/phrazzld/transit-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// Kind is a supported storage backend.
type Kind int

// Supported backends.
const (
	Memory Kind = iota + 1
	Postgres
	Mongo
)

// String returns the configuration name of the backend.
func (k Kind) String() string {
	switch k {
	case Memory:
		return config.BackendMemory
	case Postgres:
		return config.BackendPostgres
	case Mongo:
		return config.BackendMongo
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Configuration errors returned by ParseKind and Open.
var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrMissingSetting = errors.New("missing storage setting")
)

// ParseKind maps a configuration value to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case config.BackendMemory:
		return Memory, nil
	case config.BackendPostgres:
		return Postgres, nil
	case config.BackendMongo:
		return Mongo, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Stores holds the stores of the opened backend and owns its connection.
type Stores struct {
	Kind     Kind
	Stations store.StationStore
	Cards    store.CardStore

	// DB is the PostgreSQL pool; nil for other backends.
	DB *sql.DB

	closeFn func(ctx context.Context) error
}

// Close releases the backend connection. It is safe to call on the memory backend.
func (s *Stores) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}

// Options tune Open.
type Options struct {
	Logger *slog.Logger

	// Metrics, when set, instruments both stores.
	Metrics *metrics.StoreMetrics
}

// Open parses cfg.Backend, connects and builds the stores. Schema setup runs
// when cfg.MigrateOnStart is set.
func Open(ctx context.Context, cfg config.StorageConfig, opts Options) (*Stores, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	kind, err := ParseKind(cfg.Backend)
	if err != nil {
		return nil, err
	}

	var stores *Stores
	switch kind {
	case Memory:
		stores = &Stores{
			Stations: memory.NewMemoryStationStore(logger),
			Cards:    memory.NewMemoryCardStore(logger),
		}
	case Postgres:
		stores, err = openPostgres(ctx, cfg, logger)
	case Mongo:
		stores, err = openMongo(ctx, cfg, logger)
	}
	if err != nil {
		return nil, err
	}

	stores.Kind = kind
	if opts.Metrics != nil {
		stores.Stations = metrics.InstrumentStationStore(stores.Stations, opts.Metrics)
		stores.Cards = metrics.InstrumentCardStore(stores.Cards, opts.Metrics)
	}

	logger.Info("storage backend opened", slog.String("backend", kind.String()))
	return stores, nil
}

// OpenPostgresDB opens and pings a pgx backed pool.
func OpenPostgresDB(ctx context.Context, url string) (*sql.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: storage.postgres_url", ErrMissingSetting)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database at %s: %w", redact.ConnectionString(url), err)
	}
	return db, nil
}

func openPostgres(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Stores, error) {
	db, err := OpenPostgresDB(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Stores{
		Stations: postgres.NewPostgresStationStore(db, logger),
		Cards:    postgres.NewPostgresCardStore(db, logger),
		DB:       db,
		closeFn: func(context.Context) error {
			return db.Close()
		},
	}, nil
}

func openMongo(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Stores, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("%w: storage.mongo_uri", ErrMissingSetting)
	}
	if cfg.MongoDatabase == "" {
		return nil, fmt.Errorf("%w: storage.mongo_database", ErrMissingSetting)
	}

	client, err := mongodb.Connect(ctx, cfg.MongoURI, logger)
	if err != nil {
		return nil, err
	}

	db := client.Database(cfg.MongoDatabase)
	if cfg.MigrateOnStart {
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
	}

	return &Stores{
		Stations: mongodb.NewMongoStationStore(db, logger),
		Cards:    mongodb.NewMongoCardStore(db, logger),
		closeFn:  disconnect(client),
	}, nil
}

func disconnect(client *mongo.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Disconnect(ctx)
	}
}

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/transit-api/internal/redact"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	stationsCollection     = "stations"
	cardsCollection        = "cards"
	transactionsCollection = "transactions"
	countersCollection     = "counters"
)

// connectTimeout bounds the initial connection and ping.
const connectTimeout = 10 * time.Second

// Connect opens a client for uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri string, logger *slog.Logger) (*mongo.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb at %s: %w", redact.ConnectionString(uri), err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb at %s: %w", redact.ConnectionString(uri), err)
	}

	logger.Info("connected to mongodb", slog.String("uri", redact.ConnectionString(uri)))
	return client, nil
}

// EnsureIndexes creates the collections' indexes. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(stationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Names are unique among active stations only.
			Keys: bson.D{{Key: "name", Value: 1}},
			Options: options.Index().
				SetName("stations_active_name_key").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_deleted": false}),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "is_deleted", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("stations_name_lookup_idx"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create station indexes: %w", err)
	}

	_, err = db.Collection(transactionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "card_id", Value: 1}, {Key: "_id", Value: 1}},
		Options: options.Index().SetName("transactions_card_id_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction indexes: %w", err)
	}

	// Collections cannot be created implicitly inside older server transactions.
	for _, name := range []string{cardsCollection, countersCollection} {
		if err := db.CreateCollection(ctx, name); err != nil && !isNamespaceExists(err) {
			return fmt.Errorf("failed to create %s collection: %w", name, err)
		}
	}

	return nil
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == 48 // NamespaceExists
}

// counters allocates monotonically increasing IDs per sequence name.
type counters struct {
	coll *mongo.Collection
}

type counterDocument struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// next increments and returns the named sequence, starting at 1.
func (c counters) next(ctx context.Context, name string) (int64, error) {
	var doc counterDocument
	err := c.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", name, err)
	}
	return doc.Seq, nil
}

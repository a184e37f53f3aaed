package mongodb

import (
	"context"
	"log/slog"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stationDocument struct {
	ID        int64  `bson:"_id"`
	Name      string `bson:"name"`
	Line      string `bson:"line"`
	IsDeleted bool   `bson:"is_deleted"`
}

func newStationDocument(s *domain.Station) stationDocument {
	return stationDocument{ID: s.ID, Name: s.Name, Line: s.Line, IsDeleted: s.IsDeleted}
}

func (d stationDocument) toDomain() *domain.Station {
	return &domain.Station{ID: d.ID, Name: d.Name, Line: d.Line, IsDeleted: d.IsDeleted}
}

// MongoStationStore implements the store.StationStore interface
// using a MongoDB database as the storage backend.
type MongoStationStore struct {
	client   *mongo.Client
	stations *mongo.Collection
	counters counters
	inTx     bool
	logger   *slog.Logger
}

// NewMongoStationStore creates a station store over db.
// If logger is nil, a default logger will be used.
func NewMongoStationStore(db *mongo.Database, logger *slog.Logger) *MongoStationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &MongoStationStore{
		client:   db.Client(),
		stations: db.Collection(stationsCollection),
		counters: counters{coll: db.Collection(countersCollection)},
		logger:   logger.With(slog.String("component", "station_store"), slog.String("backend", "mongodb")),
	}
}

// Ensure MongoStationStore implements store.StationStore interface
var _ store.StationStore = (*MongoStationStore)(nil)

// Save implements store.StationStore.Save
func (s *MongoStationStore) Save(ctx context.Context, station *domain.Station) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !station.IsPersisted() {
		id, err := s.counters.next(ctx, stationsCollection)
		if err != nil {
			log.Error("failed to allocate station id", slog.String("error", err.Error()))
			return store.NewStoreError(store.EntityStation, "insert", "failed to allocate id", err)
		}

		doc := newStationDocument(station)
		doc.ID = id
		if _, err := s.stations.InsertOne(ctx, doc); err != nil {
			log.Error("failed to insert station",
				slog.String("error", err.Error()),
				slog.String("name", station.Name))
			return store.NewStoreError(store.EntityStation, "insert", "failed to insert station", MapError(err))
		}

		station.ID = id
		log.Debug("station inserted", slog.Int64("station_id", id))
		return nil
	}

	update := bson.M{"$set": bson.M{
		"name":       station.Name,
		"line":       station.Line,
		"is_deleted": station.IsDeleted,
	}}
	result, err := s.stations.UpdateByID(ctx, station.ID, update)
	if err != nil {
		log.Error("failed to update station",
			slog.String("error", err.Error()),
			slog.Int64("station_id", station.ID))
		return store.NewStoreError(store.EntityStation, "update", "failed to update station", MapError(err))
	}
	if result.MatchedCount == 0 {
		return store.StationNotFound(station.ID)
	}

	log.Debug("station updated", slog.Int64("station_id", station.ID))
	return nil
}

// FindAll implements store.StationStore.FindAll
func (s *MongoStationStore) FindAll(ctx context.Context) ([]*domain.Station, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cursor, err := s.stations.Find(ctx,
		bson.M{"is_deleted": false},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		log.Error("failed to query stations", slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.EntityStation, "find_all", "failed to query stations", err)
	}

	var docs []stationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.NewStoreError(store.EntityStation, "find_all", "failed to decode stations", err)
	}

	stations := make([]*domain.Station, 0, len(docs))
	for _, doc := range docs {
		stations = append(stations, doc.toDomain())
	}
	return stations, nil
}

// FindByID implements store.StationStore.FindByID
func (s *MongoStationStore) FindByID(ctx context.Context, id int64) (*domain.Station, error) {
	station, err := s.findOne(ctx, "find_by_id", bson.M{"_id": id, "is_deleted": false}, nil)
	if err != nil {
		if isNoDocuments(err) {
			return nil, store.StationNotFound(id)
		}
		return nil, err
	}
	return station, nil
}

// FindByName implements store.StationStore.FindByName
func (s *MongoStationStore) FindByName(ctx context.Context, name string) (*domain.Station, error) {
	station, err := s.findOne(ctx, "find_by_name",
		bson.M{"name": name, "is_deleted": false},
		bson.D{{Key: "_id", Value: 1}})
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.NewNotFoundError(store.EntityStation, "name "+name)
		}
		return nil, err
	}
	return station, nil
}

// VerifyNameAlreadyExists implements store.StationStore.VerifyNameAlreadyExists
// false sorts before true, so an active match wins over deleted ones.
func (s *MongoStationStore) VerifyNameAlreadyExists(
	ctx context.Context,
	name string,
	excludeID int64,
) (store.NameCheck, error) {
	station, err := s.findOne(ctx, "verify_name",
		bson.M{"name": name, "_id": bson.M{"$ne": excludeID}},
		bson.D{{Key: "is_deleted", Value: 1}, {Key: "_id", Value: 1}})
	if err != nil {
		if isNoDocuments(err) {
			return store.NameCheck{}, nil
		}
		return store.NameCheck{}, err
	}
	return store.NameCheck{Matched: station, AlreadyExists: true}, nil
}

// findOne returns mongo.ErrNoDocuments unwrapped so callers can build their own NotFound error.
func (s *MongoStationStore) findOne(ctx context.Context, op string, filter bson.M, sort bson.D) (*domain.Station, error) {
	opts := options.FindOne()
	if sort != nil {
		opts.SetSort(sort)
	}

	var doc stationDocument
	err := s.stations.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, err
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query station",
			slog.String("error", err.Error()),
			slog.String("operation", op))
		return nil, store.NewStoreError(store.EntityStation, op, "failed to query station", err)
	}
	return doc.toDomain(), nil
}

// Delete implements store.StationStore.Delete
func (s *MongoStationStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.stations.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error("failed to delete station",
			slog.String("error", err.Error()),
			slog.Int64("station_id", id))
		return store.NewStoreError(store.EntityStation, "delete", "failed to delete station", err)
	}
	if result.DeletedCount == 0 {
		return store.StationNotFound(id)
	}

	log.Debug("station removed", slog.Int64("station_id", id))
	return nil
}

// DeleteAll implements store.StationStore.DeleteAll
func (s *MongoStationStore) DeleteAll(ctx context.Context) (int64, error) {
	return s.setDeleted(ctx, true, "delete_all")
}

// RestoreAll implements store.StationStore.RestoreAll
func (s *MongoStationStore) RestoreAll(ctx context.Context) (int64, error) {
	return s.setDeleted(ctx, false, "restore_all")
}

func (s *MongoStationStore) setDeleted(ctx context.Context, deleted bool, op string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.stations.UpdateMany(ctx,
		bson.M{"is_deleted": !deleted},
		bson.M{"$set": bson.M{"is_deleted": deleted}})
	if err != nil {
		log.Error("failed to flip station deleted flags",
			slog.String("error", err.Error()),
			slog.String("operation", op))
		return 0, store.NewStoreError(store.EntityStation, op, "failed to update stations", MapError(err))
	}

	log.Info("station deleted flags updated",
		slog.String("operation", op),
		slog.Int64("count", result.ModifiedCount))
	return result.ModifiedCount, nil
}

// Atomically implements store.StationStore.Atomically
// fn must issue every call with the context it receives; that context carries the session.
func (s *MongoStationStore) Atomically(
	ctx context.Context,
	fn func(ctx context.Context, tx store.StationStore) error,
) error {
	if s.inTx {
		return fn(ctx, s)
	}

	tx := *s
	tx.inTx = true
	return withTransaction(ctx, s.client, s.logger, func(sc context.Context) error {
		return fn(sc, &tx)
	})
}

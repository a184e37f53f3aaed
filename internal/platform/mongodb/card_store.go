package mongodb

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cardDocument struct {
	ID      int64  `bson:"_id"`
	Name    string `bson:"name"`
	Balance int64  `bson:"balance"`
}

type transactionDocument struct {
	ID          int64     `bson:"_id"`
	CardID      int64     `bson:"card_id"`
	CardName    string    `bson:"card_name"`
	CardBalance int64     `bson:"card_balance"`
	Amount      int64     `bson:"amount"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d transactionDocument) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID: d.ID,
		Card: domain.CardSnapshot{
			ID:      d.CardID,
			Name:    d.CardName,
			Balance: d.CardBalance,
		},
		Amount:    d.Amount,
		Timestamp: d.CreatedAt.UTC(),
	}
}

// MongoCardStore implements the store.CardStore interface
// using a MongoDB database as the storage backend.
type MongoCardStore struct {
	client       *mongo.Client
	cards        *mongo.Collection
	transactions *mongo.Collection
	counters     counters
	now          func() time.Time
	logger       *slog.Logger
}

// NewMongoCardStore creates a card store over db.
// If logger is nil, a default logger will be used.
func NewMongoCardStore(db *mongo.Database, logger *slog.Logger) *MongoCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &MongoCardStore{
		client:       db.Client(),
		cards:        db.Collection(cardsCollection),
		transactions: db.Collection(transactionsCollection),
		counters:     counters{coll: db.Collection(countersCollection)},
		now:          time.Now,
		logger:       logger.With(slog.String("component", "card_store"), slog.String("backend", "mongodb")),
	}
}

// Ensure MongoCardStore implements store.CardStore interface
var _ store.CardStore = (*MongoCardStore)(nil)

// Save implements store.CardStore.Save
func (s *MongoCardStore) Save(ctx context.Context, card *domain.Card) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !card.IsPersisted() {
		id, err := s.counters.next(ctx, cardsCollection)
		if err != nil {
			return nil, store.NewStoreError(store.EntityCard, "insert", "failed to allocate id", err)
		}

		doc := cardDocument{ID: id, Name: card.Name, Balance: card.Balance}
		if _, err := s.cards.InsertOne(ctx, doc); err != nil {
			log.Error("failed to insert card", slog.String("error", err.Error()))
			return nil, store.NewStoreError(store.EntityCard, "insert", "failed to insert card", MapError(err))
		}

		card.ID = id
		log.Debug("card inserted", slog.Int64("card_id", id))
		return nil, nil
	}

	var txn *domain.Transaction
	err := withTransaction(ctx, s.client, s.logger, func(ctx context.Context) error {
		var err error
		txn, err = s.update(ctx, card)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("card balance recorded",
		slog.Int64("card_id", card.ID),
		slog.Int64("transaction_id", txn.ID),
		slog.Int64("amount", txn.Amount))
	return txn, nil
}

func (s *MongoCardStore) update(ctx context.Context, card *domain.Card) (*domain.Transaction, error) {
	var old cardDocument
	err := s.cards.FindOneAndUpdate(ctx,
		bson.M{"_id": card.ID},
		bson.M{"$set": bson.M{"name": card.Name, "balance": card.Balance}},
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&old)
	if err != nil {
		if isNoDocuments(err) {
			return nil, store.CardNotFound(card.ID)
		}
		return nil, store.NewStoreError(store.EntityCard, "update", "failed to update card", MapError(err))
	}

	// BSON dates hold milliseconds.
	txn := domain.NewTransaction(card, old.Balance, s.now().Truncate(time.Millisecond))

	id, err := s.counters.next(ctx, transactionsCollection)
	if err != nil {
		return nil, store.NewStoreError(store.EntityTransaction, "insert", "failed to allocate id", err)
	}

	doc := transactionDocument{
		ID:          id,
		CardID:      txn.Card.ID,
		CardName:    txn.Card.Name,
		CardBalance: txn.Card.Balance,
		Amount:      txn.Amount,
		CreatedAt:   txn.Timestamp,
	}
	if _, err := s.transactions.InsertOne(ctx, doc); err != nil {
		return nil, store.NewStoreError(store.EntityTransaction, "insert", "failed to record transaction", MapError(err))
	}

	txn.ID = id
	return txn, nil
}

// FindByID implements store.CardStore.FindByID
func (s *MongoCardStore) FindByID(ctx context.Context, id int64) (*domain.Card, error) {
	var doc cardDocument
	err := s.cards.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, store.CardNotFound(id)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return nil, store.NewStoreError(store.EntityCard, "find_by_id", "failed to get card", err)
	}

	return &domain.Card{ID: doc.ID, Name: doc.Name, Balance: doc.Balance}, nil
}

// FindTransactionsByCardID implements store.CardStore.FindTransactionsByCardID
func (s *MongoCardStore) FindTransactionsByCardID(
	ctx context.Context,
	cardID int64,
) ([]*domain.Transaction, error) {
	cursor, err := s.transactions.Find(ctx,
		bson.M{"card_id": cardID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query transactions",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return nil, store.NewStoreError(store.EntityTransaction, "find_by_card", "failed to query transactions", err)
	}

	var docs []transactionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.NewStoreError(store.EntityTransaction, "find_by_card", "failed to decode transactions", err)
	}

	txns := make([]*domain.Transaction, 0, len(docs))
	for _, doc := range docs {
		txns = append(txns, doc.toDomain())
	}
	return txns, nil
}

package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	conn   store.TxBeginner // nil when db is already a transaction
	now    func() time.Time
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	conn, _ := db.(store.TxBeginner)
	return &PostgresCardStore{
		db:     db,
		conn:   conn,
		now:    time.Now,
		logger: logger.With(slog.String("component", "card_store"), slog.String("backend", "postgres")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx returns a store that issues all queries on tx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) *PostgresCardStore {
	return &PostgresCardStore{
		db:     tx,
		now:    s.now,
		logger: s.logger,
	}
}

// Save implements store.CardStore.Save
// Updates lock the card row, write it and append the ledger entry in one transaction.
func (s *PostgresCardStore) Save(ctx context.Context, card *domain.Card) (*domain.Transaction, error) {
	if !card.IsPersisted() {
		return nil, s.insert(ctx, card)
	}

	if s.conn == nil {
		return s.update(ctx, card)
	}

	var txn *domain.Transaction
	err := store.RunInTransaction(ctx, s.conn, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		txn, err = s.WithTx(tx).update(ctx, card)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *PostgresCardStore) insert(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO cards (name, balance) VALUES ($1, $2) RETURNING id`,
		card.Name, card.Balance,
	).Scan(&id)
	if err != nil {
		log.Error("failed to insert card", slog.String("error", err.Error()))
		return store.NewStoreError(store.EntityCard, "insert", "failed to insert card", MapError(err))
	}

	card.ID = id
	log.Debug("card inserted", slog.Int64("card_id", id))
	return nil
}

func (s *PostgresCardStore) update(ctx context.Context, card *domain.Card) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var oldBalance int64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM cards WHERE id = $1 FOR UPDATE`, card.ID,
	).Scan(&oldBalance)
	if err != nil {
		if isNoRows(err) {
			log.Debug("card not found for update", slog.Int64("card_id", card.ID))
			return nil, store.CardNotFound(card.ID)
		}
		log.Error("failed to read card balance",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return nil, store.NewStoreError(store.EntityCard, "update", "failed to read card", MapError(err))
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE cards SET name = $1, balance = $2 WHERE id = $3`,
		card.Name, card.Balance, card.ID)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return nil, store.NewStoreError(store.EntityCard, "update", "failed to update card", MapError(err))
	}

	txn := domain.NewTransaction(card, oldBalance, s.now())
	query := `
		INSERT INTO transactions (card_id, card_name, card_balance, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err = s.db.QueryRowContext(ctx, query,
		txn.Card.ID, txn.Card.Name, txn.Card.Balance, txn.Amount, txn.Timestamp,
	).Scan(&txn.ID)
	if err != nil {
		log.Error("failed to record transaction",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return nil, store.NewStoreError(store.EntityTransaction, "insert", "failed to record transaction", MapError(err))
	}

	log.Info("card balance recorded",
		slog.Int64("card_id", card.ID),
		slog.Int64("transaction_id", txn.ID),
		slog.Int64("amount", txn.Amount))
	return txn, nil
}

// FindByID implements store.CardStore.FindByID
func (s *PostgresCardStore) FindByID(ctx context.Context, id int64) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card domain.Card
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, balance FROM cards WHERE id = $1`, id,
	).Scan(&card.ID, &card.Name, &card.Balance)
	if err != nil {
		if isNoRows(err) {
			return nil, store.CardNotFound(id)
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return nil, store.NewStoreError(store.EntityCard, "find_by_id", "failed to get card", MapError(err))
	}

	return &card, nil
}

// FindTransactionsByCardID implements store.CardStore.FindTransactionsByCardID
func (s *PostgresCardStore) FindTransactionsByCardID(
	ctx context.Context,
	cardID int64,
) ([]*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, card_id, card_name, card_balance, amount, created_at
		FROM transactions
		WHERE card_id = $1
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, cardID)
	if err != nil {
		log.Error("failed to query transactions",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return nil, store.NewStoreError(store.EntityTransaction, "find_by_card", "failed to query transactions", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	txns := make([]*domain.Transaction, 0)
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.Card.ID,
			&txn.Card.Name,
			&txn.Card.Balance,
			&txn.Amount,
			&txn.Timestamp,
		); err != nil {
			return nil, store.NewStoreError(store.EntityTransaction, "find_by_card", "failed to scan transaction", err)
		}
		txn.Timestamp = txn.Timestamp.UTC()
		txns = append(txns, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(store.EntityTransaction, "find_by_card", "failed to iterate transactions", err)
	}

	return txns, nil
}

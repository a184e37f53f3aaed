package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/store"
)

// MemoryCardStore implements store.CardStore in process memory.
type MemoryCardStore struct {
	mu           sync.Mutex
	cards        map[int64]*domain.Card
	transactions []*domain.Transaction
	lastCardID   int64
	lastTxnID    int64
	now          func() time.Time
	logger       *slog.Logger
}

// NewMemoryCardStore creates an empty card store.
// If logger is nil, a default logger will be used.
func NewMemoryCardStore(logger *slog.Logger) *MemoryCardStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &MemoryCardStore{
		cards:  make(map[int64]*domain.Card),
		now:    time.Now,
		logger: logger.With(slog.String("component", "card_store"), slog.String("backend", "memory")),
	}
}

// Ensure MemoryCardStore implements store.CardStore interface
var _ store.CardStore = (*MemoryCardStore)(nil)

// Save implements store.CardStore.Save
func (s *MemoryCardStore) Save(ctx context.Context, card *domain.Card) (*domain.Transaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !card.IsPersisted() {
		s.lastCardID++
		card.ID = s.lastCardID
		cp := *card
		s.cards[card.ID] = &cp
		log.Debug("card inserted",
			slog.Int64("card_id", card.ID),
			slog.Int64("balance", card.Balance))
		return nil, nil
	}

	previous, ok := s.cards[card.ID]
	if !ok {
		return nil, store.CardNotFound(card.ID)
	}

	oldBalance := previous.Balance
	cp := *card
	s.cards[card.ID] = &cp

	txn := domain.NewTransaction(card, oldBalance, s.now())
	s.lastTxnID++
	txn.ID = s.lastTxnID
	stored := *txn
	s.transactions = append(s.transactions, &stored)

	log.Debug("card updated",
		slog.Int64("card_id", card.ID),
		slog.Int64("transaction_id", txn.ID),
		slog.Int64("amount", txn.Amount))
	return txn, nil
}

// FindByID implements store.CardStore.FindByID
func (s *MemoryCardStore) FindByID(ctx context.Context, id int64) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, store.CardNotFound(id)
	}
	cp := *card
	return &cp, nil
}

// FindTransactionsByCardID implements store.CardStore.FindTransactionsByCardID
func (s *MemoryCardStore) FindTransactionsByCardID(ctx context.Context, cardID int64) ([]*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txns := make([]*domain.Transaction, 0)
	for _, txn := range s.transactions {
		if txn.Card.ID == cardID {
			cp := *txn
			txns = append(txns, &cp)
		}
	}
	return txns, nil
}

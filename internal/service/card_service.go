package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/store"
)

// AddCardInput carries the values for a new card.
type AddCardInput struct {
	Name    string
	Balance int64
}

// UpdateCardInput carries a partial card update. Nil fields are left unchanged.
type UpdateCardInput struct {
	Name    *string
	Balance *int64
}

// CardUpdate is the outcome of CardService.Update.
type CardUpdate struct {
	Card        *domain.Card
	Transaction *domain.Transaction
}

// CardService provides the card use cases.
type CardService interface {
	// Add creates a card with an opening balance. No transaction is recorded.
	Add(ctx context.Context, input AddCardInput) (*domain.Card, error)

	// Update applies a partial update and records exactly one transaction for
	// the balance delta, even when the delta is zero.
	Update(ctx context.Context, id int64, input UpdateCardInput) (*CardUpdate, error)

	// Get returns a card by ID.
	Get(ctx context.Context, id int64) (*domain.Card, error)

	// FindTransactions returns the card's ledger in insertion order.
	// Returns a NotFound error if the card does not exist.
	FindTransactions(ctx context.Context, cardID int64) ([]*domain.Transaction, error)
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	cards  store.CardStore
	logger *slog.Logger
}

// NewCardService creates a new CardService.
// It returns an error if the store is nil.
func NewCardService(cards store.CardStore, logger *slog.Logger) (CardService, error) {
	if cards == nil {
		return nil, nilDependency("cards")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		cards:  cards,
		logger: logger.With(slog.String("component", "card_service")),
	}, nil
}

// Add implements CardService.Add
func (s *cardServiceImpl) Add(ctx context.Context, input AddCardInput) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := domain.NewCard(input.Name, input.Balance)
	if err != nil {
		log.Debug("invalid card input", slog.String("error", err.Error()))
		return nil, err
	}

	if _, err := s.cards.Save(ctx, card); err != nil {
		return nil, s.wrap("add", "failed to add card", err)
	}

	log.Info("card added",
		slog.Int64("card_id", card.ID),
		slog.Int64("balance", card.Balance))
	return card, nil
}

// Update implements CardService.Update
func (s *cardServiceImpl) Update(ctx context.Context, id int64, input UpdateCardInput) (*CardUpdate, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrap("update", "failed to load card", err)
	}

	if err := card.Update(domain.CardChanges{Name: input.Name, Balance: input.Balance}); err != nil {
		log.Debug("invalid card update", slog.String("error", err.Error()))
		return nil, err
	}

	txn, err := s.cards.Save(ctx, card)
	if err != nil {
		return nil, s.wrap("update", "failed to update card", err)
	}

	log.Info("card updated",
		slog.Int64("card_id", card.ID),
		slog.Int64("amount", txn.Amount))
	return &CardUpdate{Card: card, Transaction: txn}, nil
}

// Get implements CardService.Get
func (s *cardServiceImpl) Get(ctx context.Context, id int64) (*domain.Card, error) {
	card, err := s.cards.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrap("get", "failed to get card", err)
	}
	return card, nil
}

// FindTransactions implements CardService.FindTransactions
func (s *cardServiceImpl) FindTransactions(ctx context.Context, cardID int64) ([]*domain.Transaction, error) {
	if _, err := s.cards.FindByID(ctx, cardID); err != nil {
		return nil, s.wrap("find_transactions", "failed to load card", err)
	}

	txns, err := s.cards.FindTransactionsByCardID(ctx, cardID)
	if err != nil {
		return nil, s.wrap("find_transactions", "failed to list transactions", err)
	}
	return txns, nil
}

func (s *cardServiceImpl) wrap(op, msg string, err error) error {
	if isDomainError(err) {
		return err
	}
	return NewCardServiceError(op, msg, err)
}

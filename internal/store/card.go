package store

import (
	"context"

	"github.com/phrazzld/transit-api/internal/domain"
)

// CardStore defines the interface for card and ledger persistence.
type CardStore interface {
	// Save persists a card.
	//
	// A card without an ID is inserted and receives the next ID; no transaction is
	// recorded regardless of the opening balance, and the returned transaction is nil.
	//
	// A card with an ID is updated. The previously persisted balance is read, the new
	// name and balance are written, and exactly one transaction with
	// Amount = new balance - old balance is appended, even when the amount is zero.
	// The three steps form one unit of work. Returns a NotFound error if the card
	// does not exist.
	Save(ctx context.Context, card *domain.Card) (*domain.Transaction, error)

	// FindByID retrieves a card by ID.
	// Returns a NotFound error if the card does not exist.
	FindByID(ctx context.Context, id int64) (*domain.Card, error)

	// FindTransactionsByCardID returns the card's ledger in insertion order.
	// The result is an empty, non-nil slice when there are no entries.
	FindTransactionsByCardID(ctx context.Context, cardID int64) ([]*domain.Transaction, error)
}

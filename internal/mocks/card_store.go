package mocks

import (
	"context"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockCardStore is a mock of store.CardStore for use with testify/mock.
type MockCardStore struct {
	mock.Mock
}

var _ store.CardStore = (*MockCardStore)(nil)

// Save is a mock implementation of store.CardStore.Save
func (m *MockCardStore) Save(ctx context.Context, card *domain.Card) (*domain.Transaction, error) {
	args := m.Called(ctx, card)
	if txn, ok := args.Get(0).(*domain.Transaction); ok {
		return txn, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID is a mock implementation of store.CardStore.FindByID
func (m *MockCardStore) FindByID(ctx context.Context, id int64) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if card, ok := args.Get(0).(*domain.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindTransactionsByCardID is a mock implementation of store.CardStore.FindTransactionsByCardID
func (m *MockCardStore) FindTransactionsByCardID(ctx context.Context, cardID int64) ([]*domain.Transaction, error) {
	args := m.Called(ctx, cardID)
	if txns, ok := args.Get(0).([]*domain.Transaction); ok {
		return txns, args.Error(1)
	}
	return nil, args.Error(1)
}

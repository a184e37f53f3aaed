package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/service"
)

// MockCardService implements service.CardService for handler tests.
type MockCardService struct {
	AddFn              func(ctx context.Context, input service.AddCardInput) (*domain.Card, error)
	UpdateFn           func(ctx context.Context, id int64, input service.UpdateCardInput) (*service.CardUpdate, error)
	GetFn              func(ctx context.Context, id int64) (*domain.Card, error)
	FindTransactionsFn func(ctx context.Context, cardID int64) ([]*domain.Transaction, error)

	// Default response values
	Card         *domain.Card
	CardUpdate   *service.CardUpdate
	Transactions []*domain.Transaction
	Err          error

	// Call tracking for verification
	UpdateCalls struct {
		mu     sync.Mutex
		Count  int
		IDs    []int64
		Inputs []service.UpdateCardInput
	}
}

var _ service.CardService = (*MockCardService)(nil)

// Add implements service.CardService.
func (m *MockCardService) Add(ctx context.Context, input service.AddCardInput) (*domain.Card, error) {
	if m.AddFn != nil {
		return m.AddFn(ctx, input)
	}
	return m.Card, m.Err
}

// Update implements service.CardService.
func (m *MockCardService) Update(
	ctx context.Context,
	id int64,
	input service.UpdateCardInput,
) (*service.CardUpdate, error) {
	m.UpdateCalls.mu.Lock()
	m.UpdateCalls.Count++
	m.UpdateCalls.IDs = append(m.UpdateCalls.IDs, id)
	m.UpdateCalls.Inputs = append(m.UpdateCalls.Inputs, input)
	m.UpdateCalls.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, input)
	}
	return m.CardUpdate, m.Err
}

// Get implements service.CardService.
func (m *MockCardService) Get(ctx context.Context, id int64) (*domain.Card, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return m.Card, m.Err
}

// FindTransactions implements service.CardService.
func (m *MockCardService) FindTransactions(ctx context.Context, cardID int64) ([]*domain.Transaction, error) {
	if m.FindTransactionsFn != nil {
		return m.FindTransactionsFn(ctx, cardID)
	}
	return m.Transactions, m.Err
}

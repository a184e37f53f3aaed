package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/service"
)

// MockStationService implements service.StationService for handler tests.
// Each method calls its Fn field when set and otherwise returns the defaults.
type MockStationService struct {
	AddFn        func(ctx context.Context, input service.AddStationInput) (*domain.Station, error)
	UpdateFn     func(ctx context.Context, id int64, input service.UpdateStationInput) (*domain.Station, error)
	RemoveFn     func(ctx context.Context, id int64) error
	RemoveAllFn  func(ctx context.Context) (int64, error)
	RestoreAllFn func(ctx context.Context) (int64, error)
	ListFn       func(ctx context.Context) ([]*domain.Station, error)
	GetFn        func(ctx context.Context, id int64) (*domain.Station, error)

	// Default response values
	Station  *domain.Station
	Stations []*domain.Station
	Affected int64
	Err      error

	mu    sync.Mutex
	calls map[string]int
}

var _ service.StationService = (*MockStationService)(nil)

// Calls returns how many times method was invoked.
func (m *MockStationService) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockStationService) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// Add implements service.StationService.
func (m *MockStationService) Add(ctx context.Context, input service.AddStationInput) (*domain.Station, error) {
	m.record("Add")
	if m.AddFn != nil {
		return m.AddFn(ctx, input)
	}
	return m.Station, m.Err
}

// Update implements service.StationService.
func (m *MockStationService) Update(
	ctx context.Context,
	id int64,
	input service.UpdateStationInput,
) (*domain.Station, error) {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, input)
	}
	return m.Station, m.Err
}

// Remove implements service.StationService.
func (m *MockStationService) Remove(ctx context.Context, id int64) error {
	m.record("Remove")
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, id)
	}
	return m.Err
}

// RemoveAll implements service.StationService.
func (m *MockStationService) RemoveAll(ctx context.Context) (int64, error) {
	m.record("RemoveAll")
	if m.RemoveAllFn != nil {
		return m.RemoveAllFn(ctx)
	}
	return m.Affected, m.Err
}

// RestoreAll implements service.StationService.
func (m *MockStationService) RestoreAll(ctx context.Context) (int64, error) {
	m.record("RestoreAll")
	if m.RestoreAllFn != nil {
		return m.RestoreAllFn(ctx)
	}
	return m.Affected, m.Err
}

// List implements service.StationService.
func (m *MockStationService) List(ctx context.Context) ([]*domain.Station, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return m.Stations, m.Err
}

// Get implements service.StationService.
func (m *MockStationService) Get(ctx context.Context, id int64) (*domain.Station, error) {
	m.record("Get")
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return m.Station, m.Err
}

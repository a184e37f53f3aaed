package mocks

import (
	"context"

	"github.com/phrazzld/transit-api/internal/domain"
	"github.com/phrazzld/transit-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockStationStore is a mock of store.StationStore for use with testify/mock.
type MockStationStore struct {
	mock.Mock
}

var _ store.StationStore = (*MockStationStore)(nil)

// Save is a mock implementation of store.StationStore.Save
func (m *MockStationStore) Save(ctx context.Context, station *domain.Station) error {
	args := m.Called(ctx, station)
	return args.Error(0)
}

// FindAll is a mock implementation of store.StationStore.FindAll
func (m *MockStationStore) FindAll(ctx context.Context) ([]*domain.Station, error) {
	args := m.Called(ctx)
	if stations, ok := args.Get(0).([]*domain.Station); ok {
		return stations, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID is a mock implementation of store.StationStore.FindByID
func (m *MockStationStore) FindByID(ctx context.Context, id int64) (*domain.Station, error) {
	args := m.Called(ctx, id)
	if station, ok := args.Get(0).(*domain.Station); ok {
		return station, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByName is a mock implementation of store.StationStore.FindByName
func (m *MockStationStore) FindByName(ctx context.Context, name string) (*domain.Station, error) {
	args := m.Called(ctx, name)
	if station, ok := args.Get(0).(*domain.Station); ok {
		return station, args.Error(1)
	}
	return nil, args.Error(1)
}

// VerifyNameAlreadyExists is a mock implementation of store.StationStore.VerifyNameAlreadyExists
func (m *MockStationStore) VerifyNameAlreadyExists(
	ctx context.Context,
	name string,
	excludeID int64,
) (store.NameCheck, error) {
	args := m.Called(ctx, name, excludeID)
	if check, ok := args.Get(0).(store.NameCheck); ok {
		return check, args.Error(1)
	}
	return store.NameCheck{}, args.Error(1)
}

// Delete is a mock implementation of store.StationStore.Delete
func (m *MockStationStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeleteAll is a mock implementation of store.StationStore.DeleteAll
func (m *MockStationStore) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// RestoreAll is a mock implementation of store.StationStore.RestoreAll
func (m *MockStationStore) RestoreAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Atomically records the call and, unless an error is configured, runs fn
// against the mock itself.
func (m *MockStationStore) Atomically(
	ctx context.Context,
	fn func(ctx context.Context, tx store.StationStore) error,
) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m)
}

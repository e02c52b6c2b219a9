package mocks

import (
	"context"

	"fleetcare/fleet-service/internal/app/fleet/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCrudRepository мок для CrudRepository любой сущности
type MockCrudRepository[T any] struct {
	mock.Mock
}

func (m *MockCrudRepository[T]) Create(ctx context.Context, item *T) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCrudRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockCrudRepository[T]) List(ctx context.Context, offset, limit int) ([]T, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockCrudRepository[T]) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCrudRepository[T]) Update(ctx context.Context, item *T) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCrudRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCrudRepository[T]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockVehicleRepository мок для VehicleRepository
type MockVehicleRepository struct {
	MockCrudRepository[entity.Vehicle]
}

// MockMaintenanceHistoryRepository мок для MaintenanceHistoryRepository
type MockMaintenanceHistoryRepository struct {
	MockCrudRepository[entity.MaintenanceHistory]
}

// MockUserRepository мок для UserRepository
type MockUserRepository struct {
	MockCrudRepository[entity.User]
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

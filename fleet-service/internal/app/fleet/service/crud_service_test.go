package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/fleet-service/internal/app/fleet/repository"
	"fleetcare/fleet-service/internal/app/fleet/repository/mocks"
	"fleetcare/fleet-service/internal/app/fleet/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newValidVehicle() *entity.Vehicle {
	return &entity.Vehicle{
		LicensePlate: "ABC1D23",
		VehicleModel: entity.VehicleModelPop,
	}
}

// ==================== List Tests ====================

func TestCrudService_List_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	repo := new(mocks.MockVehicleRepository)
	repo.On("Count", mock.Anything).Return(int64(25), nil)
	repo.On("List", mock.Anything, 10, 10).Return(make([]entity.Vehicle, 10), nil)

	svc := NewVehicleService(repo)

	// Act
	page, err := svc.List(ctx, entity.NewPagingParameters(2, 10))

	// Assert
	require.NoError(t, err)
	assert.Len(t, page.Items(), 10)
	assert.Equal(t, 3, page.TotalPages())
	assert.True(t, page.HasPrevious())
	assert.True(t, page.HasNext())
	repo.AssertExpectations(t)
}

func TestCrudService_List_NormalizesParameters(t *testing.T) {
	// Arrange
	repo := new(mocks.MockVehicleRepository)
	repo.On("Count", mock.Anything).Return(int64(3), nil)
	repo.On("List", mock.Anything, 0, 10).Return([]entity.Vehicle{{}, {}, {}}, nil)

	svc := NewVehicleService(repo)

	// Act
	page, err := svc.List(context.Background(), entity.PagingParameters{PageNumber: -1, PageSize: 500})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage())
	assert.Equal(t, 10, page.PageSize())
	repo.AssertExpectations(t)
}

func TestCrudService_List_PageBeyondTotalSkipsQuery(t *testing.T) {
	// Arrange
	repo := new(mocks.MockVehicleRepository)
	repo.On("Count", mock.Anything).Return(int64(25), nil)

	svc := NewVehicleService(repo)

	// Act
	page, err := svc.List(context.Background(), entity.NewPagingParameters(9, 10))

	// Assert
	require.NoError(t, err)
	assert.Empty(t, page.Items())
	assert.Equal(t, int64(25), page.TotalItems())
	assert.Equal(t, 3, page.TotalPages())
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestCrudService_List_HugePageNumberSkipsQuery(t *testing.T) {
	// Arrange
	repo := new(mocks.MockVehicleRepository)
	repo.On("Count", mock.Anything).Return(int64(25), nil)

	svc := NewVehicleService(repo)

	// Act
	page, err := svc.List(context.Background(), entity.NewPagingParameters(922337203685477582, 10))

	// Assert
	require.NoError(t, err)
	assert.Empty(t, page.Items())
	assert.Equal(t, 922337203685477582, page.CurrentPage())
	assert.Equal(t, 3, page.TotalPages())
	assert.False(t, page.HasNext())
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestCrudService_List_CountError(t *testing.T) {
	// Arrange
	repo := new(mocks.MockVehicleRepository)
	repo.On("Count", mock.Anything).Return(int64(0), errors.New("db down"))

	svc := NewVehicleService(repo)

	// Act
	page, err := svc.List(context.Background(), entity.NewPagingParameters(1, 10))

	// Assert
	assert.Nil(t, page)
	assert.ErrorIs(t, err, ErrInternal)
}

// ==================== Get Tests ====================

func TestCrudService_Get(t *testing.T) {
	ctx := context.Background()
	found := uuid.New()
	missing := uuid.New()
	broken := uuid.New()

	repo := new(mocks.MockVehicleRepository)
	repo.On("GetByID", mock.Anything, found).Return(&entity.Vehicle{ID: found}, nil)
	repo.On("GetByID", mock.Anything, missing).Return(nil, repository.ErrNotFound)
	repo.On("GetByID", mock.Anything, broken).Return(nil, errors.New("timeout"))

	svc := NewVehicleService(repo)

	v, err := svc.Get(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, found, v.ID)

	v, err = svc.Get(ctx, missing)
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrNotFound)

	v, err = svc.Get(ctx, broken)
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrInternal)
}

// ==================== Create Tests ====================

func TestCrudService_Create_AssignsID(t *testing.T) {
	// Arrange
	repo := new(mocks.MockVehicleRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Vehicle")).Return(nil)

	svc := NewVehicleService(repo)

	// Act
	created, err := svc.Create(context.Background(), newValidVehicle())

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	repo.AssertExpectations(t)
}

func TestCrudService_Create_ValidationError(t *testing.T) {
	testCases := []struct {
		name    string
		vehicle *entity.Vehicle
		field   string
	}{
		{"missing plate", &entity.Vehicle{VehicleModel: entity.VehicleModelSport}, "licensePlate"},
		{"plate too long", &entity.Vehicle{LicensePlate: "ABCDEFGHI", VehicleModel: entity.VehicleModelSport}, "licensePlate"},
		{"unknown model", &entity.Vehicle{LicensePlate: "ABC1D23", VehicleModel: "TRUCK"}, "vehicleModel"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := new(mocks.MockVehicleRepository)
			svc := NewVehicleService(repo)

			// Act
			created, err := svc.Create(context.Background(), tc.vehicle)

			// Assert
			assert.Nil(t, created)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tc.field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCrudService_Create_UserHashesPassword(t *testing.T) {
	// Arrange
	repo := new(mocks.MockUserRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Password == "" && util.CheckPassword("password123", u.PasswordHash)
	})).Return(nil)

	svc := NewUserService(repo)
	user := &entity.User{Email: "new@fleet.io", Password: "password123", Type: entity.RoleClient}

	// Act
	created, err := svc.Create(context.Background(), user)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, created.Password)
	repo.AssertExpectations(t)
}

func TestCrudService_Create_UserValidation(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := NewUserService(repo)

	_, err := svc.Create(context.Background(), &entity.User{Email: "not-an-email", Password: "short", Type: "ROOT"})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "password")
	assert.Contains(t, err.Error(), "type")
}

func TestCrudService_Create_UserPasswordLength(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"bcrypt limit", strings.Repeat("a", 72), true},
		{"above bcrypt limit", strings.Repeat("a", 73), false},
		{"former upper bound", strings.Repeat("a", 100), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := new(mocks.MockUserRepository)
			repo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
			svc := NewUserService(repo)

			// Act
			_, err := svc.Create(context.Background(), &entity.User{Email: "long@fleet.io", Password: tc.password, Type: entity.RoleClient})

			// Assert
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), "password is max=72")
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCrudService_Create_IgnoresClientTimestamps(t *testing.T) {
	// Arrange
	past := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := new(mocks.MockVehicleRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(v *entity.Vehicle) bool {
		return v.CreatedAt.IsZero() && v.UpdatedAt.IsZero()
	})).Return(nil)

	svc := NewVehicleService(repo)
	vehicle := newValidVehicle()
	vehicle.CreatedAt = past
	vehicle.UpdatedAt = past

	// Act
	_, err := svc.Create(context.Background(), vehicle)

	// Assert
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCrudService_Create_Duplicate(t *testing.T) {
	// Arrange
	repo := new(mocks.MockUserRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	svc := NewUserService(repo)

	// Act
	_, err := svc.Create(context.Background(), &entity.User{Email: "dup@fleet.io", Password: "password123", Type: entity.RoleAdmin})

	// Assert
	assert.ErrorIs(t, err, ErrConflict)
}

// ==================== Update Tests ====================

func TestCrudService_Update_Success(t *testing.T) {
	// Arrange
	id := uuid.New()
	repo := new(mocks.MockVehicleRepository)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(v *entity.Vehicle) bool { return v.ID == id })).Return(nil)

	svc := NewVehicleService(repo)
	v := newValidVehicle()
	v.ID = id

	// Act
	err := svc.Update(context.Background(), id, v)

	// Assert
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCrudService_Update_EmptyBodyIDAdoptsPath(t *testing.T) {
	// Arrange
	id := uuid.New()
	repo := new(mocks.MockVehicleRepository)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	svc := NewVehicleService(repo)
	v := newValidVehicle()

	// Act
	err := svc.Update(context.Background(), id, v)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, id, v.ID)
}

func TestCrudService_Update_IDMismatch(t *testing.T) {
	// Arrange
	repo := new(mocks.MockVehicleRepository)
	svc := NewVehicleService(repo)
	v := newValidVehicle()
	v.ID = uuid.New()

	// Act
	err := svc.Update(context.Background(), uuid.New(), v)

	// Assert
	assert.ErrorIs(t, err, ErrIDMismatch)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCrudService_Update_RowMissing(t *testing.T) {
	// Arrange
	id := uuid.New()
	repo := new(mocks.MockVehicleRepository)
	repo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrNotFound)
	repo.On("Exists", mock.Anything, id).Return(false, nil)

	svc := NewVehicleService(repo)

	// Act
	err := svc.Update(context.Background(), id, newValidVehicle())

	// Assert
	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertExpectations(t)
}

func TestCrudService_Update_ConcurrencyConflict(t *testing.T) {
	// Arrange
	id := uuid.New()
	repo := new(mocks.MockVehicleRepository)
	repo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrNotFound)
	repo.On("Exists", mock.Anything, id).Return(true, nil)

	svc := NewVehicleService(repo)

	// Act
	err := svc.Update(context.Background(), id, newValidVehicle())

	// Assert
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	repo.AssertExpectations(t)
}

func TestCrudService_Update_MaintenanceValidation(t *testing.T) {
	// Arrange
	repo := new(mocks.MockMaintenanceHistoryRepository)
	svc := NewMaintenanceHistoryService(repo)
	history := &entity.MaintenanceHistory{
		VehicleID:       uuid.New(),
		MaintenanceDate: time.Now(),
		Description:     "oil change",
	}

	// Act
	err := svc.Update(context.Background(), uuid.New(), history)

	// Assert
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "userId")
}

// ==================== Delete Tests ====================

func TestCrudService_Delete(t *testing.T) {
	ctx := context.Background()
	existing := uuid.New()
	missing := uuid.New()

	repo := new(mocks.MockMaintenanceHistoryRepository)
	repo.On("Delete", mock.Anything, existing).Return(nil)
	repo.On("Delete", mock.Anything, missing).Return(repository.ErrNotFound)

	svc := NewMaintenanceHistoryService(repo)

	assert.NoError(t, svc.Delete(ctx, existing))
	assert.ErrorIs(t, svc.Delete(ctx, missing), ErrNotFound)
	assert.Equal(t, "maintenancehistories", svc.Resource())
}

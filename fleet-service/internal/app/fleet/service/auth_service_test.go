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

// Хелперы для создания тестовых данных
func newTestJWTManager(t *testing.T) *util.JWTManager {
	t.Helper()
	m, err := util.NewJWTManager(util.JWTSettings{
		SecretKey:      "test-secret-key",
		Issuer:         "fleetcare",
		Audience:       "fleetcare-clients",
		AccessDuration: time.Hour,
	})
	require.NoError(t, err)
	return m
}

func newTestStaticValidator() *StaticCredentialValidator {
	return NewStaticCredentialValidator(
		StaticAccount{Username: "admin", Secret: "admin123", Role: entity.RoleAdmin},
		StaticAccount{Username: "user", Secret: "user123", Role: entity.RoleClient},
	)
}

func newTestUser(t *testing.T) *entity.User {
	t.Helper()
	hash, err := util.HashPassword("password123")
	require.NoError(t, err)
	return &entity.User{
		ID:           uuid.New(),
		Email:        "client@fleet.io",
		PasswordHash: hash,
		Type:         entity.RoleClient,
	}
}

// recordingValidator запоминает, был ли вызван
type recordingValidator struct {
	called bool
}

func (r *recordingValidator) Validate(context.Context, string, string) (*entity.Identity, error) {
	r.called = true
	return nil, ErrInvalidCredentials
}

// ==================== Login Tests ====================

func TestAuthService_Login_StaticAdmin(t *testing.T) {
	// Arrange
	jwtManager := newTestJWTManager(t)
	authService := NewAuthService(newTestStaticValidator(), jwtManager)

	// Act
	resp, err := authService.Login(context.Background(), &entity.LoginRequest{Username: "admin", Password: "admin123"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Type)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "admin", resp.Identifier)
	assert.Len(t, strings.Split(resp.Token, "."), 3)

	claims, err := jwtManager.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestAuthService_Login_WrongSecret(t *testing.T) {
	// Arrange
	authService := NewAuthService(newTestStaticValidator(), newTestJWTManager(t))

	// Act
	resp, err := authService.Login(context.Background(), &entity.LoginRequest{Username: "admin", Password: "wrong"})

	// Assert
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_EmptyFieldsNeverReachValidator(t *testing.T) {
	testCases := []struct {
		name string
		req  entity.LoginRequest
	}{
		{"empty username", entity.LoginRequest{Password: "admin123"}},
		{"blank username", entity.LoginRequest{Username: "   ", Password: "admin123"}},
		{"empty password", entity.LoginRequest{Username: "admin"}},
		{"both empty", entity.LoginRequest{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			validator := &recordingValidator{}
			authService := NewAuthService(validator, newTestJWTManager(t))

			// Act
			resp, err := authService.Login(context.Background(), &tc.req)

			// Assert
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, ErrValidation)
			assert.False(t, validator.called)
		})
	}
}

func TestAuthService_Login_UserStore(t *testing.T) {
	// Arrange
	userRepo := new(mocks.MockUserRepository)
	user := newTestUser(t)
	userRepo.On("GetByEmail", mock.Anything, "client@fleet.io").Return(user, nil)

	jwtManager := newTestJWTManager(t)
	chain := NewChainCredentialValidator(newTestStaticValidator(), NewUserStoreCredentialValidator(userRepo))
	authService := NewAuthService(chain, jwtManager)

	// Act
	resp, err := authService.Login(context.Background(), &entity.LoginRequest{Email: "client@fleet.io", Password: "password123"})

	// Assert
	require.NoError(t, err)
	claims, err := jwtManager.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "client@fleet.io", claims.Subject)
	assert.Equal(t, entity.RoleClient, claims.Role)
	require.NotNil(t, claims.UserID)
	assert.Equal(t, user.ID, *claims.UserID)

	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	// Arrange
	userRepo := new(mocks.MockUserRepository)
	userRepo.On("GetByEmail", mock.Anything, "client@fleet.io").Return(nil, errors.New("connection refused"))

	authService := NewAuthService(NewUserStoreCredentialValidator(userRepo), newTestJWTManager(t))

	// Act
	resp, err := authService.Login(context.Background(), &entity.LoginRequest{Email: "client@fleet.io", Password: "password123"})

	// Assert
	assert.Nil(t, resp)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

// ==================== Credential Validator Tests ====================

func TestStaticCredentialValidator(t *testing.T) {
	v := newTestStaticValidator()
	ctx := context.Background()

	identity, err := v.Validate(ctx, "user", "user123")
	require.NoError(t, err)
	assert.Equal(t, entity.Identity{Subject: "user", Name: "user", Role: entity.RoleClient}, *identity)

	_, err = v.Validate(ctx, "user", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = v.Validate(ctx, "nobody", "user123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = NewStaticCredentialValidator().Validate(ctx, "admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserStoreCredentialValidator_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(mocks.MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "ghost@fleet.io").Return(nil, repository.ErrNotFound)

		_, err := NewUserStoreCredentialValidator(userRepo).Validate(ctx, "ghost@fleet.io", "password123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(mocks.MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "client@fleet.io").Return(newTestUser(t), nil)

		_, err := NewUserStoreCredentialValidator(userRepo).Validate(ctx, "client@fleet.io", "wrongpass")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("cancelled user", func(t *testing.T) {
		user := newTestUser(t)
		user.IsCancel = true
		userRepo := new(mocks.MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "client@fleet.io").Return(user, nil)

		_, err := NewUserStoreCredentialValidator(userRepo).Validate(ctx, "client@fleet.io", "password123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestChainCredentialValidator_StopsOnFirstMatch(t *testing.T) {
	// Arrange
	second := &recordingValidator{}
	chain := NewChainCredentialValidator(newTestStaticValidator(), second)

	// Act
	identity, err := chain.Validate(context.Background(), "admin", "admin123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, identity.Role)
	assert.False(t, second.called)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/fleet-service/internal/app/fleet/util"
	"fleetcare/pkg/logger"
)

const tokenType = "Bearer"

// AuthService обрабатывает бизнес-логику аутентификации
type AuthService struct {
	credentials CredentialValidator
	jwtManager  *util.JWTManager
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(credentials CredentialValidator, jwtManager *util.JWTManager) *AuthService {
	return &AuthService{
		credentials: credentials,
		jwtManager:  jwtManager,
	}
}

// Login проверяет учётные данные и выпускает токен доступа
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	identifier := req.Identifier()
	if identifier == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	identity, err := s.credentials.Validate(ctx, identifier, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to validate credentials: %w", err)
	}

	token, claims, err := s.jwtManager.GenerateAccessToken(*identity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	logger.Info().
		Str("subject", identity.Subject).
		Str("role", string(identity.Role)).
		Str("token_id", claims.ID).
		Msg("Access token issued")

	return &entity.LoginResponse{
		Token:      token,
		Type:       tokenType,
		ExpiresIn:  int64(s.jwtManager.GetAccessTokenDuration().Seconds()),
		Identifier: identity.Subject,
	}, nil
}

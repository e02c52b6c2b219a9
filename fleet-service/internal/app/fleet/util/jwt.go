package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fleetcare/fleet-service/internal/app/fleet/entity"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrMissingSecret = errors.New("jwt secret key is required")
)

// JWTClaims - полезная нагрузка токена доступа
type JWTClaims struct {
	Name   string      `json:"name,omitempty"`
	Role   entity.Role `json:"role"`
	UserID *uuid.UUID  `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// JWTSettings - параметры подписи и проверки, передаются явно при создании
type JWTSettings struct {
	SecretKey      string
	Issuer         string
	Audience       string
	AccessDuration time.Duration
}

type JWTManager struct {
	secretKey      []byte
	issuer         string
	audience       string
	accessDuration time.Duration
	now            func() time.Time
}

func NewJWTManager(settings JWTSettings) (*JWTManager, error) {
	if settings.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	if settings.AccessDuration <= 0 {
		return nil, fmt.Errorf("access token duration must be positive, got %s", settings.AccessDuration)
	}
	return &JWTManager{
		secretKey:      []byte(settings.SecretKey),
		issuer:         settings.Issuer,
		audience:       settings.Audience,
		accessDuration: settings.AccessDuration,
		now:            time.Now,
	}, nil
}

// GenerateAccessToken выпускает подписанный HS256 токен для подтверждённой личности
func (m *JWTManager) GenerateAccessToken(identity entity.Identity) (string, *JWTClaims, error) {
	now := m.now()
	claims := &JWTClaims{
		Name: identity.Name,
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.Subject,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if identity.UserID != uuid.Nil {
		userID := identity.UserID
		claims.UserID = &userID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// ValidateToken проверяет подпись, издателя, аудиторию и срок действия без допуска по времени
func (m *JWTManager) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (m *JWTManager) GetAccessTokenDuration() time.Duration {
	return m.accessDuration
}

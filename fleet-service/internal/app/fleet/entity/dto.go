package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LoginRequest - запрос на вход. Вместо username можно передать email
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Identifier возвращает идентификатор, по которому выполняется вход
func (r *LoginRequest) Identifier() string {
	if id := strings.TrimSpace(r.Username); id != "" {
		return id
	}
	return strings.TrimSpace(r.Email)
}

// LoginResponse - ответ с выданным токеном
type LoginResponse struct {
	Token      string `json:"token"`
	Type       string `json:"type"`
	ExpiresIn  int64  `json:"expiresIn"`
	Identifier string `json:"identifier"`
}

// MeResponse - данные текущего пользователя из токена
type MeResponse struct {
	Subject   string     `json:"subject"`
	Name      string     `json:"name,omitempty"`
	Role      Role       `json:"role"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	TokenID   string     `json:"tokenId"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// LinkDto - гипермедиа-ссылка
type LinkDto struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}

// HealthCheckResult - результат одной проверки зависимости
type HealthCheckResult struct {
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	DurationMs  float64 `json:"duration"`
	Error       string  `json:"error,omitempty"`
}

// HealthResponse - агрегированный ответ /health
type HealthResponse struct {
	Status      string              `json:"status"`
	Timestamp   time.Time           `json:"timestamp"`
	DurationMs  float64             `json:"duration"`
	Version     string              `json:"version"`
	Environment string              `json:"environment"`
	Checks      []HealthCheckResult `json:"checks"`
}

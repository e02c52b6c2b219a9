package service

import (
	"context"

	"fleetcare/fleet-service/internal/app/fleet/entity"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error)
}

// CredentialValidator сопоставляет идентификатор и секрет с личностью.
// При несовпадении возвращает ErrInvalidCredentials
type CredentialValidator interface {
	Validate(ctx context.Context, identifier, secret string) (*entity.Identity, error)
}

// ResourceService - CRUD операции над одним видом ресурса
type ResourceService[T any, PT entity.EntityPtr[T]] interface {
	Resource() string
	List(ctx context.Context, params entity.PagingParameters) (*entity.PagedResult[T], error)
	Get(ctx context.Context, id uuid.UUID) (PT, error)
	Create(ctx context.Context, item PT) (PT, error)
	Update(ctx context.Context, id uuid.UUID, item PT) error
	Delete(ctx context.Context, id uuid.UUID) error
}

package repository

import (
	"context"
	"errors"

	"fleetcare/fleet-service/internal/app/fleet/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrBadRange  = errors.New("invalid offset or limit")
)

// pgUniqueViolation - код ошибки PostgreSQL при нарушении уникального индекса
const pgUniqueViolation = "23505"

// CrudRepository - операции над одной таблицей
type CrudRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, offset, limit int) ([]T, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type VehicleRepository interface {
	CrudRepository[entity.Vehicle]
}

type MaintenanceHistoryRepository interface {
	CrudRepository[entity.MaintenanceHistory]
}

type UserRepository interface {
	CrudRepository[entity.User]
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// translateError приводит ошибки драйвера к ошибкам репозитория
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

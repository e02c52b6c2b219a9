package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/fleet-service/internal/app/fleet/repository"
	"fleetcare/fleet-service/internal/app/fleet/util"
	"fleetcare/pkg/logger"
)

// SaveHook вызывается перед записью сущности после успешной валидации
type SaveHook[T any, PT entity.EntityPtr[T]] func(ctx context.Context, item PT) error

// CrudService реализует CRUD для одного вида ресурса поверх CrudRepository
type CrudService[T any, PT entity.EntityPtr[T]] struct {
	resource   string
	repo       repository.CrudRepository[T]
	validate   *validator.Validate
	beforeSave SaveHook[T, PT]
}

// NewCrudService создает сервис ресурса. beforeSave может быть nil
func NewCrudService[T any, PT entity.EntityPtr[T]](resource string, repo repository.CrudRepository[T], beforeSave SaveHook[T, PT]) *CrudService[T, PT] {
	return &CrudService[T, PT]{
		resource:   resource,
		repo:       repo,
		validate:   newValidator(),
		beforeSave: beforeSave,
	}
}

// NewVehicleService создает сервис мотоциклов
func NewVehicleService(repo repository.VehicleRepository) *CrudService[entity.Vehicle, *entity.Vehicle] {
	return NewCrudService[entity.Vehicle, *entity.Vehicle]("vehicles", repo, nil)
}

// NewMaintenanceHistoryService создает сервис истории обслуживания
func NewMaintenanceHistoryService(repo repository.MaintenanceHistoryRepository) *CrudService[entity.MaintenanceHistory, *entity.MaintenanceHistory] {
	return NewCrudService[entity.MaintenanceHistory, *entity.MaintenanceHistory]("maintenancehistories", repo, nil)
}

// NewUserService создает сервис пользователей. Пароль хешируется перед записью
func NewUserService(repo repository.UserRepository) *CrudService[entity.User, *entity.User] {
	return NewCrudService[entity.User, *entity.User]("users", repo, hashUserPassword)
}

func hashUserPassword(_ context.Context, user *entity.User) error {
	hash, err := util.HashPassword(user.Password)
	if err != nil {
		if errors.Is(err, util.ErrPasswordTooLong) {
			return fmt.Errorf("%w: password is too long", ErrValidation)
		}
		return err
	}
	user.PasswordHash = hash
	user.Password = ""
	return nil
}

func (s *CrudService[T, PT]) Resource() string {
	return s.resource
}

// List возвращает страницу ресурса. Страница за пределами выборки даёт пустой список
func (s *CrudService[T, PT]) List(ctx context.Context, params entity.PagingParameters) (*entity.PagedResult[T], error) {
	params = entity.NewPagingParameters(params.PageNumber, params.PageSize)

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, s.internal("count", uuid.Nil, err)
	}

	var items []T
	if int64(params.Offset()) < total {
		items, err = s.repo.List(ctx, params.Offset(), params.Limit())
		if err != nil {
			return nil, s.internal("list", uuid.Nil, err)
		}
	}

	return entity.NewPagedResult(items, params, total), nil
}

func (s *CrudService[T, PT]) Get(ctx context.Context, id uuid.UUID) (PT, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, s.resource, id)
		}
		return nil, s.internal("get", id, err)
	}
	return PT(item), nil
}

// Create валидирует и сохраняет сущность. Пустой id заменяется новым UUID,
// время создания и изменения всегда выставляет база
func (s *CrudService[T, PT]) Create(ctx context.Context, item PT) (PT, error) {
	if err := validateStruct(s.validate, item); err != nil {
		return nil, err
	}

	item.ClearTimestamps()

	if item.GetID() == uuid.Nil {
		item.SetID(uuid.New())
	}

	if s.beforeSave != nil {
		if err := s.beforeSave(ctx, item); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, (*T)(item)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, s.resource)
		}
		return nil, s.internal("create", item.GetID(), err)
	}

	return item, nil
}

// Update перезаписывает сущность с id. Id в теле должен совпадать с id пути,
// пустой id в теле принимает значение из пути
func (s *CrudService[T, PT]) Update(ctx context.Context, id uuid.UUID, item PT) error {
	switch item.GetID() {
	case uuid.Nil:
		item.SetID(id)
	case id:
	default:
		return ErrIDMismatch
	}

	if err := validateStruct(s.validate, item); err != nil {
		return err
	}

	if s.beforeSave != nil {
		if err := s.beforeSave(ctx, item); err != nil {
			return err
		}
	}

	err := s.repo.Update(ctx, (*T)(item))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return s.resolveMissedUpdate(ctx, id)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, s.resource)
	default:
		return s.internal("update", id, err)
	}
}

// resolveMissedUpdate разбирает обновление, не затронувшее ни одной строки:
// строки нет - NotFound, строка есть - конфликт параллельного изменения
func (s *CrudService[T, PT]) resolveMissedUpdate(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return s.internal("exists", id, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s %s", ErrNotFound, s.resource, id)
	}

	logger.Error().
		Str("resource", s.resource).
		Str("id", id.String()).
		Msg("Update affected no rows while record exists")
	return fmt.Errorf("%w: %s %s", ErrConcurrencyConflict, s.resource, id)
}

func (s *CrudService[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s %s", ErrNotFound, s.resource, id)
		}
		return s.internal("delete", id, err)
	}
	return nil
}

func (s *CrudService[T, PT]) internal(op string, id uuid.UUID, err error) error {
	event := logger.Error().Err(err).Str("resource", s.resource).Str("operation", op)
	if id != uuid.Nil {
		event = event.Str("id", id.String())
	}
	event.Msg("Storage operation failed")
	return fmt.Errorf("%w: %s %s: %v", ErrInternal, op, s.resource, err)
}

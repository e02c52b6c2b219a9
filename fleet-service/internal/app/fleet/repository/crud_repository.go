package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/pkg/metrics"
)

const serviceName = "fleet-service"

type crudRepository[T any] struct {
	db    *gorm.DB
	table string
}

func newCrudRepository[T any](db *gorm.DB, table string) *crudRepository[T] {
	return &crudRepository[T]{db: db, table: table}
}

// NewVehicleRepository создает репозиторий мотоциклов
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return newCrudRepository[entity.Vehicle](db, entity.Vehicle{}.TableName())
}

// NewMaintenanceHistoryRepository создает репозиторий истории обслуживания
func NewMaintenanceHistoryRepository(db *gorm.DB) MaintenanceHistoryRepository {
	return newCrudRepository[entity.MaintenanceHistory](db, entity.MaintenanceHistory{}.TableName())
}

// Create вставляет запись
func (r *crudRepository[T]) Create(ctx context.Context, item *T) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, r.table)
	defer timer.ObserveDuration()

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create %s: %w", r.table, translateError(err))
	}
	return nil
}

// GetByID получает запись по ID
func (r *crudRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, r.table)
	defer timer.ObserveDuration()

	var item T
	result := r.db.WithContext(ctx).First(&item, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get %s: %w", r.table, result.Error)
	}

	return &item, nil
}

// List возвращает страницу записей, новые первыми
func (r *crudRepository[T]) List(ctx context.Context, offset, limit int) ([]T, error) {
	// gorm молча отбрасывает отрицательный OFFSET и отдаёт первую страницу
	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("failed to list %s: %w (offset=%d, limit=%d)", r.table, ErrBadRange, offset, limit)
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, r.table)
	defer timer.ObserveDuration()

	var items []T
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&items)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list %s: %w", r.table, result.Error)
	}

	return items, nil
}

// Count возвращает общее количество записей
func (r *crudRepository[T]) Count(ctx context.Context) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, r.table)
	defer timer.ObserveDuration()

	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return 0, fmt.Errorf("failed to count %s: %w", r.table, err)
	}
	return total, nil
}

// Update перезаписывает все поля записи, кроме id и created_at
func (r *crudRepository[T]) Update(ctx context.Context, item *T) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, r.table)
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Model(item).
		Select("*").
		Omit("id", "created_at").
		Updates(item)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update %s: %w", r.table, translateError(result.Error))
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет запись по ID
func (r *crudRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, r.table)
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete %s: %w", r.table, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Exists проверяет наличие записи
func (r *crudRepository[T]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, r.table)
	defer timer.ObserveDuration()

	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return false, fmt.Errorf("failed to check %s: %w", r.table, err)
	}
	return count > 0, nil
}

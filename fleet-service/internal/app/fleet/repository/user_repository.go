package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fleetcare/fleet-service/internal/app/fleet/entity"
	"fleetcare/pkg/metrics"
)

type userRepository struct {
	*crudRepository[entity.User]
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		crudRepository: newCrudRepository[entity.User](db, entity.User{}.TableName()),
	}
}

// GetByEmail получает пользователя по email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, r.table)
	defer timer.ObserveDuration()

	var user entity.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get user by email: %w", result.Error)
	}

	return &user, nil
}

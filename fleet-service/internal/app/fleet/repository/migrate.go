package repository

import (
	"fmt"

	"gorm.io/gorm"

	"fleetcare/fleet-service/internal/app/fleet/entity"
)

// AutoMigrate создаёт или обновляет таблицы сущностей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.Vehicle{},
		&entity.User{},
		&entity.MaintenanceHistory{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

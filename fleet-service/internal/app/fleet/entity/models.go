package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role - роль пользователя, закрытый набор значений
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

// Valid проверяет, что роль входит в допустимый набор
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient:
		return true
	}
	return false
}

// ParseRole приводит строку к Role, регистр не учитывается
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleClient:
		return RoleClient, true
	}
	return "", false
}

// VehicleModel - модель мотоцикла
type VehicleModel string

const (
	VehicleModelSport VehicleModel = "SPORT"
	VehicleModelPop   VehicleModel = "POP"
	VehicleModelE     VehicleModel = "E"
)

// Entity - набор возможностей, общий для всех ресурсов API
type Entity interface {
	GetID() uuid.UUID
	SetID(id uuid.UUID)
	SetLinks(links []LinkDto)
	// ClearTimestamps сбрасывает createdAt/updatedAt, пришедшие от клиента
	ClearTimestamps()
}

// EntityPtr ограничивает параметр типа указателем на сущность
type EntityPtr[T any] interface {
	*T
	Entity
}

// Identity - подтверждённая личность, результат проверки учётных данных
type Identity struct {
	Subject string
	Name    string
	Role    Role
	UserID  uuid.UUID
}

// Vehicle - мотоцикл парка
type Vehicle struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	LicensePlate string       `json:"licensePlate" gorm:"type:varchar(8);not null" validate:"required,max=8"`
	VehicleModel VehicleModel `json:"vehicleModel" gorm:"type:varchar(16);not null" validate:"required,oneof=SPORT POP E"`
	IsCancel     bool         `json:"isCancel" gorm:"not null"`
	UserCancelID *uuid.UUID   `json:"userCancelId,omitempty" gorm:"type:uuid"`
	CreatedAt    time.Time    `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`
	Links        []LinkDto    `json:"links,omitempty" gorm:"-"`
}

func (Vehicle) TableName() string { return "vehicles" }

func (v *Vehicle) GetID() uuid.UUID         { return v.ID }
func (v *Vehicle) SetID(id uuid.UUID)       { v.ID = id }
func (v *Vehicle) SetLinks(links []LinkDto) { v.Links = links }
func (v *Vehicle) ClearTimestamps()         { v.CreatedAt, v.UpdatedAt = time.Time{}, time.Time{} }

// User - пользователь системы. Password принимается только на вход,
// в базе хранится bcrypt-хеш, поэтому длина ограничена 72 символами
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex" validate:"required,email,max=255"`
	Password     string     `json:"password,omitempty" gorm:"-" validate:"required,min=8,max=72"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;type:varchar(255);not null"`
	Type         Role       `json:"type" gorm:"type:varchar(16);not null" validate:"required,oneof=ADMIN CLIENT"`
	IsCancel     bool       `json:"isCancel" gorm:"not null"`
	UserCancelID *uuid.UUID `json:"userCancelId,omitempty" gorm:"type:uuid"`
	CreatedAt    time.Time  `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
	Links        []LinkDto  `json:"links,omitempty" gorm:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) GetID() uuid.UUID         { return u.ID }
func (u *User) SetID(id uuid.UUID)       { u.ID = id }
func (u *User) SetLinks(links []LinkDto) { u.Links = links }
func (u *User) ClearTimestamps()         { u.CreatedAt, u.UpdatedAt = time.Time{}, time.Time{} }

// MaintenanceHistory - запись об обслуживании мотоцикла
type MaintenanceHistory struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	VehicleID       uuid.UUID `json:"vehicleId" gorm:"type:uuid;not null;index" validate:"required"`
	UserID          uuid.UUID `json:"userId" gorm:"type:uuid;not null;index" validate:"required"`
	MaintenanceDate time.Time `json:"maintenanceDate" gorm:"not null" validate:"required"`
	Description     string    `json:"description" gorm:"type:varchar(500);not null" validate:"required,max=500"`
	CreatedAt       time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
	Links           []LinkDto `json:"links,omitempty" gorm:"-"`
}

func (MaintenanceHistory) TableName() string { return "maintenance_histories" }

func (m *MaintenanceHistory) GetID() uuid.UUID         { return m.ID }
func (m *MaintenanceHistory) SetID(id uuid.UUID)       { m.ID = id }
func (m *MaintenanceHistory) SetLinks(links []LinkDto) { m.Links = links }
func (m *MaintenanceHistory) ClearTimestamps()         { m.CreatedAt, m.UpdatedAt = time.Time{}, time.Time{} }

package model

import (
	"time"

	"github.com/google/uuid"
)

// Role groups users via the role_user association table.
type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"not null"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Users       []User       `gorm:"many2many:role_user"`
	Permissions []Permission `gorm:"many2many:role_permission"`
}

type Permission struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `gorm:"not null"`
	Slug      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Roles []Role `gorm:"many2many:role_permission"`
}

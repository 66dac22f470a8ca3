package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles
const (
	RolAdministrador = "administrador"
	RolCliente       = "cliente"
)

// Usuario covers back-office admins and registered customers.
// Customer profile fields feed the order snapshot at checkout.
type Usuario struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email           string    `gorm:"uniqueIndex;not null"`
	Nombre          string    `gorm:"not null"`
	Apellido        string    `gorm:"not null;default:''"`
	Telefono        string    `gorm:"not null;default:''"`
	Direccion       string    `gorm:"not null;default:''"`
	TipoDocumento   string    `gorm:"type:varchar(10);not null;default:'DNI'"`
	NumeroDocumento string    `gorm:"not null;default:''"`
	PasswordHash    string    `gorm:"not null"`
	Rol             string    `gorm:"type:varchar(20);not null"`
	Activo          bool      `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

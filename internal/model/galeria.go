package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GaleriaImagen is one picture of the storefront gallery. Key is set when the
// file lives in the object store; URL holds an external link otherwise.
type GaleriaImagen struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	URL       string    `gorm:"not null;default:''"`
	Key       string    `gorm:"column:object_key;not null;default:''"`
	Alt       string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"index"`
}

func (GaleriaImagen) TableName() string { return "galeria_imagenes" }

func (g *GaleriaImagen) BeforeCreate(_ *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

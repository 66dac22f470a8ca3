package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a catalog item. When Variantes is non-empty the product can only
// be bought in one of its sizes; Precio is then only a fallback for display.
type Producto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre      string          `gorm:"index;not null"`
	Categoria   string          `gorm:"index;not null;default:''"`
	Descripcion string          `gorm:"type:text;not null;default:''"`
	Imagen      string          `gorm:"not null;default:''"` // URL or object-store key
	Precio      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Variantes []ProductoVariante `gorm:"foreignKey:ProductoID;constraint:OnDelete:CASCADE"`
}

func (Producto) TableName() string { return "productos" }

func (p *Producto) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductoVariante is one purchasable size of a product.
// Posicion keeps the order the admin entered them in.
type ProductoVariante struct {
	ID         uint            `gorm:"primaryKey"`
	ProductoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Talle      string          `gorm:"not null"`
	Precio     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Posicion   int             `gorm:"not null;default:0"`
}

func (ProductoVariante) TableName() string { return "producto_variantes" }

// TieneVariantes reports whether a size must be chosen before buying.
func (p *Producto) TieneVariantes() bool { return len(p.Variantes) > 0 }

// Variante returns the variant with the given size, if any.
func (p *Producto) Variante(talle string) (*ProductoVariante, bool) {
	for i := range p.Variantes {
		if p.Variantes[i].Talle == talle {
			return &p.Variantes[i], true
		}
	}
	return nil, false
}

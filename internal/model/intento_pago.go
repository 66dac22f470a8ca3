package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados of a card-payment attempt.
const (
	IntentoPendiente  = "pendiente"
	IntentoFinalizado = "finalizado"
	IntentoRechazado  = "rechazado"
	IntentoExpirado   = "expirado"
)

// IntentoPago records a MercadoPago preference issued for a cart. Referencia
// is the order id reserved for it; the order only exists once the buyer comes
// back with a successful status and the matching Token.
type IntentoPago struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Referencia string          `gorm:"type:varchar(32);uniqueIndex;not null"`
	Token      string          `gorm:"type:varchar(64);not null"`
	CarritoID  string          `gorm:"type:varchar(64);index;not null"`
	Borrador   string          `gorm:"type:text;not null"` // JSON snapshot of the order draft
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	InitPoint  string          `gorm:"type:text;not null;default:''"`
	Estado     string          `gorm:"type:varchar(20);not null;index"`
	PedidoID   *string         `gorm:"type:varchar(32)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (IntentoPago) TableName() string { return "intentos_pago" }

func (i *IntentoPago) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

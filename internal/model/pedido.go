package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metodos de pago accepted at checkout.
const (
	MetodoMercadoPago   = "mercadopago"
	MetodoTransferencia = "transferencia"
	MetodoMayorista     = "mayorista"
)

// Pedido is a placed order. Items and customer data are snapshots taken at
// checkout; Total is stored and never recomputed from Items.
type Pedido struct {
	ID                string          `gorm:"type:varchar(32);primaryKey"`
	ClienteNombre     string          `gorm:"not null"`
	ClienteApellido   string          `gorm:"not null;default:''"`
	ClienteEmail      string          `gorm:"not null"`
	ClienteTelefono   string          `gorm:"not null;default:''"`
	ClienteDireccion  string          `gorm:"not null;default:''"`
	ClienteDNI        string          `gorm:"column:cliente_dni;not null;default:''"`
	Fecha             time.Time       `gorm:"not null;index"`
	Total             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado            string          `gorm:"type:varchar(50);not null;index"`
	NumeroSeguimiento string          `gorm:"not null;default:''"`
	MetodoPago        string          `gorm:"type:varchar(20);not null;default:''"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Items []PedidoItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

func (Pedido) TableName() string { return "pedidos" }

// PedidoItem is one line of the order snapshot.
type PedidoItem struct {
	ID             uint            `gorm:"primaryKey"`
	PedidoID       string          `gorm:"type:varchar(32);index;not null"`
	NombreProducto string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	Precio         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Posicion       int             `gorm:"not null;default:0"`
}

func (PedidoItem) TableName() string { return "pedido_items" }

// PedidoEstadoHistorial is an append-only record of status changes.
type PedidoEstadoHistorial struct {
	ID        uint   `gorm:"primaryKey"`
	PedidoID  string `gorm:"type:varchar(32);index;not null"`
	Estado    string `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time
}

func (PedidoEstadoHistorial) TableName() string { return "pedido_estado_historial" }

// Secuencia backs monotonic counters such as the order number.
type Secuencia struct {
	Nombre string `gorm:"type:varchar(50);primaryKey"`
	Valor  int64  `gorm:"not null;default:0"`
}

func (Secuencia) TableName() string { return "secuencias" }

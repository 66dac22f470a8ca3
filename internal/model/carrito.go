package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Carrito is the shopper's ephemeral cart. It lives in Redis with a TTL and is
// never written to Postgres.
type Carrito struct {
	ID          string        `json:"id"`
	Items       []CarritoItem `json:"items"`
	Actualizado time.Time     `json:"actualizado"`
}

// CarritoItem carries the unit price resolved when the line was added.
type CarritoItem struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Talle          string          `json:"talle,omitempty"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       int             `json:"cantidad"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ActualizarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,max=50"`
}

// ActualizarSeguimientoRequest accepts an empty value to clear the number.
type ActualizarSeguimientoRequest struct {
	NumeroSeguimiento string `json:"tracking_number" validate:"max=100"`
}

// PedidoFilter narrows the back-office order list. Q matches the order id,
// the customer's name, surname or email, or the document number.
type PedidoFilter struct {
	Estado string `form:"estado"`
	Email  string `form:"email"`
	Q      string `form:"q"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteDTO struct {
	Nombre    string `json:"name"`
	Apellido  string `json:"last_name"`
	Email     string `json:"email"`
	Telefono  string `json:"phone"`
	Direccion string `json:"address"`
	DNI       string `json:"dni"`
}

type PedidoItemResponse struct {
	NombreProducto string          `json:"product_name"`
	Cantidad       int             `json:"quantity"`
	Precio         decimal.Decimal `json:"price"`
}

type PedidoResponse struct {
	ID                string               `json:"id"`
	Cliente           ClienteDTO           `json:"customer"`
	Fecha             time.Time            `json:"date"`
	Items             []PedidoItemResponse `json:"items"`
	Total             decimal.Decimal      `json:"total"`
	Estado            string               `json:"status"`
	EstadoLabel       string               `json:"status_label,omitempty"`
	NumeroSeguimiento string               `json:"tracking_number"`
	MetodoPago        string               `json:"payment_method"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type HistorialEstadoResponse struct {
	Estado string    `json:"status"`
	Fecha  time.Time `json:"date"`
}

type PasoTimelineResponse struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Color      string `json:"color"`
	Completado bool   `json:"completed"`
	Activo     bool   `json:"current"`
}

type SeguimientoResponse struct {
	Pedido   PedidoResponse         `json:"order"`
	Timeline []PasoTimelineResponse `json:"timeline"`
}

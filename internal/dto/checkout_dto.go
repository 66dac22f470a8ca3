package dto

import "github.com/shopspring/decimal"

// ─── Carrito ─────────────────────────────────────────────────────────────────

type AgregarItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Talle      string `json:"talle"       validate:"max=50"`
	Cantidad   int    `json:"cantidad"    validate:"omitempty,min=1,max=999"`
}

type ActualizarCantidadRequest struct {
	Cantidad int `json:"cantidad" validate:"required,min=1,max=999"`
}

type CarritoItemResponse struct {
	ProductoID     string          `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	Talle          string          `json:"talle,omitempty"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       int             `json:"cantidad"`
}

type CarritoResponse struct {
	ID       string                `json:"id"`
	Items    []CarritoItemResponse `json:"items"`
	Subtotal decimal.Decimal       `json:"subtotal"`
}

// ─── Checkout ────────────────────────────────────────────────────────────────

// DatosClienteRequest is optional for guests; missing fields fall back to
// placeholder values. Authenticated customers use their profile instead.
type DatosClienteRequest struct {
	Nombre    string `json:"name"      validate:"max=100"`
	Apellido  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email"     validate:"omitempty,email"`
	Telefono  string `json:"phone"     validate:"max=50"`
	Direccion string `json:"address"   validate:"max=300"`
	DNI       string `json:"dni"       validate:"max=20"`
}

type DatosBancarios struct {
	Banco   string `json:"bank_name"`
	Titular string `json:"bank_holder"`
	CBU     string `json:"bank_cbu"`
	Alias   string `json:"bank_alias"`
}

type CotizacionResponse struct {
	Metodo         string          `json:"metodo"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DescuentoPct   int             `json:"descuento_pct"`
	Descuento      decimal.Decimal `json:"descuento"`
	Total          decimal.Decimal `json:"total"`
	DatosBancarios *DatosBancarios `json:"datos_bancarios,omitempty"`
}

type PagoTarjetaResponse struct {
	Referencia string `json:"order_id"`
	InitPoint  string `json:"init_point"`
}

// RetornoPagoResponse describes the outcome of the buyer coming back from
// the payment provider.
type RetornoPagoResponse struct {
	Estado string          `json:"status"` // success | failure | pending
	Pedido *PedidoResponse `json:"order,omitempty"`
}

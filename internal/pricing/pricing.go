// Package pricing holds the pure price and discount rules of the store.
// Nothing here touches storage or mutates its inputs.
package pricing

import (
	"errors"

	"github.com/arielalcuri/doslidias/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrVarianteRequerida   = errors.New("Seleccioná un talle antes de agregar el producto")
	ErrVarianteInexistente = errors.New("El talle seleccionado no existe")
)

var cien = decimal.NewFromInt(100)

// UnitPrice returns the price to display for p. A selected variant wins; a
// product with variants and no selection shows its cheapest variant; a
// product without variants shows its base price.
func UnitPrice(p model.Producto, v *model.ProductoVariante) decimal.Decimal {
	if v != nil {
		return v.Precio
	}
	if len(p.Variantes) == 0 {
		return p.Precio
	}
	menor := p.Variantes[0].Precio
	for _, pv := range p.Variantes[1:] {
		if pv.Precio.LessThan(menor) {
			menor = pv.Precio
		}
	}
	return menor
}

// ResolvePrice is the price used when a line is actually added to a cart.
// Unlike UnitPrice it never falls back to the cheapest variant.
func ResolvePrice(p model.Producto, talle string) (decimal.Decimal, error) {
	if !p.TieneVariantes() {
		return p.Precio, nil
	}
	if talle == "" {
		return decimal.Zero, ErrVarianteRequerida
	}
	v, ok := p.Variante(talle)
	if !ok {
		return decimal.Zero, ErrVarianteInexistente
	}
	return UnitPrice(p, v), nil
}

// DiscountPct is the percentage applied for metodo, clamped to [0,100].
func DiscountPct(metodo string, cfg model.Configuracion) int {
	var pct int
	switch metodo {
	case model.MetodoMercadoPago:
		pct = cfg.DescuentoMercadoPago
	case model.MetodoTransferencia:
		pct = cfg.DescuentoTransferencia
	}
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ApplyDiscount returns total*(1-pct/100) rounded half-up to centavos. A 0%
// discount returns total as is.
func ApplyDiscount(total decimal.Decimal, metodo string, cfg model.Configuracion) decimal.Decimal {
	return discount(total, DiscountPct(metodo, cfg))
}

// DiscountedUnitPrice applies the same rule to a single unit price; it is
// what the payment provider receives per line.
func DiscountedUnitPrice(precio decimal.Decimal, metodo string, cfg model.Configuracion) decimal.Decimal {
	return discount(precio, DiscountPct(metodo, cfg))
}

// discount leaves the amount untouched at 0%.
func discount(amount decimal.Decimal, pct int) decimal.Decimal {
	if pct == 0 {
		return amount
	}
	factor := cien.Sub(decimal.NewFromInt(int64(pct))).Div(cien)
	return amount.Mul(factor).Round(2)
}

// Subtotal sums price*quantity over cart lines.
func Subtotal(items []model.CarritoItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}
	return total
}

// Quote is the breakdown shown before the buyer confirms a payment method.
type Quote struct {
	Subtotal     decimal.Decimal
	DescuentoPct int
	Descuento    decimal.Decimal
	Total        decimal.Decimal
}

// Cotizar prices a cart for the given payment method.
func Cotizar(items []model.CarritoItem, metodo string, cfg model.Configuracion) Quote {
	sub := Subtotal(items)
	total := ApplyDiscount(sub, metodo, cfg)
	return Quote{
		Subtotal:     sub,
		DescuentoPct: DiscountPct(metodo, cfg),
		Descuento:    sub.Sub(total),
		Total:        total,
	}
}

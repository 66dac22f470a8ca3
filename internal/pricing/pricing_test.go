package pricing

import (
	"testing"

	"github.com/arielalcuri/doslidias/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func taza() model.Producto {
	return model.Producto{
		Nombre: "Taza",
		Precio: dec("3000"),
		Variantes: []model.ProductoVariante{
			{Talle: "Grande", Precio: dec("5200")},
			{Talle: "Chica", Precio: dec("4500")},
		},
	}
}

func TestUnitPrice_SelectedVariantWins(t *testing.T) {
	p := taza()
	v, ok := p.Variante("Grande")
	require.True(t, ok)
	assert.True(t, UnitPrice(p, v).Equal(dec("5200")))
}

func TestUnitPrice_NoSelectionShowsCheapestVariant(t *testing.T) {
	assert.True(t, UnitPrice(taza(), nil).Equal(dec("4500")))
}

func TestUnitPrice_NoVariantsUsesBasePrice(t *testing.T) {
	p := model.Producto{Precio: dec("1800")}
	assert.True(t, UnitPrice(p, nil).Equal(dec("1800")))
}

func TestResolvePrice(t *testing.T) {
	p := taza()

	_, err := ResolvePrice(p, "")
	assert.ErrorIs(t, err, ErrVarianteRequerida)

	_, err = ResolvePrice(p, "XL")
	assert.ErrorIs(t, err, ErrVarianteInexistente)

	price, err := ResolvePrice(p, "Chica")
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("4500")))

	simple := model.Producto{Precio: dec("990")}
	price, err = ResolvePrice(simple, "ignorado")
	require.NoError(t, err)
	assert.True(t, price.Equal(dec("990")))
}

func TestApplyDiscount(t *testing.T) {
	cfg := model.Configuracion{DescuentoTransferencia: 10, DescuentoMercadoPago: 5}

	tests := []struct {
		name   string
		total  string
		metodo string
		want   string
	}{
		{"transferencia", "9000", model.MetodoTransferencia, "8100"},
		{"mercadopago", "9000", model.MetodoMercadoPago, "8550"},
		{"mayorista sin descuento", "9000", model.MetodoMayorista, "9000"},
		{"metodo desconocido", "9000", "efectivo", "9000"},
		{"redondeo a centavos", "33.33", model.MetodoTransferencia, "30"},
		{"redondeo hacia arriba", "10.05", model.MetodoMercadoPago, "9.55"},
		{"sin descuento no redondea", "12.345", model.MetodoMayorista, "12.345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDiscount(dec(tt.total), tt.metodo, cfg)
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestApplyDiscount_ZeroAndFullPercent(t *testing.T) {
	total := dec("1234.56")

	zero := model.Configuracion{DescuentoTransferencia: 0}
	assert.True(t, ApplyDiscount(total, model.MetodoTransferencia, zero).Equal(total))

	full := model.Configuracion{DescuentoTransferencia: 100}
	assert.True(t, ApplyDiscount(total, model.MetodoTransferencia, full).IsZero())

	out := model.Configuracion{DescuentoTransferencia: 150}
	assert.True(t, ApplyDiscount(total, model.MetodoTransferencia, out).IsZero())
}

func TestApplyDiscount_DoesNotMutateInputs(t *testing.T) {
	cfg := model.Configuracion{DescuentoTransferencia: 10}
	total := dec("500")
	_ = ApplyDiscount(total, model.MetodoTransferencia, cfg)
	assert.True(t, total.Equal(dec("500")))
	assert.Equal(t, 10, cfg.DescuentoTransferencia)
}

func TestCotizar(t *testing.T) {
	items := []model.CarritoItem{
		{Nombre: "Taza - Chica", PrecioUnitario: dec("4500"), Cantidad: 2},
	}
	cfg := model.Configuracion{DescuentoTransferencia: 10}

	q := Cotizar(items, model.MetodoTransferencia, cfg)
	assert.True(t, q.Subtotal.Equal(dec("9000")))
	assert.Equal(t, 10, q.DescuentoPct)
	assert.True(t, q.Descuento.Equal(dec("900")))
	assert.True(t, q.Total.Equal(dec("8100")))
}

package service_test

import (
	"context"
	"testing"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/pricing"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type carritoFixture struct {
	svc   service.CarritoService
	repo  *stubCarritoRepo
	taza  model.Producto
	plato model.Producto
}

func newCarritoFixture(t *testing.T, cfg model.Configuracion) *carritoFixture {
	t.Helper()
	f := &carritoFixture{repo: newStubCarritoRepo(), taza: tazaConTalles(), plato: plato()}
	catalogo, _ := newCatalogo(t, nil, f.taza, f.plato)
	f.svc = service.NewCarritoService(f.repo, catalogo, newConfigService(cfg))
	return f
}

func TestCarritoNuevo(t *testing.T) {
	f := newCarritoFixture(t, model.ConfiguracionPorDefecto())

	c, err := f.svc.Nuevo(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Empty(t, c.Items)
	assert.True(t, c.Subtotal.IsZero())

	got, err := f.svc.Obtener(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestCarritoObtener_Unknown(t *testing.T) {
	f := newCarritoFixture(t, model.ConfiguracionPorDefecto())

	_, err := f.svc.Obtener(context.Background(), "no-existe")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCarritoAgregar_ResolvesVariantPrice(t *testing.T) {
	f := newCarritoFixture(t, model.ConfiguracionPorDefecto())
	c, _ := f.svc.Nuevo(context.Background())

	resp, err := f.svc.Agregar(context.Background(), c.ID, dto.AgregarItemRequest{
		ProductoID: f.taza.ID.String(), Talle: "Grande", Cantidad: 2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Taza - Grande", resp.Items[0].Nombre)
	assert.True(t, resp.Items[0].PrecioUnitario.Equal(dec("5200")))
	assert.True(t, resp.Subtotal.Equal(dec("10400")))
}

func TestCarritoAgregar_MergesSameLine(t *testing.T) {
	f := newCarritoFixture(t, model.ConfiguracionPorDefecto())
	c, _ := f.svc.Nuevo(context.Background())

	req := dto.AgregarItemRequest{ProductoID: f.taza.ID.String(), Talle: "Chica", Cantidad: 1}
	_, err := f.svc.Agregar(context.Background(), c.ID, req)
	require.NoError(t, err)
	resp, err := f.svc.Agregar(context.Background(), c.ID, req)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Cantidad)

	// A different size is its own line.
	req.Talle = "Grande"
	resp, err = f.svc.Agregar(context.Background(), c.ID, req)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
}

func TestCarritoAgregar_DefaultsQuantityToOne(t *testing.T) {
	f := newCarritoFixture(t, model.ConfiguracionPorDefecto())
	c, _ := f.svc.Nuevo(context.Background())

	resp, err := f.svc.Agregar(context.Background(), c.ID, dto.AgregarItemRequest{ProductoID: f.plato.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Items[0].Cantidad)
	assert.Empty(t, resp.Items[0].Talle)
}

func TestCarritoAgregar_NegativeQuantityRejected(t *testing.T) {
	f := newCarritoFixture(t, model.ConfiguracionPorDefecto())
	c, _ := f.svc.Nuevo(context.Background())

	_, err := f.svc.Agregar(context.Background(), c.ID, dto.AgregarItemRequest{ProductoID: f.plato.ID.String(), Cantidad: -2})
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	got, _ := f.svc.Obtener(context.Background(), c.ID)
	assert.Empty(t, got.Items)
}

func TestCarritoAgregar_SizeRequired(t *testing.T) {
	f := newCarritoFixture(t, model.ConfiguracionPorDefecto())
	c, _ := f.svc.Nuevo(context.Background())

	_, err := f.svc.Agregar(context.Background(), c.ID, dto.AgregarItemRequest{ProductoID: f.taza.ID.String()})
	assert.ErrorIs(t, err, pricing.ErrVarianteRequerida)
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	_, err = f.svc.Agregar(context.Background(), c.ID, dto.AgregarItemRequest{ProductoID: f.taza.ID.String(), Talle: "XL"})
	assert.ErrorIs(t, err, pricing.ErrVarianteInexistente)

	got, _ := f.svc.Obtener(context.Background(), c.ID)
	assert.Empty(t, got.Items)
}

func TestCarritoAgregar_VacationModeRejects(t *testing.T) {
	cfg := model.ConfiguracionPorDefecto()
	cfg.ModoVacaciones = true
	f := newCarritoFixture(t, cfg)
	c, _ := f.svc.Nuevo(context.Background())

	_, err := f.svc.Agregar(context.Background(), c.ID, dto.AgregarItemRequest{ProductoID: f.plato.ID.String()})
	assert.ErrorIs(t, err, service.ErrModoVacaciones)
}

func TestCarritoAgregar_UnknownProduct(t *testing.T) {
	f := newCarritoFixture(t, model.ConfiguracionPorDefecto())
	c, _ := f.svc.Nuevo(context.Background())

	_, err := f.svc.Agregar(context.Background(), c.ID, dto.AgregarItemRequest{ProductoID: "not-a-uuid"})
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	_, err = f.svc.Agregar(context.Background(), c.ID, dto.AgregarItemRequest{ProductoID: "8b0f8f7e-5c1a-4a57-9d7e-1f3c9b1a2b3c"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCarritoActualizarCantidadYQuitar(t *testing.T) {
	f := newCarritoFixture(t, model.ConfiguracionPorDefecto())
	c, _ := f.svc.Nuevo(context.Background())
	_, err := f.svc.Agregar(context.Background(), c.ID, dto.AgregarItemRequest{ProductoID: f.plato.ID.String()})
	require.NoError(t, err)
	_, err = f.svc.Agregar(context.Background(), c.ID, dto.AgregarItemRequest{ProductoID: f.taza.ID.String(), Talle: "Chica"})
	require.NoError(t, err)

	resp, err := f.svc.ActualizarCantidad(context.Background(), c.ID, 0, 3)
	require.NoError(t, err)
	assert.True(t, resp.Subtotal.Equal(dec("13500")))

	_, err = f.svc.ActualizarCantidad(context.Background(), c.ID, 5, 1)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.svc.ActualizarCantidad(context.Background(), c.ID, 0, 0)
	assert.Equal(t, service.KindValidation, service.KindOf(err))

	resp, err = f.svc.Quitar(context.Background(), c.ID, 0)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Taza - Chica", resp.Items[0].Nombre)

	require.NoError(t, f.svc.Vaciar(context.Background(), c.ID))
	_, err = f.svc.Obtener(context.Background(), c.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

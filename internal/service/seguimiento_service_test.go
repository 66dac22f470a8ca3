package service_test

import (
	"context"
	"testing"

	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pasos(t *testing.T, actual string) (completados, activos []string) {
	t.Helper()
	for _, p := range service.Timeline(actual, model.ConfiguracionPorDefecto().EstadosEnvio) {
		if p.Completado {
			completados = append(completados, p.ID)
		}
		if p.Activo {
			activos = append(activos, p.ID)
		}
	}
	return completados, activos
}

func TestTimeline_ExcludesCancelado(t *testing.T) {
	tl := service.Timeline("pendiente", model.ConfiguracionPorDefecto().EstadosEnvio)
	require.Len(t, tl, 4)
	for _, p := range tl {
		assert.NotEqual(t, model.EstadoCancelado, p.ID)
	}
}

func TestTimeline_Positional(t *testing.T) {
	completados, activos := pasos(t, "en_camino")
	assert.Equal(t, []string{"pendiente", "embalado", "en_camino"}, completados)
	assert.Equal(t, []string{"en_camino"}, activos)

	completados, _ = pasos(t, "entregado")
	assert.Len(t, completados, 4)
}

func TestTimeline_UnknownStatusCompletesNothing(t *testing.T) {
	completados, activos := pasos(t, "retiro_en_taller")
	assert.Empty(t, completados)
	assert.Empty(t, activos)

	completados, _ = pasos(t, model.EstadoCancelado)
	assert.Empty(t, completados)
}

func TestSeguimientoBuscar(t *testing.T) {
	pedidos := service.NewPedidoService(newStubPedidoRepo(), nil)
	p, err := pedidos.Crear(context.Background(), borradorDePrueba())
	require.NoError(t, err)
	_, err = pedidos.ActualizarEstado(context.Background(), p.ID, "embalado")
	require.NoError(t, err)
	_, err = pedidos.ActualizarSeguimiento(context.Background(), p.ID, "AR999")
	require.NoError(t, err)

	svc := service.NewSeguimientoService(pedidos, newConfigService(model.ConfiguracionPorDefecto()))
	resp, err := svc.Buscar(context.Background(), "ord-1000")
	require.NoError(t, err)
	assert.Equal(t, p.ID, resp.Pedido.ID)
	assert.Equal(t, "Pedido Embalado", resp.Pedido.EstadoLabel)
	assert.Equal(t, "AR999", resp.Pedido.NumeroSeguimiento)
	require.Len(t, resp.Timeline, 4)
	assert.True(t, resp.Timeline[1].Activo)

	_, err = svc.Buscar(context.Background(), "ORD-5")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSeguimientoBuscar_TimelineFollowsCurrentStatusAfterRollback(t *testing.T) {
	pedidos := service.NewPedidoService(newStubPedidoRepo(), nil)
	p, err := pedidos.Crear(context.Background(), borradorDePrueba())
	require.NoError(t, err)
	for _, estado := range []string{"en_camino", "entregado", "embalado"} {
		_, err = pedidos.ActualizarEstado(context.Background(), p.ID, estado)
		require.NoError(t, err)
	}

	svc := service.NewSeguimientoService(pedidos, newConfigService(model.ConfiguracionPorDefecto()))
	resp, err := svc.Buscar(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "embalado", resp.Pedido.Estado)

	var completados, activos []string
	for _, paso := range resp.Timeline {
		if paso.Completado {
			completados = append(completados, paso.ID)
		}
		if paso.Activo {
			activos = append(activos, paso.ID)
		}
	}
	// Earlier visits to later steps leave no trace.
	assert.Equal(t, []string{"pendiente", "embalado"}, completados)
	assert.Equal(t, []string{"embalado"}, activos)
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arielalcuri/doslidias/internal/apierror"
	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/middleware"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/repository"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── respondError ──────────────────────────────────────────────────────────────

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", service.ErrCarritoVacio, http.StatusUnprocessableEntity},
		{"not found", &service.Error{Kind: service.KindNotFound, Msg: "Pedido ORD-1 no encontrado"}, http.StatusNotFound},
		{"conflict", service.ErrCheckoutEnCurso, http.StatusConflict},
		{"unauthorized", &service.Error{Kind: service.KindUnauthorized, Msg: "credenciales invalidas"}, http.StatusUnauthorized},
		{"external", &service.Error{Kind: service.KindExternalService, Msg: "MP caído"}, http.StatusBadGateway},
		{"storage", &service.Error{Kind: service.KindStorage, Msg: "db", Err: errors.New("pq: password authentication failed")}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestRespondError_LoginRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	respondError(c, service.ErrAutenticacionRequerida)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/auth", body.Redirect)
}

// ── Checkout ──────────────────────────────────────────────────────────────────

type fakeCheckout struct {
	comprador service.Comprador
	retorno   service.RetornoPago
	err       error
}

var _ service.CheckoutService = (*fakeCheckout)(nil)

func (f *fakeCheckout) Cotizar(_ context.Context, _, metodo string) (*dto.CotizacionResponse, error) {
	return &dto.CotizacionResponse{Metodo: metodo}, f.err
}

func (f *fakeCheckout) ConfirmarTransferencia(_ context.Context, carritoID string, c service.Comprador) (*dto.PedidoResponse, error) {
	f.comprador = c
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PedidoResponse{ID: "ORD-1000", MetodoPago: model.MetodoTransferencia}, nil
}

func (f *fakeCheckout) ConfirmarMayorista(_ context.Context, _ string, c service.Comprador) (*dto.PedidoResponse, error) {
	f.comprador = c
	if c.UsuarioID == nil {
		return nil, service.ErrAutenticacionRequerida
	}
	return &dto.PedidoResponse{ID: "ORD-1001", MetodoPago: model.MetodoMayorista}, nil
}

func (f *fakeCheckout) IniciarPagoTarjeta(_ context.Context, _ string, c service.Comprador) (*dto.PagoTarjetaResponse, error) {
	f.comprador = c
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PagoTarjetaResponse{Referencia: "ORD-1002", InitPoint: "https://mp.test/x"}, nil
}

func (f *fakeCheckout) FinalizarPagoTarjeta(_ context.Context, r service.RetornoPago) (*dto.RetornoPagoResponse, error) {
	f.retorno = r
	return &dto.RetornoPagoResponse{Estado: service.RetornoPending}, f.err
}

func (f *fakeCheckout) Cancelar(context.Context, string) error { return f.err }

func (f *fakeCheckout) ExpirarIntentos(context.Context) (int64, error) { return 0, nil }

func checkoutRouter(f *fakeCheckout, usuario *uuid.UUID) *gin.Engine {
	h := NewCheckoutHandler(f)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if usuario != nil {
			c.Set(middleware.ClaimsKey, &middleware.JWTClaims{UserID: usuario.String(), Rol: model.RolCliente})
		}
		c.Next()
	})
	r.GET("/checkout/retorno", h.Retorno)
	r.GET("/checkout/:carrito/cotizacion", h.Cotizar)
	r.POST("/checkout/:carrito/transferencia", h.Transferencia)
	r.POST("/checkout/:carrito/mayorista", h.Mayorista)
	r.POST("/checkout/:carrito/mercadopago", h.MercadoPago)
	r.DELETE("/checkout/:carrito", h.Cancelar)
	return r
}

func TestCheckoutTransferencia_GuestWithoutBody(t *testing.T) {
	f := &fakeCheckout{}
	w := do(checkoutRouter(f, nil), http.MethodPost, "/checkout/c-1/transferencia", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, f.comprador.UsuarioID)
}

func TestCheckoutTransferencia_InvalidEmail(t *testing.T) {
	f := &fakeCheckout{}
	w := do(checkoutRouter(f, nil), http.MethodPost, "/checkout/c-1/transferencia",
		dto.DatosClienteRequest{Nombre: "Ana", Email: "no-es-un-email"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckoutTransferencia_VacationMode(t *testing.T) {
	f := &fakeCheckout{err: service.ErrModoVacaciones}
	w := do(checkoutRouter(f, nil), http.MethodPost, "/checkout/c-1/transferencia", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "vacaciones")
}

func TestCheckoutMayorista_GuestGetsRedirect(t *testing.T) {
	w := do(checkoutRouter(&fakeCheckout{}, nil), http.MethodPost, "/checkout/c-1/mayorista", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/auth"`)
}

func TestCheckoutMayorista_SignedIn(t *testing.T) {
	id := uuid.New()
	f := &fakeCheckout{}
	w := do(checkoutRouter(f, &id), http.MethodPost, "/checkout/c-1/mayorista", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, f.comprador.UsuarioID)
	assert.Equal(t, id, *f.comprador.UsuarioID)
}

func TestCheckoutMercadoPago_GatewayDown(t *testing.T) {
	f := &fakeCheckout{err: &service.Error{Kind: service.KindExternalService, Msg: "No se pudo iniciar el pago con MercadoPago"}}
	w := do(checkoutRouter(f, nil), http.MethodPost, "/checkout/c-1/mercadopago", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCheckoutRetorno_ReadsProviderParams(t *testing.T) {
	f := &fakeCheckout{}
	r := checkoutRouter(f, nil)

	w := do(r, http.MethodGet, "/checkout/retorno?status=success&orderId=ORD-1002&token=abc", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.RetornoPago{Status: "success", Referencia: "ORD-1002", Token: "abc"}, f.retorno)

	do(r, http.MethodGet, "/checkout/retorno?collection_status=approved&external_reference=ORD-7&token=t", nil)
	assert.Equal(t, service.RetornoPago{Status: "approved", Referencia: "ORD-7", Token: "t"}, f.retorno)
}

func TestCheckoutCotizar_RequiresMetodo(t *testing.T) {
	r := checkoutRouter(&fakeCheckout{}, nil)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/checkout/c-1/cotizacion", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/checkout/c-1/cotizacion?metodo=transferencia", nil).Code)
}

func TestCheckoutCancelar(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, do(checkoutRouter(&fakeCheckout{}, nil), http.MethodDelete, "/checkout/c-1", nil).Code)
}

// ── Pedidos (back office) ────────────────────────────────────────────────────

type fakePedidos struct {
	pedido  model.Pedido
	estados []string
}

var _ service.PedidoService = (*fakePedidos)(nil)

func (f *fakePedidos) Crear(context.Context, service.BorradorPedido) (*model.Pedido, error) {
	return nil, errors.New("not used")
}
func (f *fakePedidos) ReservarID(context.Context) (string, error) { return "", errors.New("not used") }
func (f *fakePedidos) CrearConID(context.Context, string, service.BorradorPedido) (*model.Pedido, error) {
	return nil, errors.New("not used")
}

func (f *fakePedidos) BuscarPorID(_ context.Context, id string) (*model.Pedido, error) {
	if id != f.pedido.ID {
		return nil, &service.Error{Kind: service.KindNotFound, Msg: "Pedido no encontrado"}
	}
	p := f.pedido
	return &p, nil
}

func (f *fakePedidos) Listar(context.Context, dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	return &dto.PedidoListResponse{Data: []dto.PedidoResponse{service.PedidoToResponse(&f.pedido)}, Total: 1, Page: 1, Limit: 50}, nil
}

func (f *fakePedidos) ActualizarEstado(ctx context.Context, id, estado string) (*model.Pedido, error) {
	p, err := f.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.estados = append(f.estados, estado)
	p.Estado = estado
	return p, nil
}

func (f *fakePedidos) ActualizarSeguimiento(ctx context.Context, id, numero string) (*model.Pedido, error) {
	p, err := f.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.NumeroSeguimiento = numero
	return p, nil
}

func (f *fakePedidos) Eliminar(ctx context.Context, id string) error {
	_, err := f.BuscarPorID(ctx, id)
	return err
}

func (f *fakePedidos) Historial(context.Context, string) ([]dto.HistorialEstadoResponse, error) {
	return []dto.HistorialEstadoResponse{{Estado: "pendiente", Fecha: time.Now()}}, nil
}

type memConfiguracionRepo struct{ cfg model.Configuracion }

var _ repository.ConfiguracionRepository = (*memConfiguracionRepo)(nil)

func (r *memConfiguracionRepo) Get(context.Context) (*model.Configuracion, error) {
	c := r.cfg.Clone()
	return &c, nil
}

func (r *memConfiguracionRepo) Save(_ context.Context, cfg *model.Configuracion) error {
	r.cfg = cfg.Clone()
	return nil
}

func pedidosRouter(t *testing.T) (*gin.Engine, *fakePedidos) {
	t.Helper()
	config := service.NewConfiguracionService(&memConfiguracionRepo{cfg: model.ConfiguracionPorDefecto()})
	require.NoError(t, config.Cargar(context.Background()))

	f := &fakePedidos{pedido: model.Pedido{
		ID: "ORD-1000", ClienteNombre: "Ana", ClienteEmail: "ana@example.com",
		Total: decimal.NewFromInt(12060), Estado: "retiro_en_taller", Fecha: time.Now(),
	}}
	h := NewPedidosHandler(f, config)
	r := gin.New()
	r.GET("/pedidos", h.Listar)
	r.GET("/pedidos/:id", h.Obtener)
	r.PATCH("/pedidos/:id/estado", h.ActualizarEstado)
	r.PATCH("/pedidos/:id/seguimiento", h.ActualizarSeguimiento)
	r.DELETE("/pedidos/:id", h.Eliminar)
	r.GET("/pedidos/:id/historial", h.Historial)
	return r, f
}

func TestPedidosActualizarEstado_OnlyConfiguredStatuses(t *testing.T) {
	r, f := pedidosRouter(t)

	w := do(r, http.MethodPatch, "/pedidos/ORD-1000/estado", dto.ActualizarEstadoRequest{Estado: "perdido"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, f.estados)

	w = do(r, http.MethodPatch, "/pedidos/ORD-1000/estado", dto.ActualizarEstadoRequest{Estado: "en_camino"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.PedidoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "en_camino", resp.Estado)
	assert.Equal(t, "En viaje (En camino)", resp.EstadoLabel)

	w = do(r, http.MethodPatch, "/pedidos/ORD-9/estado", dto.ActualizarEstadoRequest{Estado: "en_camino"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPatch, "/pedidos/ORD-1000/estado", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPedidosListar_LabelsCustomStatus(t *testing.T) {
	r, _ := pedidosRouter(t)

	w := do(r, http.MethodGet, "/pedidos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.PedidoListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "retiro en_taller", resp.Data[0].EstadoLabel)
}

func TestPedidosSeguimientoYEliminar(t *testing.T) {
	r, _ := pedidosRouter(t)

	w := do(r, http.MethodPatch, "/pedidos/ORD-1000/seguimiento", dto.ActualizarSeguimientoRequest{NumeroSeguimiento: "AR1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tracking_number":"AR1"`)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/pedidos/ORD-1000", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/pedidos/ORD-2", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/pedidos/ORD-1000/historial", nil).Code)
}

// ── Configuracion ─────────────────────────────────────────────────────────────

func TestConfiguracion_PublicViewOmitsBankDetails(t *testing.T) {
	cfg := model.ConfiguracionPorDefecto()
	cfg.BancoCBU = "0110599520000001234567"
	cfg.BancoAlias = "dos.lidias.taller"
	cfg.TituloHero = "Cerámica hecha a mano"
	svc := service.NewConfiguracionService(&memConfiguracionRepo{cfg: cfg})
	require.NoError(t, svc.Cargar(context.Background()))

	h := NewConfiguracionHandler(svc)
	r := gin.New()
	r.GET("/configuracion", h.Obtener)
	r.GET("/admin/configuracion", h.ObtenerCompleta)

	w := do(r, http.MethodGet, "/configuracion", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cerámica hecha a mano")
	assert.NotContains(t, w.Body.String(), "bank_cbu")
	assert.NotContains(t, w.Body.String(), "dos.lidias.taller")

	w = do(r, http.MethodGet, "/admin/configuracion", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var full dto.ConfiguracionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &full))
	assert.Equal(t, "0110599520000001234567", full.BancoCBU)
	assert.Equal(t, "dos.lidias.taller", full.BancoAlias)
}

// ── Clientes / Galeria ────────────────────────────────────────────────────────

type fakeClientes struct{ filter dto.ClienteFilter }

func (f *fakeClientes) Listar(_ context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	f.filter = filter
	return &dto.ClienteListResponse{
		Data:  []dto.ClienteResponse{{Nombre: "Ana", Email: "ana@example.com", CantidadPedidos: 2}},
		Total: 1, Page: 1, Limit: 50,
	}, nil
}

func TestClientesListar_PassesSearch(t *testing.T) {
	f := &fakeClientes{}
	r := gin.New()
	r.GET("/clientes", NewClientesHandler(f).Listar)

	w := do(r, http.MethodGet, "/clientes?q=30111&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30111", f.filter.Q)
	assert.Equal(t, 2, f.filter.Page)
	assert.Contains(t, w.Body.String(), `"orders":2`)
}

type fakeGaleria struct{ agregadas []dto.GaleriaImagenRequest }

func (f *fakeGaleria) Listar(context.Context) ([]dto.GaleriaImagenResponse, error) {
	return []dto.GaleriaImagenResponse{{ID: "1", URL: "https://img.test/a.jpg"}}, nil
}

func (f *fakeGaleria) Agregar(_ context.Context, req dto.GaleriaImagenRequest) (*dto.GaleriaImagenResponse, error) {
	f.agregadas = append(f.agregadas, req)
	return &dto.GaleriaImagenResponse{ID: uuid.NewString(), URL: req.URL, Alt: req.Alt}, nil
}

func (f *fakeGaleria) Subir(context.Context, string, string, string, io.Reader) (*dto.GaleriaImagenResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeGaleria) Eliminar(_ context.Context, id uuid.UUID) error {
	return &service.Error{Kind: service.KindNotFound, Msg: "Imagen no encontrada"}
}

func TestGaleria_Routes(t *testing.T) {
	f := &fakeGaleria{}
	h := NewGaleriaHandler(f)
	r := gin.New()
	r.GET("/galeria", h.Listar)
	r.POST("/galeria", h.Agregar)
	r.DELETE("/galeria/:id", h.Eliminar)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/galeria", nil).Code)

	w := do(r, http.MethodPost, "/galeria", dto.GaleriaImagenRequest{URL: "no es una url"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, f.agregadas)

	w = do(r, http.MethodPost, "/galeria", dto.GaleriaImagenRequest{URL: "https://img.test/b.jpg", Alt: "Horno"})
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.agregadas, 1)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/galeria/xyz", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/galeria/"+uuid.NewString(), nil).Code)
}

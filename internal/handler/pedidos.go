package handler

import (
	"net/http"

	"github.com/arielalcuri/doslidias/internal/apierror"
	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/gin-gonic/gin"
)

// PedidosHandler serves the back-office order screens.
type PedidosHandler struct {
	svc    service.PedidoService
	config service.ConfiguracionService
}

func NewPedidosHandler(svc service.PedidoService, config service.ConfiguracionService) *PedidosHandler {
	return &PedidosHandler{svc: svc, config: config}
}

// Listar godoc
// @Summary      Listar pedidos (mas recientes primero)
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        estado  query  string  false  "Filtrar por estado"
// @Param        email   query  string  false  "Filtrar por email del cliente"
// @Param        q       query  string  false  "Buscar por pedido, nombre, apellido, email o DNI"
// @Param        page    query  int     false  "Pagina (default 1)"
// @Param        limit   query  int     false  "Tamaño de pagina (default 50, max 200)"
// @Success      200  {object}  dto.PedidoListResponse
// @Router       /v1/admin/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	cfg := h.config.Get()
	for i := range resp.Data {
		resp.Data[i].EstadoLabel = cfg.ResolverEstado(resp.Data[i].Estado).Label
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Obtener(c *gin.Context) {
	p, err := h.svc.BuscarPorID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := service.PedidoToResponse(p)
	resp.EstadoLabel = h.config.ResolverEstado(p.Estado).Label
	c.JSON(http.StatusOK, resp)
}

// ActualizarEstado godoc
// @Summary      Cambiar el estado de un pedido
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "ID de pedido"
// @Param        body  body  dto.ActualizarEstadoRequest  true  "Nuevo estado"
// @Success      200  {object}  dto.PedidoResponse
// @Failure      422  {object}  apierror.APIError
// @Router       /v1/admin/pedidos/{id}/estado [patch]
func (h *PedidosHandler) ActualizarEstado(c *gin.Context) {
	var req dto.ActualizarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	estado := h.config.ResolverEstado(req.Estado)
	if !estado.Conocido {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Estado '"+req.Estado+"' no configurado"))
		return
	}
	p, err := h.svc.ActualizarEstado(c.Request.Context(), c.Param("id"), estado.Codigo)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := service.PedidoToResponse(p)
	resp.EstadoLabel = estado.Label
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) ActualizarSeguimiento(c *gin.Context) {
	var req dto.ActualizarSeguimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.ActualizarSeguimiento(c.Request.Context(), c.Param("id"), req.NumeroSeguimiento)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := service.PedidoToResponse(p)
	resp.EstadoLabel = h.config.ResolverEstado(p.Estado).Label
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PedidosHandler) Historial(c *gin.Context) {
	resp, err := h.svc.Historial(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

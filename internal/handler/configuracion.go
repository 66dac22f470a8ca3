package handler

import (
	"net/http"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracionHandler struct{ svc service.ConfiguracionService }

func NewConfiguracionHandler(svc service.ConfiguracionService) *ConfiguracionHandler {
	return &ConfiguracionHandler{svc: svc}
}

// Obtener godoc
// @Summary      Configuracion publica de la tienda
// @Tags         configuracion
// @Produce      json
// @Success      200  {object}  dto.ConfiguracionPublicaResponse
// @Router       /v1/configuracion [get]
func (h *ConfiguracionHandler) Obtener(c *gin.Context) {
	c.JSON(http.StatusOK, service.ConfiguracionToPublica(h.svc.Get()))
}

// ObtenerCompleta godoc
// @Summary      Configuracion completa, datos bancarios incluidos
// @Tags         configuracion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ConfiguracionResponse
// @Router       /v1/admin/configuracion [get]
func (h *ConfiguracionHandler) ObtenerCompleta(c *gin.Context) {
	c.JSON(http.StatusOK, service.ConfiguracionToResponse(h.svc.Get()))
}

// Actualizar godoc
// @Summary      Reemplazar la configuracion
// @Tags         configuracion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ConfiguracionRequest  true  "Configuracion completa"
// @Success      200  {object}  dto.ConfiguracionResponse
// @Failure      422  {object}  apierror.APIError
// @Failure      503  {object}  apierror.APIError
// @Router       /v1/admin/configuracion [put]
func (h *ConfiguracionHandler) Actualizar(c *gin.Context) {
	var req dto.ConfiguracionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cfg, err := h.svc.Actualizar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ConfiguracionToResponse(cfg))
}

// Recargar re-reads the settings from storage into the cache.
func (h *ConfiguracionHandler) Recargar(c *gin.Context) {
	if err := h.svc.Cargar(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ConfiguracionToResponse(h.svc.Get()))
}

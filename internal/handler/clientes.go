package handler

import (
	"net/http"

	"github.com/arielalcuri/doslidias/internal/apierror"
	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Listar godoc
// @Summary      Directorio de clientes registrados con su cantidad de pedidos
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        q      query  string  false  "Buscar por nombre, apellido, email o documento"
// @Param        page   query  int     false  "Pagina (default 1)"
// @Param        limit  query  int     false  "Tamaño de pagina (default 50, max 200)"
// @Success      200  {object}  dto.ClienteListResponse
// @Router       /v1/admin/clientes [get]
func (h *ClientesHandler) Listar(c *gin.Context) {
	var filter dto.ClienteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

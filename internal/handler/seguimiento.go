package handler

import (
	"net/http"

	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/gin-gonic/gin"
)

type SeguimientoHandler struct{ svc service.SeguimientoService }

func NewSeguimientoHandler(svc service.SeguimientoService) *SeguimientoHandler {
	return &SeguimientoHandler{svc: svc}
}

// Buscar godoc
// @Summary      Seguimiento publico de un pedido
// @Tags         seguimiento
// @Produce      json
// @Param        id  path  string  true  "Numero de pedido (ORD-1234, sin distinguir mayusculas)"
// @Success      200  {object}  dto.SeguimientoResponse
// @Failure      404  {object}  apierror.APIError
// @Router       /v1/seguimiento/{id} [get]
func (h *SeguimientoHandler) Buscar(c *gin.Context) {
	resp, err := h.svc.Buscar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/gin-gonic/gin"
)

type CarritoHandler struct{ svc service.CarritoService }

func NewCarritoHandler(svc service.CarritoService) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

func (h *CarritoHandler) Crear(c *gin.Context) {
	resp, err := h.svc.Nuevo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CarritoHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Agregar godoc
// @Summary      Agregar producto al carrito
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de carrito"
// @Param        body  body  dto.AgregarItemRequest  true  "Producto, talle y cantidad"
// @Success      200  {object}  dto.CarritoResponse
// @Failure      422  {object}  apierror.APIError
// @Router       /v1/carritos/{id}/items [post]
func (h *CarritoHandler) Agregar(c *gin.Context) {
	var req dto.AgregarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Agregar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) ActualizarCantidad(c *gin.Context) {
	index, ok := paramInt(c, "index")
	if !ok {
		return
	}
	var req dto.ActualizarCantidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCantidad(c.Request.Context(), c.Param("id"), index, req.Cantidad)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Quitar(c *gin.Context) {
	index, ok := paramInt(c, "index")
	if !ok {
		return
	}
	resp, err := h.svc.Quitar(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Vaciar(c *gin.Context) {
	if err := h.svc.Vaciar(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

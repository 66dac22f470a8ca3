package handler

import (
	"net/http"

	"github.com/arielalcuri/doslidias/internal/apierror"
	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GaleriaHandler struct{ svc service.GaleriaService }

func NewGaleriaHandler(svc service.GaleriaService) *GaleriaHandler {
	return &GaleriaHandler{svc: svc}
}

// Listar godoc
// @Summary      Galeria de la tienda
// @Tags         galeria
// @Produce      json
// @Success      200  {array}  dto.GaleriaImagenResponse
// @Router       /v1/galeria [get]
func (h *GaleriaHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Agregar godoc
// @Summary      Agregar una imagen a la galeria por URL
// @Tags         galeria
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.GaleriaImagenRequest  true  "Imagen"
// @Success      201  {object}  dto.GaleriaImagenResponse
// @Router       /v1/admin/galeria [post]
func (h *GaleriaHandler) Agregar(c *gin.Context) {
	var req dto.GaleriaImagenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Agregar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Subir godoc
// @Summary      Subir una imagen a la galeria
// @Tags         galeria
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        imagen  formData  file    true   "Imagen (max 5MB)"
// @Param        alt     formData  string  false  "Texto alternativo"
// @Success      201  {object}  dto.GaleriaImagenResponse
// @Router       /v1/admin/galeria/imagen [post]
func (h *GaleriaHandler) Subir(c *gin.Context) {
	fh, err := c.FormFile("imagen")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el archivo 'imagen'"))
		return
	}
	if fh.Size > maxImagenBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("La imagen supera los 5MB"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()

	resp, err := h.svc.Subir(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), c.PostForm("alt"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *GaleriaHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/arielalcuri/doslidias/internal/apierror"
	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/middleware"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct{ svc service.CheckoutService }

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Cotizar godoc
// @Summary      Cotizar el carrito para un medio de pago
// @Tags         checkout
// @Produce      json
// @Param        carrito  path   string  true  "ID de carrito"
// @Param        metodo   query  string  true  "mercadopago | transferencia | mayorista"
// @Success      200  {object}  dto.CotizacionResponse
// @Router       /v1/checkout/{carrito}/cotizacion [get]
func (h *CheckoutHandler) Cotizar(c *gin.Context) {
	metodo := c.Query("metodo")
	if metodo == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el parametro 'metodo'"))
		return
	}
	resp, err := h.svc.Cotizar(c.Request.Context(), c.Param("carrito"), metodo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transferencia godoc
// @Summary      Confirmar compra por transferencia bancaria
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        carrito  path  string                   true   "ID de carrito"
// @Param        body     body  dto.DatosClienteRequest  false  "Datos del comprador (invitados)"
// @Success      201  {object}  dto.PedidoResponse
// @Failure      409  {object}  apierror.APIError
// @Router       /v1/checkout/{carrito}/transferencia [post]
func (h *CheckoutHandler) Transferencia(c *gin.Context) {
	comprador, ok := h.comprador(c)
	if !ok {
		return
	}
	resp, err := h.svc.ConfirmarTransferencia(c.Request.Context(), c.Param("carrito"), comprador)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Mayorista godoc
// @Summary      Confirmar compra mayorista (requiere sesion)
// @Tags         checkout
// @Produce      json
// @Security     BearerAuth
// @Param        carrito  path  string  true  "ID de carrito"
// @Success      201  {object}  dto.PedidoResponse
// @Failure      401  {object}  apierror.APIError
// @Router       /v1/checkout/{carrito}/mayorista [post]
func (h *CheckoutHandler) Mayorista(c *gin.Context) {
	comprador, ok := h.comprador(c)
	if !ok {
		return
	}
	resp, err := h.svc.ConfirmarMayorista(c.Request.Context(), c.Param("carrito"), comprador)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// MercadoPago godoc
// @Summary      Iniciar pago con tarjeta via MercadoPago
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        carrito  path  string                   true   "ID de carrito"
// @Param        body     body  dto.DatosClienteRequest  false  "Datos del comprador (invitados)"
// @Success      201  {object}  dto.PagoTarjetaResponse
// @Failure      502  {object}  apierror.APIError
// @Router       /v1/checkout/{carrito}/mercadopago [post]
func (h *CheckoutHandler) MercadoPago(c *gin.Context) {
	comprador, ok := h.comprador(c)
	if !ok {
		return
	}
	resp, err := h.svc.IniciarPagoTarjeta(c.Request.Context(), c.Param("carrito"), comprador)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Retorno godoc
// @Summary      Retorno del comprador desde MercadoPago
// @Tags         checkout
// @Produce      json
// @Param        status              query  string  false  "success | failure | pending"
// @Param        collection_status   query  string  false  "Estado informado por MercadoPago"
// @Param        orderId             query  string  false  "Referencia del pedido"
// @Param        external_reference  query  string  false  "Referencia del pedido"
// @Param        token               query  string  true   "Token de un solo uso"
// @Success      200  {object}  dto.RetornoPagoResponse
// @Router       /v1/checkout/retorno [get]
func (h *CheckoutHandler) Retorno(c *gin.Context) {
	r := service.RetornoPago{
		Status:     primerNoVacio(c.Query("status"), c.Query("collection_status")),
		Referencia: primerNoVacio(c.Query("orderId"), c.Query("external_reference")),
		Token:      c.Query("token"),
	}
	resp, err := h.svc.FinalizarPagoTarjeta(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar releases the cart after the buyer closed the checkout dialog.
func (h *CheckoutHandler) Cancelar(c *gin.Context) {
	if err := h.svc.Cancelar(c.Request.Context(), c.Param("carrito")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CheckoutHandler) comprador(c *gin.Context) (service.Comprador, bool) {
	var datos dto.DatosClienteRequest
	if !bindOptional(c, &datos) {
		return service.Comprador{}, false
	}
	return service.Comprador{UsuarioID: middleware.UsuarioID(c), Datos: datos}, true
}

func primerNoVacio(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

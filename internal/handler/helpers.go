package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/arielalcuri/doslidias/internal/apierror"
	"github.com/arielalcuri/doslidias/internal/middleware"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindOptional is bindAndValidate for bodies that may be absent entirely.
func bindOptional(c *gin.Context, req interface{}) bool {
	if c.Request.ContentLength == 0 {
		return validateStruct(c, req)
	}
	return bindAndValidate(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a service error to its HTTP status. Storage and unknown
// errors never leak their cause to the client.
func respondError(c *gin.Context, err error) {
	switch service.KindOf(err) {
	case service.KindValidation:
		c.JSON(http.StatusUnprocessableEntity, apierror.New(mensaje(err)))
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, apierror.New(mensaje(err)))
	case service.KindConflict:
		c.JSON(http.StatusConflict, apierror.New(mensaje(err)))
	case service.KindUnauthorized:
		if errors.Is(err, service.ErrAutenticacionRequerida) {
			c.JSON(http.StatusUnauthorized, apierror.NewRedirect(mensaje(err), "/auth"))
			return
		}
		c.JSON(http.StatusUnauthorized, apierror.New(mensaje(err)))
	case service.KindExternalService:
		logErr(c, err)
		c.JSON(http.StatusBadGateway, apierror.New(mensaje(err)))
	case service.KindStorage:
		logErr(c, err)
		c.JSON(http.StatusServiceUnavailable, apierror.New("Servicio no disponible, intente nuevamente"))
	default:
		logErr(c, err)
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

// mensaje returns the client-facing text of a service error, without the
// wrapped cause.
func mensaje(err error) string {
	var se *service.Error
	if errors.As(err, &se) {
		return se.Msg
	}
	return err.Error()
}

func logErr(c *gin.Context, err error) {
	log.Error().
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Err(err).
		Msg("request failed")
}

func paramInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(name+" invalido"))
		return 0, false
	}
	return n, true
}

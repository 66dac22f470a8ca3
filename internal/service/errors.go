package service

import (
	"errors"
	"fmt"
)

// Kind classifies failures so handlers can pick a status code without
// inspecting message text.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindStorage
	KindExternalService
	KindNotFound
	KindConflict
	KindUnauthorized
)

// Sentinels usable with errors.Is against any *Error of the same kind.
var (
	ErrValidation      = &Error{Kind: KindValidation, Msg: "datos invalidos"}
	ErrStorage         = &Error{Kind: KindStorage, Msg: "error de almacenamiento"}
	ErrExternalService = &Error{Kind: KindExternalService, Msg: "servicio externo no disponible"}
	ErrNotFound        = &Error{Kind: KindNotFound, Msg: "no encontrado"}
	ErrConflict        = &Error{Kind: KindConflict, Msg: "conflicto"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Msg: "autenticacion requerida"}
)

// Domain errors surfaced to the storefront.
var (
	ErrModoVacaciones         = validationf("La tienda está de vacaciones, no se aceptan pedidos por ahora")
	ErrCarritoVacio           = validationf("El carrito está vacío")
	ErrCheckoutEnCurso        = &Error{Kind: KindConflict, Msg: "Ya hay un pago en curso para este carrito"}
	ErrAutenticacionRequerida = &Error{Kind: KindUnauthorized, Msg: "Iniciá sesión para comprar como mayorista"}
)

// Error is the single error type returned by services.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Msg {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Msg != "" && t.Msg != e.Msg && !isSentinel(t) {
		return false
	}
	return t.Kind == e.Kind
}

func isSentinel(e *Error) bool {
	switch e {
	case ErrValidation, ErrStorage, ErrExternalService, ErrNotFound, ErrConflict, ErrUnauthorized:
		return true
	}
	return false
}

// KindOf returns the Kind of err, or 0 for errors not produced by services.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func validationErr(err error) *Error {
	return &Error{Kind: KindValidation, Msg: err.Error(), Err: err}
}

func validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func storageErr(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Msg: msg, Err: err}
}

func externalErr(msg string, err error) *Error {
	return &Error{Kind: KindExternalService, Msg: msg, Err: err}
}

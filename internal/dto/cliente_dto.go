package dto

import "time"

// ClienteFilter narrows the back-office customer directory. Q matches the
// name, surname, email or document number.
type ClienteFilter struct {
	Q     string `form:"q"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

type ClienteResponse struct {
	ID              string    `json:"id"`
	Nombre          string    `json:"name"`
	Apellido        string    `json:"last_name"`
	Email           string    `json:"email"`
	Telefono        string    `json:"phone"`
	Direccion       string    `json:"address"`
	TipoDocumento   string    `json:"doc_type"`
	NumeroDocumento string    `json:"doc_number"`
	CantidadPedidos int64     `json:"orders"`
	Alta            time.Time `json:"created_at"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegistroRequest struct {
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8"`
	Nombre          string `json:"name"             validate:"required,min=2,max=100"`
	Apellido        string `json:"last_name"        validate:"required,min=2,max=100"`
	Telefono        string `json:"phone"            validate:"max=50"`
	Direccion       string `json:"address"          validate:"max=300"`
	TipoDocumento   string `json:"document_type"    validate:"omitempty,oneof=DNI CUIT CUIL PAS"`
	NumeroDocumento string `json:"document_number"  validate:"max=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Nombre          string `json:"name"`
	Apellido        string `json:"last_name"`
	Telefono        string `json:"phone"`
	Direccion       string `json:"address"`
	TipoDocumento   string `json:"document_type"`
	NumeroDocumento string `json:"document_number"`
	Rol             string `json:"rol"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}

package dto

type EstadoEnvioDTO struct {
	ID    string `json:"id"    validate:"required,max=50"`
	Label string `json:"label" validate:"required,max=100"`
	Color string `json:"color" validate:"max=100"`
}

// ConfiguracionRequest replaces the whole settings document.
type ConfiguracionRequest struct {
	EstadosEnvio           []EstadoEnvioDTO `json:"shipping_statuses"        validate:"required,min=1,dive"`
	DescuentoMercadoPago   int              `json:"mercado_pago_discount"    validate:"min=0,max=100"`
	DescuentoTransferencia int              `json:"bank_discount"            validate:"min=0,max=100"`
	ModoVacaciones         bool             `json:"is_vacation_mode"`
	TituloHero             string           `json:"hero_title"               validate:"max=200"`
	SubtituloHero          string           `json:"hero_subtitle"            validate:"max=500"`
	SubtituloTienda        string           `json:"store_subtitle"           validate:"max=500"`
	WhatsApp               string           `json:"whatsapp"                 validate:"max=50"`
	Instagram              string           `json:"instagram"                validate:"max=200"`
	InfoEnvio              string           `json:"shipping_info"            validate:"max=5000"`
	BancoNombre            string           `json:"bank_name"                validate:"max=100"`
	BancoTitular           string           `json:"bank_holder"              validate:"max=200"`
	BancoCBU               string           `json:"bank_cbu"                 validate:"max=30"`
	BancoAlias             string           `json:"bank_alias"               validate:"max=100"`
	MercadoPagoPublicKey   string           `json:"mercado_pago_public_key"  validate:"max=200"`
}

type ConfiguracionResponse struct {
	EstadosEnvio           []EstadoEnvioDTO `json:"shipping_statuses"`
	DescuentoMercadoPago   int              `json:"mercado_pago_discount"`
	DescuentoTransferencia int              `json:"bank_discount"`
	ModoVacaciones         bool             `json:"is_vacation_mode"`
	TituloHero             string           `json:"hero_title"`
	SubtituloHero          string           `json:"hero_subtitle"`
	SubtituloTienda        string           `json:"store_subtitle"`
	WhatsApp               string           `json:"whatsapp"`
	Instagram              string           `json:"instagram"`
	InfoEnvio              string           `json:"shipping_info"`
	BancoNombre            string           `json:"bank_name"`
	BancoTitular           string           `json:"bank_holder"`
	BancoCBU               string           `json:"bank_cbu"`
	BancoAlias             string           `json:"bank_alias"`
	MercadoPagoPublicKey   string           `json:"mercado_pago_public_key"`
}

// ConfiguracionPublicaResponse is what the storefront sees. Bank details are
// only handed out with a confirmed transfer order.
type ConfiguracionPublicaResponse struct {
	EstadosEnvio           []EstadoEnvioDTO `json:"shipping_statuses"`
	DescuentoMercadoPago   int              `json:"mercado_pago_discount"`
	DescuentoTransferencia int              `json:"bank_discount"`
	ModoVacaciones         bool             `json:"is_vacation_mode"`
	TituloHero             string           `json:"hero_title"`
	SubtituloHero          string           `json:"hero_subtitle"`
	SubtituloTienda        string           `json:"store_subtitle"`
	WhatsApp               string           `json:"whatsapp"`
	Instagram              string           `json:"instagram"`
	InfoEnvio              string           `json:"shipping_info"`
	MercadoPagoPublicKey   string           `json:"mercado_pago_public_key"`
}

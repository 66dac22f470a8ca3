package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type VarianteRequest struct {
	Talle  string          `json:"talle"  validate:"required,max=50"`
	Precio decimal.Decimal `json:"precio" validate:"min=0"`
}

type ProductoRequest struct {
	Nombre      string            `json:"nombre"      validate:"required,min=1,max=200"`
	Categoria   string            `json:"categoria"   validate:"max=100"`
	Descripcion string            `json:"descripcion" validate:"max=5000"`
	Imagen      string            `json:"imagen"      validate:"max=1000"`
	Precio      decimal.Decimal   `json:"precio"      validate:"min=0"`
	Variantes   []VarianteRequest `json:"variantes"   validate:"omitempty,dive"`
}

type ProductoFilter struct {
	Categoria string `form:"categoria"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VarianteResponse struct {
	Talle  string          `json:"talle"`
	Precio decimal.Decimal `json:"precio"`
}

type ProductoResponse struct {
	ID          string             `json:"id"`
	Nombre      string             `json:"nombre"`
	Categoria   string             `json:"categoria"`
	Descripcion string             `json:"descripcion"`
	Imagen      string             `json:"imagen"`
	Precio      decimal.Decimal    `json:"precio"`
	PrecioDesde decimal.Decimal    `json:"precio_desde"`
	Variantes   []VarianteResponse `json:"variantes"`
}

type ImagenResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

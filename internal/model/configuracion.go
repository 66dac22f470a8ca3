package model

import (
	"strings"
	"time"
)

// ConfiguracionID is the primary key of the only configuracion row.
const ConfiguracionID = 1

// EstadoCancelado is the reserved status id excluded from the tracking timeline.
const EstadoCancelado = "cancelado"

// EstadoPendiente is the status every new order starts in.
const EstadoPendiente = "pendiente"

// Configuracion is the store-wide settings singleton.
type Configuracion struct {
	ID                     uint `gorm:"primaryKey"`
	DescuentoMercadoPago   int  `gorm:"not null;default:0"`
	DescuentoTransferencia int  `gorm:"not null;default:0"`
	ModoVacaciones         bool `gorm:"not null;default:false"`

	TituloHero      string `gorm:"not null;default:''"`
	SubtituloHero   string `gorm:"not null;default:''"`
	SubtituloTienda string `gorm:"not null;default:''"`
	WhatsApp        string `gorm:"not null;default:''"`
	Instagram       string `gorm:"not null;default:''"`
	InfoEnvio       string `gorm:"type:text;not null;default:''"`

	BancoNombre  string `gorm:"not null;default:''"`
	BancoTitular string `gorm:"not null;default:''"`
	BancoCBU     string `gorm:"not null;default:''"`
	BancoAlias   string `gorm:"not null;default:''"`

	MercadoPagoPublicKey string `gorm:"not null;default:''"`

	UpdatedAt time.Time

	EstadosEnvio []EstadoEnvio `gorm:"foreignKey:ConfiguracionID;constraint:OnDelete:CASCADE"`
}

func (Configuracion) TableName() string { return "configuracion" }

// EstadoEnvio is one entry of the configurable shipping-status vocabulary.
// The list order defines the progression shown on the tracking timeline.
type EstadoEnvio struct {
	ID              uint   `gorm:"primaryKey"`
	ConfiguracionID uint   `gorm:"index;not null"`
	Codigo          string `gorm:"not null"`
	Label           string `gorm:"not null"`
	Color           string `gorm:"not null;default:''"`
	Posicion        int    `gorm:"not null;default:0"`
}

func (EstadoEnvio) TableName() string { return "estados_envio" }

// ConfiguracionPorDefecto returns the settings a fresh store starts with.
func ConfiguracionPorDefecto() Configuracion {
	return Configuracion{
		ID:                     ConfiguracionID,
		DescuentoMercadoPago:   0,
		DescuentoTransferencia: 10,
		TituloHero:             "Cerámica hecha a mano",
		SubtituloTienda:        "Piezas únicas de nuestro taller",
		EstadosEnvio: []EstadoEnvio{
			{Codigo: "pendiente", Label: "Pendiente", Color: "bg-yellow-100 text-yellow-800"},
			{Codigo: "embalado", Label: "Pedido Embalado", Color: "bg-blue-100 text-blue-800"},
			{Codigo: "en_camino", Label: "En viaje (En camino)", Color: "bg-purple-100 text-purple-800"},
			{Codigo: "entregado", Label: "Entregado", Color: "bg-green-100 text-green-800"},
			{Codigo: EstadoCancelado, Label: "Cancelado", Color: "bg-red-100 text-red-800"},
		},
	}
}

// Clone returns a deep copy so cached settings are never shared by reference.
func (c Configuracion) Clone() Configuracion {
	out := c
	out.EstadosEnvio = append([]EstadoEnvio(nil), c.EstadosEnvio...)
	return out
}

// Estado is the typed view of an order's status string against the current
// settings vocabulary. Orders keep the raw string; this wrapper is built at
// the boundary when a caller needs to know whether the value is one the
// store currently recognises.
type Estado struct {
	Codigo   string
	Label    string
	Color    string
	Conocido bool
}

// EsPersonalizado reports a status not present in the settings list.
func (e Estado) EsPersonalizado() bool { return !e.Conocido }

// ResolverEstado wraps codigo using the configured statuses. Unknown values
// are labelled by replacing the first underscore with a space.
func (c Configuracion) ResolverEstado(codigo string) Estado {
	for _, e := range c.EstadosEnvio {
		if e.Codigo == codigo {
			return Estado{Codigo: codigo, Label: e.Label, Color: e.Color, Conocido: true}
		}
	}
	return Estado{Codigo: codigo, Label: strings.Replace(codigo, "_", " ", 1)}
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ConfiguracionService owns the settings singleton and its in-memory copy.
// Readers always see either the old or the new settings, never a mix.
type ConfiguracionService interface {
	// Cargar refreshes the cache from storage, seeding defaults on first run.
	Cargar(ctx context.Context) error
	Get() model.Configuracion
	Actualizar(ctx context.Context, req dto.ConfiguracionRequest) (model.Configuracion, error)
	ModoVacaciones() bool
	ResolverEstado(codigo string) model.Estado
}

type configuracionService struct {
	repo repository.ConfiguracionRepository

	mu    sync.RWMutex
	cache model.Configuracion
}

func NewConfiguracionService(repo repository.ConfiguracionRepository) ConfiguracionService {
	return &configuracionService{repo: repo, cache: model.ConfiguracionPorDefecto()}
}

func (s *configuracionService) Cargar(ctx context.Context) error {
	cfg, err := s.repo.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		def := model.ConfiguracionPorDefecto()
		if err := s.repo.Save(ctx, &def); err != nil {
			return storageErr("no se pudo inicializar la configuracion", err)
		}
		log.Info().Msg("configuracion: defaults seeded")
		cfg = &def
	} else if err != nil {
		return storageErr("no se pudo leer la configuracion", err)
	}
	s.swap(*cfg)
	return nil
}

func (s *configuracionService) Get() model.Configuracion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.Clone()
}

func (s *configuracionService) ModoVacaciones() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.ModoVacaciones
}

func (s *configuracionService) ResolverEstado(codigo string) model.Estado {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.ResolverEstado(codigo)
}

// Actualizar persists the whole settings document and only then replaces the
// cached copy. A failed write leaves the cache untouched.
func (s *configuracionService) Actualizar(ctx context.Context, req dto.ConfiguracionRequest) (model.Configuracion, error) {
	nueva, err := configuracionFromRequest(req)
	if err != nil {
		return model.Configuracion{}, err
	}
	if err := s.repo.Save(ctx, &nueva); err != nil {
		return model.Configuracion{}, storageErr("no se pudo guardar la configuracion", err)
	}
	s.swap(nueva)
	log.Info().
		Int("descuento_transferencia", nueva.DescuentoTransferencia).
		Int("descuento_mercadopago", nueva.DescuentoMercadoPago).
		Bool("modo_vacaciones", nueva.ModoVacaciones).
		Msg("configuracion: updated")
	return nueva.Clone(), nil
}

func (s *configuracionService) swap(cfg model.Configuracion) {
	c := cfg.Clone()
	s.mu.Lock()
	s.cache = c
	s.mu.Unlock()
}

func configuracionFromRequest(req dto.ConfiguracionRequest) (model.Configuracion, error) {
	if req.DescuentoMercadoPago < 0 || req.DescuentoMercadoPago > 100 ||
		req.DescuentoTransferencia < 0 || req.DescuentoTransferencia > 100 {
		return model.Configuracion{}, validationf("Los descuentos deben estar entre 0 y 100")
	}
	if len(req.EstadosEnvio) == 0 {
		return model.Configuracion{}, validationf("Debe existir al menos un estado de envío")
	}

	vistos := make(map[string]bool, len(req.EstadosEnvio))
	estados := make([]model.EstadoEnvio, 0, len(req.EstadosEnvio))
	for i, e := range req.EstadosEnvio {
		codigo := strings.TrimSpace(e.ID)
		if codigo == "" {
			return model.Configuracion{}, validationf("El estado #%d no tiene identificador", i+1)
		}
		if vistos[codigo] {
			return model.Configuracion{}, validationf("El estado %q está repetido", codigo)
		}
		vistos[codigo] = true
		estados = append(estados, model.EstadoEnvio{
			Codigo:   codigo,
			Label:    e.Label,
			Color:    e.Color,
			Posicion: i,
		})
	}

	return model.Configuracion{
		ID:                     model.ConfiguracionID,
		DescuentoMercadoPago:   req.DescuentoMercadoPago,
		DescuentoTransferencia: req.DescuentoTransferencia,
		ModoVacaciones:         req.ModoVacaciones,
		TituloHero:             req.TituloHero,
		SubtituloHero:          req.SubtituloHero,
		SubtituloTienda:        req.SubtituloTienda,
		WhatsApp:               req.WhatsApp,
		Instagram:              req.Instagram,
		InfoEnvio:              req.InfoEnvio,
		BancoNombre:            req.BancoNombre,
		BancoTitular:           req.BancoTitular,
		BancoCBU:               req.BancoCBU,
		BancoAlias:             req.BancoAlias,
		MercadoPagoPublicKey:   req.MercadoPagoPublicKey,
		EstadosEnvio:           estados,
	}, nil
}

func estadosToDTO(c model.Configuracion) []dto.EstadoEnvioDTO {
	estados := make([]dto.EstadoEnvioDTO, len(c.EstadosEnvio))
	for i, e := range c.EstadosEnvio {
		estados[i] = dto.EstadoEnvioDTO{ID: e.Codigo, Label: e.Label, Color: e.Color}
	}
	return estados
}

// ConfiguracionToPublica maps settings to the storefront JSON shape.
func ConfiguracionToPublica(c model.Configuracion) dto.ConfiguracionPublicaResponse {
	return dto.ConfiguracionPublicaResponse{
		EstadosEnvio:           estadosToDTO(c),
		DescuentoMercadoPago:   c.DescuentoMercadoPago,
		DescuentoTransferencia: c.DescuentoTransferencia,
		ModoVacaciones:         c.ModoVacaciones,
		TituloHero:             c.TituloHero,
		SubtituloHero:          c.SubtituloHero,
		SubtituloTienda:        c.SubtituloTienda,
		WhatsApp:               c.WhatsApp,
		Instagram:              c.Instagram,
		InfoEnvio:              c.InfoEnvio,
		MercadoPagoPublicKey:   c.MercadoPagoPublicKey,
	}
}

// ConfiguracionToResponse maps the whole settings document for the back office.
func ConfiguracionToResponse(c model.Configuracion) dto.ConfiguracionResponse {
	return dto.ConfiguracionResponse{
		EstadosEnvio:           estadosToDTO(c),
		DescuentoMercadoPago:   c.DescuentoMercadoPago,
		DescuentoTransferencia: c.DescuentoTransferencia,
		ModoVacaciones:         c.ModoVacaciones,
		TituloHero:             c.TituloHero,
		SubtituloHero:          c.SubtituloHero,
		SubtituloTienda:        c.SubtituloTienda,
		WhatsApp:               c.WhatsApp,
		Instagram:              c.Instagram,
		InfoEnvio:              c.InfoEnvio,
		BancoNombre:            c.BancoNombre,
		BancoTitular:           c.BancoTitular,
		BancoCBU:               c.BancoCBU,
		BancoAlias:             c.BancoAlias,
		MercadoPagoPublicKey:   c.MercadoPagoPublicKey,
	}
}

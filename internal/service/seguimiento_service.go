package service

import (
	"context"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"
)

// SeguimientoService answers the public "where is my order" lookup.
type SeguimientoService interface {
	Buscar(ctx context.Context, id string) (*dto.SeguimientoResponse, error)
}

type seguimientoService struct {
	pedidos PedidoService
	config  ConfiguracionService
}

func NewSeguimientoService(pedidos PedidoService, config ConfiguracionService) SeguimientoService {
	return &seguimientoService{pedidos: pedidos, config: config}
}

func (s *seguimientoService) Buscar(ctx context.Context, id string) (*dto.SeguimientoResponse, error) {
	p, err := s.pedidos.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg := s.config.Get()

	resp := PedidoToResponse(p)
	resp.EstadoLabel = cfg.ResolverEstado(p.Estado).Label
	return &dto.SeguimientoResponse{
		Pedido:   resp,
		Timeline: Timeline(p.Estado, cfg.EstadosEnvio),
	}, nil
}

// Timeline lays out the configured statuses, minus cancelado, as progress
// steps. Progress is positional: a step is completed when the current status
// sits at or after it in the list. A status missing from the list completes
// nothing.
func Timeline(actual string, estados []model.EstadoEnvio) []dto.PasoTimelineResponse {
	pasos := make([]model.EstadoEnvio, 0, len(estados))
	for _, e := range estados {
		if e.Codigo != model.EstadoCancelado {
			pasos = append(pasos, e)
		}
	}

	idxActual := -1
	for i, e := range pasos {
		if e.Codigo == actual {
			idxActual = i
			break
		}
	}

	resp := make([]dto.PasoTimelineResponse, len(pasos))
	for i, e := range pasos {
		resp[i] = dto.PasoTimelineResponse{
			ID:         e.Codigo,
			Label:      e.Label,
			Color:      e.Color,
			Completado: idxActual >= i,
			Activo:     idxActual == i,
		}
	}
	return resp
}

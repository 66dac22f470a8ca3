package service

import (
	"context"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/repository"
)

// ClienteService backs the back-office customer directory.
type ClienteService interface {
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
}

type clienteService struct {
	repo repository.UsuarioRepository
}

func NewClienteService(repo repository.UsuarioRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	clientes, total, err := s.repo.ListClientes(ctx, filter)
	if err != nil {
		return nil, storageErr("no se pudieron listar los clientes", err)
	}
	data := make([]dto.ClienteResponse, len(clientes))
	for i, c := range clientes {
		data[i] = dto.ClienteResponse{
			ID:              c.ID.String(),
			Nombre:          c.Nombre,
			Apellido:        c.Apellido,
			Email:           c.Email,
			Telefono:        c.Telefono,
			Direccion:       c.Direccion,
			TipoDocumento:   c.TipoDocumento,
			NumeroDocumento: c.NumeroDocumento,
			CantidadPedidos: c.CantidadPedidos,
			Alta:            c.CreatedAt,
		}
	}
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return &dto.ClienteListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

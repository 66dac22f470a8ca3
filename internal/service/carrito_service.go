package service

import (
	"context"
	"errors"
	"time"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/pricing"
	"github.com/arielalcuri/doslidias/internal/repository"

	"github.com/google/uuid"
)

type CarritoService interface {
	Nuevo(ctx context.Context) (*dto.CarritoResponse, error)
	Obtener(ctx context.Context, id string) (*dto.CarritoResponse, error)
	Agregar(ctx context.Context, id string, req dto.AgregarItemRequest) (*dto.CarritoResponse, error)
	ActualizarCantidad(ctx context.Context, id string, index, cantidad int) (*dto.CarritoResponse, error)
	Quitar(ctx context.Context, id string, index int) (*dto.CarritoResponse, error)
	Vaciar(ctx context.Context, id string) error
}

type carritoService struct {
	repo     repository.CarritoRepository
	catalogo CatalogoService
	config   ConfiguracionService
}

func NewCarritoService(repo repository.CarritoRepository, catalogo CatalogoService, config ConfiguracionService) CarritoService {
	return &carritoService{repo: repo, catalogo: catalogo, config: config}
}

func (s *carritoService) Nuevo(ctx context.Context) (*dto.CarritoResponse, error) {
	c := &model.Carrito{ID: uuid.NewString(), Items: []model.CarritoItem{}, Actualizado: time.Now()}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, storageErr("no se pudo crear el carrito", err)
	}
	return carritoToResponse(c), nil
}

func (s *carritoService) Obtener(ctx context.Context, id string) (*dto.CarritoResponse, error) {
	c, err := s.cargar(ctx, id)
	if err != nil {
		return nil, err
	}
	return carritoToResponse(c), nil
}

// Agregar resolves the unit price for the chosen size and appends the line,
// merging with an existing line for the same product and size. Rejected adds
// leave the stored cart untouched.
func (s *carritoService) Agregar(ctx context.Context, id string, req dto.AgregarItemRequest) (*dto.CarritoResponse, error) {
	if s.config.ModoVacaciones() {
		return nil, ErrModoVacaciones
	}
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, validationf("producto_id invalido")
	}
	p, err := s.catalogo.ObtenerPorID(pid)
	if err != nil {
		return nil, err
	}
	precio, err := pricing.ResolvePrice(*p, req.Talle)
	if err != nil {
		return nil, validationErr(err)
	}
	// An omitted quantity means one unit.
	cantidad := req.Cantidad
	if cantidad < 0 {
		return nil, validationf("La cantidad debe ser mayor a cero")
	}
	if cantidad == 0 {
		cantidad = 1
	}
	talle := ""
	nombre := p.Nombre
	if p.TieneVariantes() {
		talle = req.Talle
		nombre = p.Nombre + " - " + talle
	}

	c, err := s.cargar(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := false
	for i := range c.Items {
		if c.Items[i].ProductoID == pid.String() && c.Items[i].Talle == talle {
			c.Items[i].Cantidad += cantidad
			c.Items[i].PrecioUnitario = precio
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, model.CarritoItem{
			ProductoID:     pid.String(),
			Nombre:         nombre,
			Talle:          talle,
			PrecioUnitario: precio,
			Cantidad:       cantidad,
		})
	}
	return s.guardar(ctx, c)
}

func (s *carritoService) ActualizarCantidad(ctx context.Context, id string, index, cantidad int) (*dto.CarritoResponse, error) {
	if cantidad <= 0 {
		return nil, validationf("La cantidad debe ser mayor a cero")
	}
	c, err := s.cargar(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.Items) {
		return nil, notFoundf("Item %d no encontrado en el carrito", index)
	}
	c.Items[index].Cantidad = cantidad
	return s.guardar(ctx, c)
}

func (s *carritoService) Quitar(ctx context.Context, id string, index int) (*dto.CarritoResponse, error) {
	c, err := s.cargar(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(c.Items) {
		return nil, notFoundf("Item %d no encontrado en el carrito", index)
	}
	c.Items = append(c.Items[:index:index], c.Items[index+1:]...)
	return s.guardar(ctx, c)
}

func (s *carritoService) Vaciar(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageErr("no se pudo vaciar el carrito", err)
	}
	return nil
}

func (s *carritoService) cargar(ctx context.Context, id string) (*model.Carrito, error) {
	c, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrCarritoNoEncontrado) {
		return nil, notFoundf("Carrito no encontrado")
	}
	if err != nil {
		return nil, storageErr("no se pudo leer el carrito", err)
	}
	return c, nil
}

func (s *carritoService) guardar(ctx context.Context, c *model.Carrito) (*dto.CarritoResponse, error) {
	c.Actualizado = time.Now()
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, storageErr("no se pudo guardar el carrito", err)
	}
	return carritoToResponse(c), nil
}

func carritoToResponse(c *model.Carrito) *dto.CarritoResponse {
	items := make([]dto.CarritoItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = dto.CarritoItemResponse{
			ProductoID:     it.ProductoID,
			Nombre:         it.Nombre,
			Talle:          it.Talle,
			PrecioUnitario: it.PrecioUnitario,
			Cantidad:       it.Cantidad,
		}
	}
	return &dto.CarritoResponse{ID: c.ID, Items: items, Subtotal: pricing.Subtotal(c.Items)}
}

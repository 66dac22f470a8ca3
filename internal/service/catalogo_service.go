package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/pricing"
	"github.com/arielalcuri/doslidias/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PrefijoImagenes is the object-key prefix for uploaded product pictures.
const PrefijoImagenes = "productos/"

// ImageStore uploads product pictures to an external object store.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	PresignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// CatalogoService keeps an in-memory copy of the catalog. Cargar fills it
// from storage; reads are synchronous against the copy; writes go to storage
// first and touch the copy only when storage accepted them.
type CatalogoService interface {
	Cargar(ctx context.Context) error
	Listar(filter dto.ProductoFilter) []dto.ProductoResponse
	ObtenerPorID(id uuid.UUID) (*model.Producto, error)
	Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	SubirImagen(ctx context.Context, filename, contentType string, body io.Reader) (*dto.ImagenResponse, error)
}

type catalogoService struct {
	repo   repository.ProductoRepository
	images ImageStore // nil when no bucket is configured

	mu        sync.RWMutex
	productos []model.Producto
}

func NewCatalogoService(repo repository.ProductoRepository, images ImageStore) CatalogoService {
	return &catalogoService{repo: repo, images: images}
}

func (s *catalogoService) Cargar(ctx context.Context) error {
	productos, err := s.repo.List(ctx)
	if err != nil {
		return storageErr("no se pudo cargar el catalogo", err)
	}
	s.mu.Lock()
	s.productos = productos
	s.mu.Unlock()
	log.Info().Int("productos", len(productos)).Msg("catalogo: cache loaded")
	return nil
}

func (s *catalogoService) Listar(filter dto.ProductoFilter) []dto.ProductoResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := make([]dto.ProductoResponse, 0, len(s.productos))
	for _, p := range s.productos {
		if filter.Categoria != "" && !strings.EqualFold(p.Categoria, filter.Categoria) {
			continue
		}
		resp = append(resp, ProductoToResponse(p))
	}
	return resp
}

func (s *catalogoService) ObtenerPorID(id uuid.UUID) (*model.Producto, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.productos {
		if s.productos[i].ID == id {
			p := cloneProducto(s.productos[i])
			return &p, nil
		}
	}
	return nil, notFoundf("Producto no encontrado")
}

func (s *catalogoService) Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	p, err := productoFromRequest(req)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.New()
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, storageErr("no se pudo crear el producto", err)
	}

	s.mu.Lock()
	s.productos = append(s.productos, cloneProducto(p))
	s.mu.Unlock()

	resp := ProductoToResponse(p)
	return &resp, nil
}

func (s *catalogoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	p, err := productoFromRequest(req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.Update(ctx, &p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("Producto no encontrado")
		}
		return nil, storageErr("no se pudo actualizar el producto", err)
	}

	s.mu.Lock()
	reemplazado := false
	for i := range s.productos {
		if s.productos[i].ID == id {
			p.CreatedAt = s.productos[i].CreatedAt
			s.productos[i] = cloneProducto(p)
			reemplazado = true
			break
		}
	}
	if !reemplazado {
		s.productos = append(s.productos, cloneProducto(p))
	}
	s.mu.Unlock()

	resp := ProductoToResponse(p)
	return &resp, nil
}

func (s *catalogoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("Producto no encontrado")
		}
		return storageErr("no se pudo eliminar el producto", err)
	}

	var imagen string
	s.mu.Lock()
	for i := range s.productos {
		if s.productos[i].ID == id {
			imagen = s.productos[i].Imagen
			s.productos = append(s.productos[:i:i], s.productos[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if s.images != nil && strings.HasPrefix(imagen, PrefijoImagenes) {
		if err := s.images.Delete(ctx, imagen); err != nil {
			log.Warn().Err(err).Str("key", imagen).Msg("catalogo: failed to delete product image")
		}
	}
	return nil
}

func (s *catalogoService) SubirImagen(ctx context.Context, filename, contentType string, body io.Reader) (*dto.ImagenResponse, error) {
	if s.images == nil {
		return nil, externalErr("almacenamiento de imagenes no configurado", nil)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, validationf("El archivo debe ser una imagen")
	}
	key, err := s.images.Upload(ctx, filename, contentType, body)
	if err != nil {
		return nil, externalErr("no se pudo subir la imagen", err)
	}
	url, err := s.images.PresignedURL(ctx, key)
	if err != nil {
		return nil, externalErr("no se pudo firmar la URL de la imagen", err)
	}
	return &dto.ImagenResponse{Key: key, URL: url}, nil
}

func productoFromRequest(req dto.ProductoRequest) (model.Producto, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return model.Producto{}, validationf("El nombre es obligatorio")
	}
	if req.Precio.IsNegative() {
		return model.Producto{}, validationf("El precio no puede ser negativo")
	}
	p := model.Producto{
		Nombre:      nombre,
		Categoria:   strings.TrimSpace(req.Categoria),
		Descripcion: req.Descripcion,
		Imagen:      req.Imagen,
		Precio:      req.Precio,
	}
	vistos := make(map[string]bool, len(req.Variantes))
	for i, v := range req.Variantes {
		talle := strings.TrimSpace(v.Talle)
		if talle == "" {
			return model.Producto{}, validationf("La variante #%d no tiene talle", i+1)
		}
		if vistos[talle] {
			return model.Producto{}, validationf("El talle %q está repetido", talle)
		}
		if v.Precio.IsNegative() {
			return model.Producto{}, validationf("El precio del talle %q no puede ser negativo", talle)
		}
		vistos[talle] = true
		p.Variantes = append(p.Variantes, model.ProductoVariante{Talle: talle, Precio: v.Precio, Posicion: i})
	}
	return p, nil
}

func cloneProducto(p model.Producto) model.Producto {
	out := p
	out.Variantes = append([]model.ProductoVariante(nil), p.Variantes...)
	return out
}

func ProductoToResponse(p model.Producto) dto.ProductoResponse {
	variantes := make([]dto.VarianteResponse, len(p.Variantes))
	for i, v := range p.Variantes {
		variantes[i] = dto.VarianteResponse{Talle: v.Talle, Precio: v.Precio}
	}
	return dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Categoria:   p.Categoria,
		Descripcion: p.Descripcion,
		Imagen:      p.Imagen,
		Precio:      p.Precio,
		PrecioDesde: pricing.UnitPrice(p, nil),
		Variantes:   variantes,
	}
}

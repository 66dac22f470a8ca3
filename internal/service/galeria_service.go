package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PrefijoGaleria is the object-key prefix for uploaded gallery pictures.
const PrefijoGaleria = "galeria/"

// GaleriaService manages the storefront picture gallery. Pictures are either
// external links or files kept in the object store.
type GaleriaService interface {
	Listar(ctx context.Context) ([]dto.GaleriaImagenResponse, error)
	Agregar(ctx context.Context, req dto.GaleriaImagenRequest) (*dto.GaleriaImagenResponse, error)
	Subir(ctx context.Context, filename, contentType, alt string, body io.Reader) (*dto.GaleriaImagenResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type galeriaService struct {
	repo   repository.GaleriaRepository
	images ImageStore // nil when no bucket is configured
}

func NewGaleriaService(repo repository.GaleriaRepository, images ImageStore) GaleriaService {
	return &galeriaService{repo: repo, images: images}
}

// Listar skips stored files it cannot sign rather than failing the page.
func (s *galeriaService) Listar(ctx context.Context) ([]dto.GaleriaImagenResponse, error) {
	imgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageErr("no se pudo cargar la galeria", err)
	}
	resp := make([]dto.GaleriaImagenResponse, 0, len(imgs))
	for i := range imgs {
		r, err := s.toResponse(ctx, &imgs[i])
		if err != nil {
			log.Warn().Err(err).Str("key", imgs[i].Key).Msg("galeria: failed to sign image URL")
			continue
		}
		resp = append(resp, r)
	}
	return resp, nil
}

func (s *galeriaService) Agregar(ctx context.Context, req dto.GaleriaImagenRequest) (*dto.GaleriaImagenResponse, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return nil, validationf("La URL de la imagen es obligatoria")
	}
	img := &model.GaleriaImagen{URL: url, Alt: strings.TrimSpace(req.Alt)}
	if err := s.repo.Create(ctx, img); err != nil {
		return nil, storageErr("no se pudo guardar la imagen", err)
	}
	return &dto.GaleriaImagenResponse{ID: img.ID.String(), URL: img.URL, Alt: img.Alt}, nil
}

func (s *galeriaService) Subir(ctx context.Context, filename, contentType, alt string, body io.Reader) (*dto.GaleriaImagenResponse, error) {
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
	img := &model.GaleriaImagen{Key: key, Alt: strings.TrimSpace(alt)}
	if err := s.repo.Create(ctx, img); err != nil {
		s.borrarArchivo(ctx, key)
		return nil, storageErr("no se pudo guardar la imagen", err)
	}
	resp, err := s.toResponse(ctx, img)
	if err != nil {
		return nil, externalErr("no se pudo firmar la URL de la imagen", err)
	}
	return &resp, nil
}

func (s *galeriaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("Imagen no encontrada")
		}
		return storageErr("no se pudo buscar la imagen", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("Imagen no encontrada")
		}
		return storageErr("no se pudo eliminar la imagen", err)
	}
	s.borrarArchivo(ctx, img.Key)
	return nil
}

// borrarArchivo removes an uploaded file. An orphaned object is only logged.
func (s *galeriaService) borrarArchivo(ctx context.Context, key string) {
	if s.images == nil || key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("galeria: failed to delete image object")
	}
}

func (s *galeriaService) toResponse(ctx context.Context, img *model.GaleriaImagen) (dto.GaleriaImagenResponse, error) {
	r := dto.GaleriaImagenResponse{ID: img.ID.String(), URL: img.URL, Alt: img.Alt}
	if img.Key == "" {
		return r, nil
	}
	if s.images == nil {
		return r, errors.New("galeria: no image store for stored key")
	}
	url, err := s.images.PresignedURL(ctx, img.Key)
	if err != nil {
		return r, err
	}
	r.URL = url
	return r, nil
}

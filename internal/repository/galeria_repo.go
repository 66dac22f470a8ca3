package repository

import (
	"context"

	"github.com/arielalcuri/doslidias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GaleriaRepository interface {
	Create(ctx context.Context, img *model.GaleriaImagen) error
	// List returns the gallery oldest first.
	List(ctx context.Context) ([]model.GaleriaImagen, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.GaleriaImagen, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type galeriaRepo struct{ db *gorm.DB }

func NewGaleriaRepository(db *gorm.DB) GaleriaRepository { return &galeriaRepo{db: db} }

func (r *galeriaRepo) Create(ctx context.Context, img *model.GaleriaImagen) error {
	return r.db.WithContext(ctx).Create(img).Error
}

func (r *galeriaRepo) List(ctx context.Context) ([]model.GaleriaImagen, error) {
	var imgs []model.GaleriaImagen
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&imgs).Error
	return imgs, err
}

func (r *galeriaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GaleriaImagen, error) {
	var img model.GaleriaImagen
	err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error
	return &img, err
}

func (r *galeriaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.GaleriaImagen{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

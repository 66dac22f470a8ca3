package repository

import (
	"context"

	"github.com/arielalcuri/doslidias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context) ([]model.Producto, error)
	// Update replaces the product row and its whole variant list.
	Update(ctx context.Context, p *model.Producto) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func variantesOrdenadas(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).
		Preload("Variantes", variantesOrdenadas).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Preload("Variantes", variantesOrdenadas).
		Order("created_at ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Producto{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"nombre":      p.Nombre,
			"categoria":   p.Categoria,
			"descripcion": p.Descripcion,
			"imagen":      p.Imagen,
			"precio":      p.Precio,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("producto_id = ?", p.ID).Delete(&model.ProductoVariante{}).Error; err != nil {
			return err
		}
		for i := range p.Variantes {
			p.Variantes[i].ID = 0
			p.Variantes[i].ProductoID = p.ID
		}
		if len(p.Variantes) > 0 {
			if err := tx.Create(&p.Variantes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("producto_id = ?", id).Delete(&model.ProductoVariante{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Producto{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

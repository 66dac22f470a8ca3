package repository

import (
	"context"

	"github.com/arielalcuri/doslidias/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfiguracionRepository persists the settings singleton.
type ConfiguracionRepository interface {
	// Get returns gorm.ErrRecordNotFound when the store was never configured.
	Get(ctx context.Context) (*model.Configuracion, error)
	// Save writes the row and replaces the status list in one transaction.
	Save(ctx context.Context, cfg *model.Configuracion) error
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) Get(ctx context.Context) (*model.Configuracion, error) {
	var cfg model.Configuracion
	err := r.db.WithContext(ctx).
		Preload("EstadosEnvio", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		First(&cfg, "id = ?", model.ConfiguracionID).Error
	return &cfg, err
}

func (r *configuracionRepo) Save(ctx context.Context, cfg *model.Configuracion) error {
	cfg.ID = model.ConfiguracionID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
			Omit(clause.Associations).
			Create(cfg).Error
		if err != nil {
			return err
		}
		if err := tx.Where("configuracion_id = ?", cfg.ID).Delete(&model.EstadoEnvio{}).Error; err != nil {
			return err
		}
		estados := make([]model.EstadoEnvio, len(cfg.EstadosEnvio))
		for i, e := range cfg.EstadosEnvio {
			estados[i] = model.EstadoEnvio{
				ConfiguracionID: cfg.ID,
				Codigo:          e.Codigo,
				Label:           e.Label,
				Color:           e.Color,
				Posicion:        i,
			}
		}
		if len(estados) > 0 {
			if err := tx.Create(&estados).Error; err != nil {
				return err
			}
		}
		cfg.EstadosEnvio = estados
		return nil
	})
}

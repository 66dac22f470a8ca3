package repository

import (
	"context"
	"time"

	"github.com/arielalcuri/doslidias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IntentoPagoRepository stores card-payment attempts awaiting the buyer's return.
type IntentoPagoRepository interface {
	Create(ctx context.Context, i *model.IntentoPago) error
	FindByReferencia(ctx context.Context, referencia string) (*model.IntentoPago, error)
	// MarcarFinalizado only transitions a pending attempt; it reports whether
	// this call performed the transition.
	MarcarFinalizado(ctx context.Context, id uuid.UUID, pedidoID string) (bool, error)
	MarcarRechazado(ctx context.Context, id uuid.UUID) error
	// ExpirarPendientes marks pending attempts created before limite as expired.
	ExpirarPendientes(ctx context.Context, limite time.Time) (int64, error)
}

type intentoPagoRepo struct{ db *gorm.DB }

func NewIntentoPagoRepository(db *gorm.DB) IntentoPagoRepository {
	return &intentoPagoRepo{db: db}
}

func (r *intentoPagoRepo) Create(ctx context.Context, i *model.IntentoPago) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *intentoPagoRepo) FindByReferencia(ctx context.Context, referencia string) (*model.IntentoPago, error) {
	var i model.IntentoPago
	err := r.db.WithContext(ctx).Where("LOWER(referencia) = LOWER(?)", referencia).First(&i).Error
	return &i, err
}

func (r *intentoPagoRepo) MarcarFinalizado(ctx context.Context, id uuid.UUID, pedidoID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.IntentoPago{}).
		Where("id = ? AND estado = ?", id, model.IntentoPendiente).
		Updates(map[string]interface{}{
			"estado":    model.IntentoFinalizado,
			"pedido_id": pedidoID,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *intentoPagoRepo) MarcarRechazado(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.IntentoPago{}).
		Where("id = ? AND estado = ?", id, model.IntentoPendiente).
		Update("estado", model.IntentoRechazado).Error
}

func (r *intentoPagoRepo) ExpirarPendientes(ctx context.Context, limite time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.IntentoPago{}).
		Where("estado = ? AND created_at < ?", model.IntentoPendiente, limite).
		Update("estado", model.IntentoExpirado)
	return res.RowsAffected, res.Error
}

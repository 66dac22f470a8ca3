package repository

import (
	"context"
	"strings"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"

	"gorm.io/gorm"
)

const (
	secuenciaPedidos   = "pedidos"
	primerNumeroPedido = 1000
)

// PedidoRepository defines the data access contract for orders.
// Methods taking a tx run inside the caller's transaction; a nil tx uses the
// repository's own connection.
type PedidoRepository interface {
	NextNumero(ctx context.Context, tx *gorm.DB) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error
	AppendHistorial(ctx context.Context, tx *gorm.DB, h *model.PedidoEstadoHistorial) error
	// FindByID matches the id case-insensitively.
	FindByID(ctx context.Context, id string) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	UpdateEstado(ctx context.Context, tx *gorm.DB, id, estado string) error
	UpdateSeguimiento(ctx context.Context, id, numero string) error
	Delete(ctx context.Context, id string) error
	ListHistorial(ctx context.Context, id string) ([]model.PedidoEstadoHistorial, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// NextNumero increments the order counter and returns the new value. The
// increment and the read share one transaction (the caller's, or a fresh one
// when tx is nil) so the row lock taken by the UPDATE is held until the value
// has been read back and two callers never see the same number.
func (r *pedidoRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx != nil {
		return siguienteNumero(tx.WithContext(ctx))
	}
	var n int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = siguienteNumero(tx)
		return err
	})
	return n, err
}

func siguienteNumero(db *gorm.DB) (int64, error) {
	res := db.Model(&model.Secuencia{}).
		Where("nombre = ?", secuenciaPedidos).
		UpdateColumn("valor", gorm.Expr("valor + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		seq := model.Secuencia{Nombre: secuenciaPedidos, Valor: primerNumeroPedido}
		if err := db.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.Valor, nil
	}
	var seq model.Secuencia
	if err := db.First(&seq, "nombre = ?", secuenciaPedidos).Error; err != nil {
		return 0, err
	}
	return seq.Valor, nil
}

func (r *pedidoRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	return r.conn(ctx, tx).Create(p).Error
}

func (r *pedidoRepo) AppendHistorial(ctx context.Context, tx *gorm.DB, h *model.PedidoEstadoHistorial) error {
	return r.conn(ctx, tx).Create(h).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id string) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Where("LOWER(id) = LOWER(?)", id).
		First(&p).Error
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Pedido{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Email != "" {
		q = q.Where("LOWER(cliente_email) = LOWER(?)", filter.Email)
	}
	if term := strings.TrimSpace(filter.Q); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(id) LIKE ? OR LOWER(cliente_nombre) LIKE ? OR LOWER(cliente_apellido) LIKE ? OR LOWER(cliente_email) LIKE ? OR cliente_dni LIKE ?)",
			like, like, like, like, "%"+term+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var pedidos []model.Pedido
	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		Order("fecha DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&pedidos).Error
	return pedidos, total, err
}

func (r *pedidoRepo) UpdateEstado(ctx context.Context, tx *gorm.DB, id, estado string) error {
	res := r.conn(ctx, tx).Model(&model.Pedido{}).Where("id = ?", id).Update("estado", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pedidoRepo) UpdateSeguimiento(ctx context.Context, id, numero string) error {
	res := r.db.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).Update("numero_seguimiento", numero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *pedidoRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pedido_id = ?", id).Delete(&model.PedidoItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Pedido{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *pedidoRepo) ListHistorial(ctx context.Context, id string) ([]model.PedidoEstadoHistorial, error) {
	var hist []model.PedidoEstadoHistorial
	err := r.db.WithContext(ctx).
		Where("pedido_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&hist).Error
	return hist, err
}

package repository

import (
	"context"
	"strings"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	// ListClientes returns registered customers with the number of orders
	// placed under their email.
	ListClientes(ctx context.Context, filter dto.ClienteFilter) ([]ClienteConPedidos, int64, error)
}

// ClienteConPedidos is a customer row plus its order count.
type ClienteConPedidos struct {
	model.Usuario
	CantidadPedidos int64 `gorm:"column:cantidad_pedidos"`
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND activo = ?", email, true).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *usuarioRepo) ListClientes(ctx context.Context, filter dto.ClienteFilter) ([]ClienteConPedidos, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("rol = ?", model.RolCliente)
	if term := strings.TrimSpace(filter.Q); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(nombre) LIKE ? OR LOWER(apellido) LIKE ? OR LOWER(email) LIKE ? OR numero_documento LIKE ?)",
			like, like, like, "%"+term+"%")
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

	var clientes []ClienteConPedidos
	err := q.Select("usuarios.*, (SELECT COUNT(*) FROM pedidos WHERE LOWER(pedidos.cliente_email) = LOWER(usuarios.email)) AS cantidad_pedidos").
		Order("apellido ASC, nombre ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&clientes).Error
	return clientes, total, err
}

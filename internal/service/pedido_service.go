package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const prefijoPedido = "ORD-"

// BorradorPedido carries everything an order needs except the fields the
// store assigns itself: id, fecha and estado.
type BorradorPedido struct {
	Cliente    dto.ClienteDTO       `json:"cliente"`
	Items      []BorradorPedidoItem `json:"items"`
	Total      decimal.Decimal      `json:"total"`
	MetodoPago string               `json:"metodo_pago"`
}

type BorradorPedidoItem struct {
	NombreProducto string          `json:"nombre_producto"`
	Cantidad       int             `json:"cantidad"`
	Precio         decimal.Decimal `json:"precio"`
}

// ComprobanteNotifier is told about every committed order so a receipt can
// be produced out of band.
type ComprobanteNotifier interface {
	EncolarComprobante(ctx context.Context, pedidoID string) error
}

type PedidoService interface {
	Crear(ctx context.Context, b BorradorPedido) (*model.Pedido, error)
	// ReservarID draws the next order number without creating the order.
	ReservarID(ctx context.Context) (string, error)
	CrearConID(ctx context.Context, id string, b BorradorPedido) (*model.Pedido, error)
	BuscarPorID(ctx context.Context, id string) (*model.Pedido, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	ActualizarEstado(ctx context.Context, id, estado string) (*model.Pedido, error)
	ActualizarSeguimiento(ctx context.Context, id, numero string) (*model.Pedido, error)
	Eliminar(ctx context.Context, id string) error
	Historial(ctx context.Context, id string) ([]dto.HistorialEstadoResponse, error)
}

type pedidoService struct {
	repo     repository.PedidoRepository
	notifier ComprobanteNotifier
	now      func() time.Time
}

func NewPedidoService(repo repository.PedidoRepository, notifier ComprobanteNotifier) PedidoService {
	return &pedidoService{repo: repo, notifier: notifier, now: time.Now}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func formatPedidoID(n int64) string { return fmt.Sprintf("%s%d", prefijoPedido, n) }

func (s *pedidoService) Crear(ctx context.Context, b BorradorPedido) (*model.Pedido, error) {
	if err := validarBorrador(b); err != nil {
		return nil, err
	}
	var p *model.Pedido
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		p = s.nuevoPedido(formatPedidoID(n), b)
		return s.insertar(ctx, tx, p)
	})
	if err != nil {
		return nil, storageErr("no se pudo registrar el pedido", err)
	}
	s.notificar(ctx, p)
	return p, nil
}

func (s *pedidoService) ReservarID(ctx context.Context) (string, error) {
	var n int64
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		n, err = s.repo.NextNumero(ctx, tx)
		return err
	})
	if err != nil {
		return "", storageErr("no se pudo reservar el numero de pedido", err)
	}
	return formatPedidoID(n), nil
}

func (s *pedidoService) CrearConID(ctx context.Context, id string, b BorradorPedido) (*model.Pedido, error) {
	if !strings.HasPrefix(id, prefijoPedido) {
		return nil, validationf("Identificador de pedido invalido")
	}
	if err := validarBorrador(b); err != nil {
		return nil, err
	}
	p := s.nuevoPedido(id, b)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.insertar(ctx, tx, p)
	})
	if err != nil {
		return nil, storageErr("no se pudo registrar el pedido", err)
	}
	s.notificar(ctx, p)
	return p, nil
}

func (s *pedidoService) nuevoPedido(id string, b BorradorPedido) *model.Pedido {
	items := make([]model.PedidoItem, len(b.Items))
	for i, it := range b.Items {
		items[i] = model.PedidoItem{
			PedidoID:       id,
			NombreProducto: it.NombreProducto,
			Cantidad:       it.Cantidad,
			Precio:         it.Precio,
			Posicion:       i,
		}
	}
	return &model.Pedido{
		ID:               id,
		ClienteNombre:    b.Cliente.Nombre,
		ClienteApellido:  b.Cliente.Apellido,
		ClienteEmail:     b.Cliente.Email,
		ClienteTelefono:  b.Cliente.Telefono,
		ClienteDireccion: b.Cliente.Direccion,
		ClienteDNI:       b.Cliente.DNI,
		Fecha:            s.now(),
		Total:            b.Total,
		Estado:           model.EstadoPendiente,
		MetodoPago:       b.MetodoPago,
		Items:            items,
	}
}

func (s *pedidoService) insertar(ctx context.Context, tx *gorm.DB, p *model.Pedido) error {
	if err := s.repo.Create(ctx, tx, p); err != nil {
		return err
	}
	return s.repo.AppendHistorial(ctx, tx, &model.PedidoEstadoHistorial{
		PedidoID:  p.ID,
		Estado:    p.Estado,
		CreatedAt: p.Fecha,
	})
}

func (s *pedidoService) notificar(ctx context.Context, p *model.Pedido) {
	log.Info().
		Str("pedido_id", p.ID).
		Str("metodo_pago", p.MetodoPago).
		Str("total", p.Total.StringFixed(2)).
		Msg("pedido: created")
	if s.notifier == nil {
		return
	}
	if err := s.notifier.EncolarComprobante(ctx, p.ID); err != nil {
		log.Warn().Err(err).Str("pedido_id", p.ID).Msg("pedido: failed to enqueue receipt")
	}
}

func (s *pedidoService) BuscarPorID(ctx context.Context, id string) (*model.Pedido, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, notFoundf("Pedido no encontrado")
	}
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("Pedido %s no encontrado", id)
	}
	if err != nil {
		return nil, storageErr("no se pudo leer el pedido", err)
	}
	return p, nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storageErr("no se pudieron listar los pedidos", err)
	}
	data := make([]dto.PedidoResponse, len(pedidos))
	for i := range pedidos {
		data[i] = PedidoToResponse(&pedidos[i])
	}
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return &dto.PedidoListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ActualizarEstado sets the status unconditionally. Any non-empty value is
// accepted; the vocabulary is enforced by callers that need it. Setting the
// current status again changes nothing and writes no history.
func (s *pedidoService) ActualizarEstado(ctx context.Context, id, estado string) (*model.Pedido, error) {
	estado = strings.TrimSpace(estado)
	if estado == "" {
		return nil, validationf("El estado no puede estar vacío")
	}
	p, err := s.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Estado == estado {
		return p, nil
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstado(ctx, tx, p.ID, estado); err != nil {
			return err
		}
		return s.repo.AppendHistorial(ctx, tx, &model.PedidoEstadoHistorial{
			PedidoID:  p.ID,
			Estado:    estado,
			CreatedAt: s.now(),
		})
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("Pedido %s no encontrado", id)
	}
	if err != nil {
		return nil, storageErr("no se pudo actualizar el estado", err)
	}
	log.Info().Str("pedido_id", p.ID).Str("de", p.Estado).Str("a", estado).Msg("pedido: status changed")
	p.Estado = estado
	return p, nil
}

// ActualizarSeguimiento stores the carrier number; an empty value clears it.
func (s *pedidoService) ActualizarSeguimiento(ctx context.Context, id, numero string) (*model.Pedido, error) {
	p, err := s.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	numero = strings.TrimSpace(numero)
	if err := s.repo.UpdateSeguimiento(ctx, p.ID, numero); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("Pedido %s no encontrado", id)
		}
		return nil, storageErr("no se pudo actualizar el seguimiento", err)
	}
	p.NumeroSeguimiento = numero
	return p, nil
}

func (s *pedidoService) Eliminar(ctx context.Context, id string) error {
	p, err := s.BuscarPorID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("Pedido %s no encontrado", id)
		}
		return storageErr("no se pudo eliminar el pedido", err)
	}
	log.Info().Str("pedido_id", p.ID).Msg("pedido: deleted")
	return nil
}

func (s *pedidoService) Historial(ctx context.Context, id string) ([]dto.HistorialEstadoResponse, error) {
	p, err := s.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	hist, err := s.repo.ListHistorial(ctx, p.ID)
	if err != nil {
		return nil, storageErr("no se pudo leer el historial", err)
	}
	resp := make([]dto.HistorialEstadoResponse, len(hist))
	for i, h := range hist {
		resp[i] = dto.HistorialEstadoResponse{Estado: h.Estado, Fecha: h.CreatedAt}
	}
	return resp, nil
}

func validarBorrador(b BorradorPedido) error {
	if len(b.Items) == 0 {
		return ErrCarritoVacio
	}
	for _, it := range b.Items {
		if it.Cantidad <= 0 {
			return validationf("La cantidad de %q debe ser mayor a cero", it.NombreProducto)
		}
		if it.Precio.IsNegative() {
			return validationf("El precio de %q no puede ser negativo", it.NombreProducto)
		}
	}
	if b.Total.IsNegative() {
		return validationf("El total no puede ser negativo")
	}
	if strings.TrimSpace(b.Cliente.Nombre) == "" || strings.TrimSpace(b.Cliente.Email) == "" {
		return validationf("Faltan los datos del cliente")
	}
	return nil
}

// PedidoToResponse maps an order to its JSON shape.
func PedidoToResponse(p *model.Pedido) dto.PedidoResponse {
	items := make([]dto.PedidoItemResponse, len(p.Items))
	for i, it := range p.Items {
		items[i] = dto.PedidoItemResponse{NombreProducto: it.NombreProducto, Cantidad: it.Cantidad, Precio: it.Precio}
	}
	return dto.PedidoResponse{
		ID: p.ID,
		Cliente: dto.ClienteDTO{
			Nombre:    p.ClienteNombre,
			Apellido:  p.ClienteApellido,
			Email:     p.ClienteEmail,
			Telefono:  p.ClienteTelefono,
			Direccion: p.ClienteDireccion,
			DNI:       p.ClienteDNI,
		},
		Fecha:             p.Fecha,
		Items:             items,
		Total:             p.Total,
		Estado:            p.Estado,
		NumeroSeguimiento: p.NumeroSeguimiento,
		MetodoPago:        p.MetodoPago,
	}
}

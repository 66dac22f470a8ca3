package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/infra"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/repository"
	"github.com/arielalcuri/doslidias/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── stubPedidoRepo ────────────────────────────────────────────────────────────

type stubPedidoRepo struct {
	mu        sync.Mutex
	pedidos   map[string]*model.Pedido
	historial []model.PedidoEstadoHistorial
	seq       int64
	createErr error
}

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[string]*model.Pedido), seq: 999}
}

func (r *stubPedidoRepo) NextNumero(_ context.Context, _ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *stubPedidoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.pedidos[p.ID]; ok {
		return errors.New("duplicate key value violates unique constraint \"pedidos_pkey\"")
	}
	cp := *p
	cp.Items = append([]model.PedidoItem(nil), p.Items...)
	r.pedidos[p.ID] = &cp
	return nil
}

func (r *stubPedidoRepo) AppendHistorial(_ context.Context, _ *gorm.DB, h *model.PedidoEstadoHistorial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.historial = append(r.historial, *h)
	return nil
}

func (r *stubPedidoRepo) find(id string) *model.Pedido {
	for k, p := range r.pedidos {
		if strings.EqualFold(k, id) {
			return p
		}
	}
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id string) (*model.Pedido, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Pedido
	for _, p := range r.pedidos {
		if filter.Estado != "" && p.Estado != filter.Estado {
			continue
		}
		if q := strings.ToLower(strings.TrimSpace(filter.Q)); q != "" &&
			!strings.Contains(strings.ToLower(p.ID+" "+p.ClienteNombre+" "+p.ClienteApellido+" "+p.ClienteEmail), q) &&
			!strings.Contains(p.ClienteDNI, q) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) UpdateEstado(_ context.Context, _ *gorm.DB, id, estado string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return gorm.ErrRecordNotFound
	}
	p.Estado = estado
	return nil
}

func (r *stubPedidoRepo) UpdateSeguimiento(_ context.Context, id, numero string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return gorm.ErrRecordNotFound
	}
	p.NumeroSeguimiento = numero
	return nil
}

func (r *stubPedidoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.find(id)
	if p == nil {
		return gorm.ErrRecordNotFound
	}
	delete(r.pedidos, p.ID)
	return nil
}

func (r *stubPedidoRepo) ListHistorial(_ context.Context, id string) ([]model.PedidoEstadoHistorial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PedidoEstadoHistorial
	for _, h := range r.historial {
		if strings.EqualFold(h.PedidoID, id) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

func (r *stubPedidoRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pedidos)
}

// ── stubConfiguracionRepo ─────────────────────────────────────────────────────

type stubConfiguracionRepo struct {
	cfg     *model.Configuracion
	saveErr error
	saves   int
}

var _ repository.ConfiguracionRepository = (*stubConfiguracionRepo)(nil)

func (r *stubConfiguracionRepo) Get(_ context.Context) (*model.Configuracion, error) {
	if r.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	c := r.cfg.Clone()
	return &c, nil
}

func (r *stubConfiguracionRepo) Save(_ context.Context, cfg *model.Configuracion) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	c := cfg.Clone()
	r.cfg = &c
	r.saves++
	return nil
}

// newConfigService returns a loaded settings service over cfg.
func newConfigService(cfg model.Configuracion) service.ConfiguracionService {
	svc := service.NewConfiguracionService(&stubConfiguracionRepo{cfg: &cfg})
	if err := svc.Cargar(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

// ── stubProductoRepo ──────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]model.Producto
	err       error
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func newStubProductoRepo(ps ...model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[uuid.UUID]model.Producto)}
	for _, p := range ps {
		r.productos[p.ID] = p
	}
	return r
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if r.err != nil {
		return r.err
	}
	r.productos[p.ID] = *p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *stubProductoRepo) List(_ context.Context) ([]model.Producto, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.productos[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.productos[p.ID] = *p
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.productos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.productos, id)
	return nil
}

// ── stubCarritoRepo ───────────────────────────────────────────────────────────

type stubCarritoRepo struct {
	mu       sync.Mutex
	carritos map[string]model.Carrito
}

var _ repository.CarritoRepository = (*stubCarritoRepo)(nil)

func newStubCarritoRepo() *stubCarritoRepo {
	return &stubCarritoRepo{carritos: make(map[string]model.Carrito)}
}

func (r *stubCarritoRepo) Get(_ context.Context, id string) (*model.Carrito, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carritos[id]
	if !ok {
		return nil, repository.ErrCarritoNoEncontrado
	}
	c.Items = append([]model.CarritoItem(nil), c.Items...)
	return &c, nil
}

func (r *stubCarritoRepo) Save(_ context.Context, c *model.Carrito) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	cp.Items = append([]model.CarritoItem(nil), c.Items...)
	r.carritos[c.ID] = cp
	return nil
}

func (r *stubCarritoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carritos, id)
	return nil
}

func (r *stubCarritoRepo) put(id string, items ...model.CarritoItem) {
	r.carritos[id] = model.Carrito{ID: id, Items: items, Actualizado: time.Now()}
}

// ── stubUsuarioRepo ───────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	users   map[uuid.UUID]*model.Usuario
	pedidos map[string]int64 // order count by lowercased email
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) ListClientes(_ context.Context, filter dto.ClienteFilter) ([]repository.ClienteConPedidos, int64, error) {
	q := strings.ToLower(strings.TrimSpace(filter.Q))
	var out []repository.ClienteConPedidos
	for _, u := range r.users {
		if u.Rol != model.RolCliente {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.Nombre+" "+u.Apellido+" "+u.Email), q) &&
			!strings.Contains(u.NumeroDocumento, q) {
			continue
		}
		out = append(out, repository.ClienteConPedidos{Usuario: *u, CantidadPedidos: r.pedidos[strings.ToLower(u.Email)]})
	}
	return out, int64(len(out)), nil
}

// ── stubIntentoRepo ───────────────────────────────────────────────────────────

type stubIntentoRepo struct {
	mu       sync.Mutex
	intentos map[string]*model.IntentoPago
	limite   time.Time
}

var _ repository.IntentoPagoRepository = (*stubIntentoRepo)(nil)

func newStubIntentoRepo() *stubIntentoRepo {
	return &stubIntentoRepo{intentos: make(map[string]*model.IntentoPago)}
}

func (r *stubIntentoRepo) Create(_ context.Context, i *model.IntentoPago) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	cp := *i
	r.intentos[i.Referencia] = &cp
	return nil
}

func (r *stubIntentoRepo) FindByReferencia(_ context.Context, referencia string) (*model.IntentoPago, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.intentos[referencia]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *stubIntentoRepo) byID(id uuid.UUID) *model.IntentoPago {
	for _, i := range r.intentos {
		if i.ID == id {
			return i
		}
	}
	return nil
}

func (r *stubIntentoRepo) MarcarFinalizado(_ context.Context, id uuid.UUID, pedidoID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.byID(id)
	if i == nil || i.Estado != model.IntentoPendiente {
		return false, nil
	}
	i.Estado = model.IntentoFinalizado
	i.PedidoID = &pedidoID
	return true, nil
}

func (r *stubIntentoRepo) MarcarRechazado(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.byID(id); i != nil && i.Estado == model.IntentoPendiente {
		i.Estado = model.IntentoRechazado
	}
	return nil
}

func (r *stubIntentoRepo) ExpirarPendientes(_ context.Context, limite time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limite = limite
	var n int64
	for _, i := range r.intentos {
		if i.Estado == model.IntentoPendiente && i.CreatedAt.Before(limite) {
			i.Estado = model.IntentoExpirado
			n++
		}
	}
	return n, nil
}

func (r *stubIntentoRepo) get(referencia string) model.IntentoPago {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.intentos[referencia]
}

// ── Adapters ──────────────────────────────────────────────────────────────────

type stubGateway struct {
	last *infra.PreferenceRequest
	err  error
}

var _ service.PaymentGateway = (*stubGateway)(nil)

func (g *stubGateway) CrearPreferencia(_ context.Context, req infra.PreferenceRequest) (*infra.Preference, error) {
	g.last = &req
	if g.err != nil {
		return nil, g.err
	}
	return &infra.Preference{ID: "pref-" + req.OrderID, InitPoint: "https://mp.test/checkout/" + req.OrderID}, nil
}

type stubLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

var _ service.CheckoutLocker = (*stubLocker)(nil)

func newStubLocker() *stubLocker { return &stubLocker{held: make(map[string]bool)} }

func (l *stubLocker) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *stubLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

func (l *stubLocker) isHeld(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held[key]
}

type stubNotifier struct {
	mu  sync.Mutex
	ids []string
}

var _ service.ComprobanteNotifier = (*stubNotifier)(nil)

func (n *stubNotifier) EncolarComprobante(_ context.Context, pedidoID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, pedidoID)
	return nil
}

type stubImageStore struct {
	deleted []string
}

var _ service.ImageStore = (*stubImageStore)(nil)

func (s *stubImageStore) Upload(_ context.Context, filename, _ string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	return service.PrefijoImagenes + filename, nil
}

func (s *stubImageStore) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://bucket.test/" + key + "?sig=1", nil
}

func (s *stubImageStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

// ── stubGaleriaRepo ───────────────────────────────────────────────────────────

type stubGaleriaRepo struct {
	imgs      []model.GaleriaImagen
	createErr error
}

var _ repository.GaleriaRepository = (*stubGaleriaRepo)(nil)

func (r *stubGaleriaRepo) Create(_ context.Context, img *model.GaleriaImagen) error {
	if r.createErr != nil {
		return r.createErr
	}
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	r.imgs = append(r.imgs, *img)
	return nil
}

func (r *stubGaleriaRepo) List(context.Context) ([]model.GaleriaImagen, error) {
	return append([]model.GaleriaImagen(nil), r.imgs...), nil
}

func (r *stubGaleriaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.GaleriaImagen, error) {
	for i := range r.imgs {
		if r.imgs[i].ID == id {
			img := r.imgs[i]
			return &img, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubGaleriaRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.imgs {
		if r.imgs[i].ID == id {
			r.imgs = append(r.imgs[:i], r.imgs[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

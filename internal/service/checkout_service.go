package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/arielalcuri/doslidias/internal/dto"
	"github.com/arielalcuri/doslidias/internal/infra"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/pricing"
	"github.com/arielalcuri/doslidias/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Placeholder customer data for guest checkouts.
const (
	invitadoNombre   = "Invitado"
	invitadoApellido = "Invitado"
	invitadoEmail    = "invitado@ejemplo.com"
	sinDato          = "S/D"
)

// Payment return statuses.
const (
	RetornoSuccess = "success"
	RetornoFailure = "failure"
	RetornoPending = "pending"
)

// PaymentGateway creates hosted-checkout preferences.
type PaymentGateway interface {
	CrearPreferencia(ctx context.Context, req infra.PreferenceRequest) (*infra.Preference, error)
}

// CheckoutLocker guards a cart against concurrent submits.
type CheckoutLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Comprador identifies who is checking out. UsuarioID is nil for guests.
type Comprador struct {
	UsuarioID *uuid.UUID
	Datos     dto.DatosClienteRequest
}

// RetornoPago holds the query parameters the buyer brings back from the
// payment provider.
type RetornoPago struct {
	Status     string
	Referencia string
	Token      string
}

type CheckoutOptions struct {
	PublicURL      string
	LockTTL        time.Duration
	MayoristaDelay time.Duration
	IntentoTTL     time.Duration
}

type CheckoutService interface {
	Cotizar(ctx context.Context, carritoID, metodo string) (*dto.CotizacionResponse, error)
	ConfirmarTransferencia(ctx context.Context, carritoID string, c Comprador) (*dto.PedidoResponse, error)
	ConfirmarMayorista(ctx context.Context, carritoID string, c Comprador) (*dto.PedidoResponse, error)
	IniciarPagoTarjeta(ctx context.Context, carritoID string, c Comprador) (*dto.PagoTarjetaResponse, error)
	FinalizarPagoTarjeta(ctx context.Context, r RetornoPago) (*dto.RetornoPagoResponse, error)
	Cancelar(ctx context.Context, carritoID string) error
	// ExpirarIntentos marks card attempts older than the configured TTL as expired.
	ExpirarIntentos(ctx context.Context) (int64, error)
}

type checkoutService struct {
	carritos repository.CarritoRepository
	usuarios repository.UsuarioRepository
	intentos repository.IntentoPagoRepository
	config   ConfiguracionService
	pedidos  PedidoService
	gateway  PaymentGateway
	locker   CheckoutLocker
	opts     CheckoutOptions

	sleep    func(ctx context.Context, d time.Duration) error
	newToken func() string
	now      func() time.Time
}

func NewCheckoutService(
	carritos repository.CarritoRepository,
	usuarios repository.UsuarioRepository,
	intentos repository.IntentoPagoRepository,
	config ConfiguracionService,
	pedidos PedidoService,
	gateway PaymentGateway,
	locker CheckoutLocker,
	opts CheckoutOptions,
) CheckoutService {
	if opts.LockTTL <= 0 {
		opts.LockTTL = time.Minute
	}
	if opts.IntentoTTL <= 0 {
		opts.IntentoTTL = 24 * time.Hour
	}
	return &checkoutService{
		carritos: carritos,
		usuarios: usuarios,
		intentos: intentos,
		config:   config,
		pedidos:  pedidos,
		gateway:  gateway,
		locker:   locker,
		opts:     opts,
		sleep:    sleepCtx,
		newToken: uuid.NewString,
		now:      time.Now,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *checkoutService) Cotizar(ctx context.Context, carritoID, metodo string) (*dto.CotizacionResponse, error) {
	if !metodoValido(metodo) {
		return nil, validationf("Metodo de pago %q no soportado", metodo)
	}
	c, err := s.carrito(ctx, carritoID)
	if err != nil {
		return nil, err
	}
	cfg := s.config.Get()
	q := pricing.Cotizar(c.Items, metodo, cfg)
	resp := &dto.CotizacionResponse{
		Metodo:       metodo,
		Subtotal:     q.Subtotal,
		DescuentoPct: q.DescuentoPct,
		Descuento:    q.Descuento,
		Total:        q.Total,
	}
	if metodo == model.MetodoTransferencia {
		resp.DatosBancarios = &dto.DatosBancarios{
			Banco:   cfg.BancoNombre,
			Titular: cfg.BancoTitular,
			CBU:     cfg.BancoCBU,
			Alias:   cfg.BancoAlias,
		}
	}
	return resp, nil
}

func (s *checkoutService) ConfirmarTransferencia(ctx context.Context, carritoID string, c Comprador) (*dto.PedidoResponse, error) {
	return s.confirmar(ctx, carritoID, c, model.MetodoTransferencia, 0)
}

// ConfirmarMayorista is only open to signed-in customers and simulates the
// wholesale processing time before recording the order at list price.
func (s *checkoutService) ConfirmarMayorista(ctx context.Context, carritoID string, c Comprador) (*dto.PedidoResponse, error) {
	if c.UsuarioID == nil {
		return nil, ErrAutenticacionRequerida
	}
	return s.confirmar(ctx, carritoID, c, model.MetodoMayorista, s.opts.MayoristaDelay)
}

func (s *checkoutService) confirmar(ctx context.Context, carritoID string, c Comprador, metodo string, delay time.Duration) (*dto.PedidoResponse, error) {
	if s.config.ModoVacaciones() {
		return nil, ErrModoVacaciones
	}
	if err := s.lock(ctx, carritoID); err != nil {
		return nil, err
	}
	defer s.unlock(carritoID)

	// The cart is read under the lock so a submit that waited on another
	// one sees the cart that submit left behind.
	carrito, cliente, err := s.preparar(ctx, carritoID, c)
	if err != nil {
		return nil, err
	}
	if err := s.sleep(ctx, delay); err != nil {
		return nil, err
	}

	p, err := s.pedidos.Crear(ctx, borrador(carrito, cliente, metodo, s.config.Get()))
	if err != nil {
		return nil, err
	}
	s.vaciar(ctx, carritoID)
	resp := PedidoToResponse(p)
	return &resp, nil
}

// IniciarPagoTarjeta reserves an order number and opens a MercadoPago
// checkout for it. The order itself is only written when the buyer returns
// with a successful status. The cart lock stays held until then, or until
// Cancelar or the lock TTL.
func (s *checkoutService) IniciarPagoTarjeta(ctx context.Context, carritoID string, c Comprador) (*dto.PagoTarjetaResponse, error) {
	if s.config.ModoVacaciones() {
		return nil, ErrModoVacaciones
	}
	if err := s.lock(ctx, carritoID); err != nil {
		return nil, err
	}

	carrito, cliente, err := s.preparar(ctx, carritoID, c)
	if err != nil {
		s.unlock(carritoID)
		return nil, err
	}
	resp, err := s.iniciar(ctx, carrito, cliente)
	if err != nil {
		s.unlock(carritoID)
		return nil, err
	}
	return resp, nil
}

func (s *checkoutService) iniciar(ctx context.Context, carrito *model.Carrito, cliente dto.ClienteDTO) (*dto.PagoTarjetaResponse, error) {
	cfg := s.config.Get()
	b := borrador(carrito, cliente, model.MetodoMercadoPago, cfg)

	referencia, err := s.pedidos.ReservarID(ctx)
	if err != nil {
		return nil, err
	}
	token := s.newToken()

	items := make([]infra.PreferenceItem, len(carrito.Items))
	for i, it := range carrito.Items {
		items[i] = infra.PreferenceItem{
			Title:     it.Nombre,
			Quantity:  it.Cantidad,
			UnitPrice: pricing.DiscountedUnitPrice(it.PrecioUnitario, model.MetodoMercadoPago, cfg),
		}
	}
	pref, err := s.gateway.CrearPreferencia(ctx, infra.PreferenceRequest{
		OrderID:   referencia,
		Token:     token,
		Items:     items,
		ReturnURL: strings.TrimRight(s.opts.PublicURL, "/") + "/checkout/retorno",
	})
	if err != nil {
		log.Error().Err(err).Str("referencia", referencia).Msg("checkout: payment preference failed")
		return nil, externalErr("No se pudo iniciar el pago con MercadoPago", err)
	}

	raw, err := json.Marshal(b)
	if err != nil {
		return nil, storageErr("no se pudo registrar el intento de pago", err)
	}
	intento := &model.IntentoPago{
		Referencia: referencia,
		Token:      token,
		CarritoID:  carrito.ID,
		Borrador:   string(raw),
		Total:      b.Total,
		InitPoint:  pref.InitPoint,
		Estado:     model.IntentoPendiente,
	}
	if err := s.intentos.Create(ctx, intento); err != nil {
		return nil, storageErr("no se pudo registrar el intento de pago", err)
	}
	log.Info().Str("referencia", referencia).Str("carrito_id", carrito.ID).Msg("checkout: card payment started")
	return &dto.PagoTarjetaResponse{Referencia: referencia, InitPoint: pref.InitPoint}, nil
}

// FinalizarPagoTarjeta handles the buyer's return from MercadoPago. Only a
// success status with the token issued for that reference creates the order,
// and it does so at most once.
func (s *checkoutService) FinalizarPagoTarjeta(ctx context.Context, r RetornoPago) (*dto.RetornoPagoResponse, error) {
	status := normalizarStatus(r.Status)
	if status == "" {
		return nil, validationf("Estado de pago %q desconocido", r.Status)
	}
	referencia := strings.TrimSpace(r.Referencia)
	if referencia == "" {
		return nil, validationf("Falta la referencia del pedido")
	}

	intento, err := s.intentos.FindByReferencia(ctx, referencia)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("Pago %s no encontrado", referencia)
	}
	if err != nil {
		return nil, storageErr("no se pudo leer el intento de pago", err)
	}

	// Every outcome needs the token: references are sequential, so a bare
	// reference must not be enough to reject someone else's payment.
	if subtle.ConstantTimeCompare([]byte(r.Token), []byte(intento.Token)) != 1 {
		log.Warn().Str("referencia", intento.Referencia).Str("status", status).Msg("checkout: token mismatch on payment return")
		return nil, validationf("Token de pago invalido")
	}

	switch status {
	case RetornoPending:
		return &dto.RetornoPagoResponse{Estado: status}, nil
	case RetornoFailure:
		if err := s.intentos.MarcarRechazado(ctx, intento.ID); err != nil {
			return nil, storageErr("no se pudo actualizar el intento de pago", err)
		}
		s.unlock(intento.CarritoID)
		log.Info().Str("referencia", intento.Referencia).Msg("checkout: card payment failed")
		return &dto.RetornoPagoResponse{Estado: status}, nil
	}

	switch intento.Estado {
	case model.IntentoFinalizado:
		return s.pedidoExistente(ctx, intento)
	case model.IntentoPendiente:
	default:
		return nil, &Error{Kind: KindConflict, Msg: "El intento de pago ya no es valido"}
	}

	var b BorradorPedido
	if err := json.Unmarshal([]byte(intento.Borrador), &b); err != nil {
		return nil, storageErr("intento de pago corrupto", err)
	}

	p, err := s.pedidos.CrearConID(ctx, intento.Referencia, b)
	if err != nil {
		// A concurrent return may have written the order first. Anything
		// else under this number is not ours to hand back.
		existente, findErr := s.pedidos.BuscarPorID(ctx, intento.Referencia)
		if findErr != nil {
			return nil, err
		}
		if !coincideConBorrador(existente, b) {
			log.Error().Str("referencia", intento.Referencia).Msg("checkout: order number already used by another order")
			return nil, storageErr("el numero de pedido reservado ya esta en uso", err)
		}
		p = existente
	}
	if _, err := s.intentos.MarcarFinalizado(ctx, intento.ID, p.ID); err != nil {
		log.Error().Err(err).Str("referencia", intento.Referencia).Msg("checkout: failed to mark payment attempt finished")
	}
	s.vaciar(ctx, intento.CarritoID)
	s.unlock(intento.CarritoID)

	resp := PedidoToResponse(p)
	return &dto.RetornoPagoResponse{Estado: status, Pedido: &resp}, nil
}

func (s *checkoutService) pedidoExistente(ctx context.Context, intento *model.IntentoPago) (*dto.RetornoPagoResponse, error) {
	id := intento.Referencia
	if intento.PedidoID != nil {
		id = *intento.PedidoID
	}
	p, err := s.pedidos.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := PedidoToResponse(p)
	return &dto.RetornoPagoResponse{Estado: RetornoSuccess, Pedido: &resp}, nil
}

func (s *checkoutService) Cancelar(ctx context.Context, carritoID string) error {
	if err := s.locker.Release(ctx, carritoID); err != nil {
		return storageErr("no se pudo cancelar el checkout", err)
	}
	return nil
}

func (s *checkoutService) ExpirarIntentos(ctx context.Context) (int64, error) {
	n, err := s.intentos.ExpirarPendientes(ctx, s.now().Add(-s.opts.IntentoTTL))
	if err != nil {
		return 0, storageErr("no se pudieron expirar los intentos de pago", err)
	}
	return n, nil
}

// coincideConBorrador reports whether p is the order a card attempt with
// draft b would have written.
func coincideConBorrador(p *model.Pedido, b BorradorPedido) bool {
	return p.MetodoPago == model.MetodoMercadoPago &&
		strings.EqualFold(p.ClienteEmail, b.Cliente.Email) &&
		p.Total.Equal(b.Total)
}

// preparar loads the cart and the customer snapshot for a submit. Callers
// hold the cart lock.
func (s *checkoutService) preparar(ctx context.Context, carritoID string, c Comprador) (*model.Carrito, dto.ClienteDTO, error) {
	carrito, err := s.carrito(ctx, carritoID)
	if err != nil {
		return nil, dto.ClienteDTO{}, err
	}
	if len(carrito.Items) == 0 {
		return nil, dto.ClienteDTO{}, ErrCarritoVacio
	}
	cliente, err := s.cliente(ctx, c)
	if err != nil {
		return nil, dto.ClienteDTO{}, err
	}
	return carrito, cliente, nil
}

func (s *checkoutService) carrito(ctx context.Context, id string) (*model.Carrito, error) {
	c, err := s.carritos.Get(ctx, id)
	if errors.Is(err, repository.ErrCarritoNoEncontrado) {
		return nil, notFoundf("Carrito no encontrado")
	}
	if err != nil {
		return nil, storageErr("no se pudo leer el carrito", err)
	}
	return c, nil
}

// cliente builds the order's customer snapshot. A signed-in customer's
// profile wins; blanks fall back to what the form sent and then to the
// guest placeholders.
func (s *checkoutService) cliente(ctx context.Context, c Comprador) (dto.ClienteDTO, error) {
	d := c.Datos
	out := dto.ClienteDTO{
		Nombre:    primero(d.Nombre, invitadoNombre),
		Apellido:  primero(d.Apellido, invitadoApellido),
		Email:     primero(d.Email, invitadoEmail),
		Telefono:  primero(d.Telefono, sinDato),
		Direccion: primero(d.Direccion, sinDato),
		DNI:       primero(d.DNI, sinDato),
	}
	if c.UsuarioID == nil {
		return out, nil
	}
	u, err := s.usuarios.FindByID(ctx, *c.UsuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ClienteDTO{}, ErrAutenticacionRequerida
	}
	if err != nil {
		return dto.ClienteDTO{}, storageErr("no se pudo leer el usuario", err)
	}
	out.Nombre = primero(u.Nombre, out.Nombre)
	out.Apellido = primero(u.Apellido, out.Apellido)
	out.Email = primero(u.Email, out.Email)
	out.Telefono = primero(u.Telefono, out.Telefono)
	out.Direccion = primero(u.Direccion, out.Direccion)
	out.DNI = primero(u.NumeroDocumento, out.DNI)
	return out, nil
}

func (s *checkoutService) lock(ctx context.Context, carritoID string) error {
	ok, err := s.locker.Acquire(ctx, carritoID, s.opts.LockTTL)
	if err != nil {
		return storageErr("no se pudo bloquear el carrito", err)
	}
	if !ok {
		return ErrCheckoutEnCurso
	}
	return nil
}

// unlock uses a fresh context so a cancelled request still frees the cart.
func (s *checkoutService) unlock(carritoID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.locker.Release(ctx, carritoID); err != nil {
		log.Warn().Err(err).Str("carrito_id", carritoID).Msg("checkout: failed to release cart lock")
	}
}

func (s *checkoutService) vaciar(ctx context.Context, carritoID string) {
	if err := s.carritos.Delete(ctx, carritoID); err != nil {
		log.Warn().Err(err).Str("carrito_id", carritoID).Msg("checkout: failed to clear cart")
	}
}

// borrador snapshots the cart into an order draft. Lines keep the list unit
// price; only the total carries the payment-method discount.
func borrador(c *model.Carrito, cliente dto.ClienteDTO, metodo string, cfg model.Configuracion) BorradorPedido {
	items := make([]BorradorPedidoItem, len(c.Items))
	for i, it := range c.Items {
		items[i] = BorradorPedidoItem{
			NombreProducto: it.Nombre,
			Cantidad:       it.Cantidad,
			Precio:         it.PrecioUnitario,
		}
	}
	return BorradorPedido{
		Cliente:    cliente,
		Items:      items,
		Total:      pricing.ApplyDiscount(pricing.Subtotal(c.Items), metodo, cfg),
		MetodoPago: metodo,
	}
}

func metodoValido(m string) bool {
	switch m {
	case model.MetodoMercadoPago, model.MetodoTransferencia, model.MetodoMayorista:
		return true
	}
	return false
}

// normalizarStatus maps provider statuses onto success, failure and pending.
func normalizarStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success", "approved":
		return RetornoSuccess
	case "failure", "rejected", "cancelled", "null":
		return RetornoFailure
	case "pending", "in_process":
		return RetornoPending
	}
	return ""
}

func primero(v, fallback string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return fallback
}

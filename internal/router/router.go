package router

import (
	"time"

	"github.com/arielalcuri/doslidias/internal/config"
	"github.com/arielalcuri/doslidias/internal/handler"
	"github.com/arielalcuri/doslidias/internal/infra"
	"github.com/arielalcuri/doslidias/internal/middleware"
	"github.com/arielalcuri/doslidias/internal/model"
	"github.com/arielalcuri/doslidias/internal/repository"
	"github.com/arielalcuri/doslidias/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the wired service layer, shared by the HTTP router and the
// background workers.
type Services struct {
	Auth          service.AuthService
	Catalogo      service.CatalogoService
	Configuracion service.ConfiguracionService
	Pedidos       service.PedidoService
	Seguimiento   service.SeguimientoService
	Carrito       service.CarritoService
	Checkout      service.CheckoutService
	Clientes      service.ClienteService
	Galeria       service.GaleriaService

	PedidoRepo repository.PedidoRepository
}

// Infra carries the external adapters the services need. Images and
// GaleriaImages may be nil when no bucket is configured; Notifier may be nil
// to skip receipts.
type Infra struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Gateway       service.PaymentGateway
	Locker        service.CheckoutLocker
	Images        service.ImageStore
	GaleriaImages service.ImageStore
	Notifier      service.ComprobanteNotifier
}

// NewServices wires repositories into services.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func NewServices(cfg *config.Config, in Infra) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(in.DB)
	productoRepo := repository.NewProductoRepository(in.DB)
	configuracionRepo := repository.NewConfiguracionRepository(in.DB)
	pedidoRepo := repository.NewPedidoRepository(in.DB)
	intentoRepo := repository.NewIntentoPagoRepository(in.DB)
	galeriaRepo := repository.NewGaleriaRepository(in.DB)
	carritoRepo := repository.NewCarritoRepository(in.Redis, cfg.CarritoTTL)

	// ── Services ─────────────────────────────────────────────────────────────
	configSvc := service.NewConfiguracionService(configuracionRepo)
	catalogoSvc := service.NewCatalogoService(productoRepo, in.Images)
	pedidoSvc := service.NewPedidoService(pedidoRepo, in.Notifier)

	return &Services{
		Auth:          service.NewAuthService(usuarioRepo, cfg),
		Catalogo:      catalogoSvc,
		Configuracion: configSvc,
		Pedidos:       pedidoSvc,
		Seguimiento:   service.NewSeguimientoService(pedidoSvc, configSvc),
		Carrito:       service.NewCarritoService(carritoRepo, catalogoSvc, configSvc),
		Checkout: service.NewCheckoutService(
			carritoRepo, usuarioRepo, intentoRepo, configSvc, pedidoSvc, in.Gateway, in.Locker,
			service.CheckoutOptions{
				PublicURL:      cfg.PublicURL,
				LockTTL:        cfg.CheckoutLockTTL,
				MayoristaDelay: cfg.MayoristaDelay,
				IntentoTTL:     cfg.IntentoTTL,
			},
		),
		Clientes:   service.NewClienteService(usuarioRepo),
		Galeria:    service.NewGaleriaService(galeriaRepo, in.GaleriaImages),
		PedidoRepo: pedidoRepo,
	}
}

// New returns a configured Gin engine serving the storefront and the
// back-office API.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mpCB *infra.CircuitBreaker, svc *Services) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(600, time.Minute)) // 600 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svc.Auth)
	productosH := handler.NewProductosHandler(svc.Catalogo)
	configH := handler.NewConfiguracionHandler(svc.Configuracion)
	carritoH := handler.NewCarritoHandler(svc.Carrito)
	checkoutH := handler.NewCheckoutHandler(svc.Checkout)
	pedidosH := handler.NewPedidosHandler(svc.Pedidos, svc.Configuracion)
	seguimientoH := handler.NewSeguimientoHandler(svc.Seguimiento)
	clientesH := handler.NewClientesHandler(svc.Clientes)
	galeriaH := handler.NewGaleriaHandler(svc.Galeria)

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	optionalJWT := middleware.OptionalJWT(cfg.JWTSecret)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, mpCB))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/registro", middleware.LoginRateLimiter(), authH.Registro)
		auth.POST("/refresh", authH.Refresh)
		auth.GET("/me", jwtMW, authH.Me)
	}

	// Storefront (public)
	v1 := r.Group("/v1")
	{
		v1.GET("/productos", productosH.Listar)
		v1.GET("/productos/:id", productosH.ObtenerPorID)
		v1.GET("/configuracion", configH.Obtener)
		v1.GET("/seguimiento/:id", seguimientoH.Buscar)
		v1.GET("/galeria", galeriaH.Listar)

		carritos := v1.Group("/carritos")
		{
			carritos.POST("", carritoH.Crear)
			carritos.GET("/:id", carritoH.Obtener)
			carritos.DELETE("/:id", carritoH.Vaciar)
			carritos.POST("/:id/items", carritoH.Agregar)
			carritos.PUT("/:id/items/:index", carritoH.ActualizarCantidad)
			carritos.DELETE("/:id/items/:index", carritoH.Quitar)
		}

		checkout := v1.Group("/checkout", optionalJWT)
		{
			checkout.GET("/retorno", checkoutH.Retorno)
			checkout.GET("/:carrito/cotizacion", checkoutH.Cotizar)
			checkout.POST("/:carrito/transferencia", middleware.CheckoutRateLimiter(), checkoutH.Transferencia)
			checkout.POST("/:carrito/mayorista", middleware.CheckoutRateLimiter(), checkoutH.Mayorista)
			checkout.POST("/:carrito/mercadopago", middleware.CheckoutRateLimiter(), checkoutH.MercadoPago)
			checkout.DELETE("/:carrito", checkoutH.Cancelar)
		}
	}

	// Back office (administrador only)
	admin := r.Group("/v1/admin", jwtMW, middleware.RequireRole(model.RolAdministrador))
	{
		admin.POST("/productos", productosH.Crear)
		admin.POST("/productos/imagen", productosH.SubirImagen)
		admin.PUT("/productos/:id", productosH.Actualizar)
		admin.DELETE("/productos/:id", productosH.Eliminar)

		admin.GET("/configuracion", configH.ObtenerCompleta)
		admin.PUT("/configuracion", configH.Actualizar)
		admin.POST("/configuracion/refresh", configH.Recargar)

		admin.GET("/pedidos", pedidosH.Listar)
		admin.GET("/pedidos/:id", pedidosH.Obtener)
		admin.PATCH("/pedidos/:id/estado", pedidosH.ActualizarEstado)
		admin.PATCH("/pedidos/:id/seguimiento", pedidosH.ActualizarSeguimiento)
		admin.GET("/pedidos/:id/historial", pedidosH.Historial)
		admin.DELETE("/pedidos/:id", pedidosH.Eliminar)

		admin.GET("/clientes", clientesH.Listar)

		admin.POST("/galeria", galeriaH.Agregar)
		admin.POST("/galeria/imagen", galeriaH.Subir)
		admin.DELETE("/galeria/:id", galeriaH.Eliminar)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

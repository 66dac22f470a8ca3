package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arielalcuri/doslidias/internal/config"
	"github.com/arielalcuri/doslidias/internal/infra"
	"github.com/arielalcuri/doslidias/internal/router"
	"github.com/arielalcuri/doslidias/internal/service"
	"github.com/arielalcuri/doslidias/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger. dev: pretty, prod: JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.RunMigrations {
		if err := infra.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── External adapters ────────────────────────────────────────────────────
	mpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	gateway := infra.NewMercadoPagoClient(cfg.MercadoPagoBaseURL, cfg.MercadoPagoAccessToken, cfg.PaymentTimeout, mpCB)
	dispatcher := worker.NewDispatcher(rdb)

	var images, galeria service.ImageStore
	if cfg.S3Enabled() {
		store, err := infra.NewS3Store(ctx, cfg.AWSRegion, cfg.AWSS3Bucket, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, service.PrefijoImagenes)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init S3")
		}
		images = store
		galeria = store.WithPrefix(service.PrefijoGaleria)
	} else {
		log.Warn().Msg("AWS_S3_BUCKET not set, image uploads disabled")
	}

	svc := router.NewServices(cfg, router.Infra{
		DB:            db,
		Redis:         rdb,
		Gateway:       gateway,
		Locker:        infra.NewRedisLocker(rdb),
		Images:        images,
		GaleriaImages: galeria,
		Notifier:      dispatcher,
	})

	// Both caches must be warm before the first request.
	if err := svc.Configuracion.Cargar(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load store settings")
	}
	if err := svc.Catalogo.Cargar(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}

	// ── Background work ──────────────────────────────────────────────────────
	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueComprobante, worker.JobComprobante,
		worker.NewComprobanteWorker(svc.PedidoRepo, svc.Configuracion, dispatcher, cfg.PDFStoragePath, cfg.StoreName))
	mailer := infra.NewMailer(cfg)
	if mailer.Enabled() {
		pool.Register(worker.QueueEmail, worker.JobEmail, worker.NewEmailWorker(mailer))
	} else {
		log.Warn().Msg("SMTP_HOST not set, confirmation emails stay queued")
	}
	pool.Start(ctx, cfg.WorkerPoolSize)
	worker.StartExpiracionCron(ctx, svc.Checkout, 0)

	r := router.New(cfg, db, rdb, mpCB, svc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("%s backend listening on :%d", cfg.StoreName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	_ = rdb.Close()
	log.Info().Msg("server exited")
}

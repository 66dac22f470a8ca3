package worker

// expiracion_cron.go
// Background goroutine that periodically expires card-payment attempts whose
// buyer never came back from MercadoPago.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const expiracionTickInterval = 10 * time.Minute

// IntentoExpirer marks stale payment attempts as expired.
type IntentoExpirer interface {
	ExpirarIntentos(ctx context.Context) (int64, error)
}

// StartExpiracionCron ticks every interval (10 minutes when zero) until ctx
// is cancelled.
func StartExpiracionCron(ctx context.Context, expirer IntentoExpirer, interval time.Duration) {
	if interval <= 0 {
		interval = expiracionTickInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("expiracion_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("expiracion_cron: shutting down")
				return
			case <-ticker.C:
				expirar(ctx, expirer)
			}
		}
	}()
}

func expirar(ctx context.Context, expirer IntentoExpirer) {
	n, err := expirer.ExpirarIntentos(ctx)
	if err != nil {
		log.Error().Err(err).Msg("expiracion_cron: failed to expire payment attempts")
		return
	}
	if n > 0 {
		log.Info().Int64("expirados", n).Msg("expiracion_cron: payment attempts expired")
	}
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/arielalcuri/doslidias/internal/infra"
	"github.com/arielalcuri/doslidias/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports the payment circuit breaker
// and the dead letter backlog; never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, cb *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if cb != nil {
			body["mercadopago"] = cb.State().String()
		}
		if redisStatus == "connected" {
			if dlq, err := worker.DLQLengths(ctx, rdb, worker.QueueComprobante, worker.QueueEmail); err == nil {
				body["dlq"] = dlq
			}
		}
		c.JSON(status, body)
	}
}

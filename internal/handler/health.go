package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/ELGOKU23/corte/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity and reports DLQ depths for monitoring;
// never exposes credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
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

		payload := gin.H{
			"db":    dbStatus,
			"redis": redisStatus,
		}

		// Stuck jobs are a degradation worth surfacing even while both
		// stores answer.
		if redisStatus == "connected" {
			dlq := gin.H{}
			for _, queue := range []string{worker.QueueReporte, worker.QueueEmail} {
				if n, err := worker.DLQLength(ctx, rdb, queue); err == nil {
					dlq[queue] = n
				}
			}
			payload["dlq"] = dlq
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}
		payload["ok"] = status == http.StatusOK

		c.JSON(status, payload)
	}
}

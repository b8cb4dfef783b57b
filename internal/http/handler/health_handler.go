package handler

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/RRPsystem/wbctx/internal/http/response"
)

type HealthHandler struct {
	db    *gorm.DB
	redis redis.UniversalClient
}

func NewHealthHandler(db *gorm.DB, redisClient redis.UniversalClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	checks := map[string]string{"database": "ok"}
	healthy := true

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		checks["database"] = err.Error()
		healthy = false
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	response.JSON(w, status, map[string]any{
		"status": state,
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}

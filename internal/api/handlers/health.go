package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/aura/backend/internal/store"
	"github.com/wonny/aura/backend/pkg/database"
	"github.com/wonny/aura/backend/pkg/logger"
	"github.com/wonny/aura/backend/pkg/redis"
)

// HealthHandler reports liveness and the state of optional backends
type HealthHandler struct {
	store *store.Store
	redis *redis.Client
	db    *database.DB // nil when DATABASE_URL is unset
}

// NewHealthHandler creates a health handler; db may be nil
func NewHealthHandler(s *store.Store, rc *redis.Client, db *database.DB) *HealthHandler {
	return &HealthHandler{store: s, redis: rc, db: db}
}

// Ping is the bare liveness probe
// GET /ping
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

// Health reports dataset and backend status
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	body := map[string]interface{}{
		"service": logger.ServiceName,
	}

	if ds := h.store.Current(); ds != nil {
		body["dataset_id"] = ds.ID
		body["generated_at"] = ds.GeneratedAt
	}

	if h.redis.Enabled() {
		if err := h.redis.Ping(ctx); err != nil {
			body["redis"] = err.Error()
			status = "degraded"
		} else {
			body["redis"] = "ok"
		}
	}

	if h.db != nil {
		dbStatus := h.db.HealthCheck(ctx)
		body["database"] = dbStatus
		if !dbStatus.Healthy {
			status = "degraded"
		}
	}

	body["status"] = status
	respondJSON(w, http.StatusOK, body)
}

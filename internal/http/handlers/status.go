package handlers

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"drilllog/internal/config"
	dbpkg "drilllog/internal/db"
)

// Index describes the service and lists its entry points.
func Index(cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		WriteJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
			"message": "Drilling Log API",
			"status":  "working",
			"version": cfg.Version,
			"endpoints": map[string]string{
				"wells":        "/api/wells/",
				"layers":       "/api/layers/",
				"samples":      "/api/samples/",
				"reports":      "/api/reports/",
				"current_user": "/api/current-user/",
				"status":       "/api/status/",
				"login":        "/api/auth/login/",
				"logout":       "/api/auth/logout/",
				"health":       "/healthz",
				"metrics":      "/metrics",
			},
		})
	}
}

// Status reports static service metadata. It does not touch the database.
func Status(cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		WriteJSON(ctx, fasthttp.StatusOK, map[string]string{
			"status":  "ok",
			"service": "drilllog",
			"version": cfg.Version,
		})
	}
}

// Healthz pings the database and reports 503 when it does not answer.
func Healthz(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := dbpkg.Ping(pingCtx, db); err != nil {
			log.Printf("health check: database ping failed: %v", err)
			WriteJSON(ctx, fasthttp.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
			return
		}
		WriteJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok", "database": "up"})
	}
}

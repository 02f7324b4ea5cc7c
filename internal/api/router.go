package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/huddlehq/huddle/internal/app"
	iauth "github.com/huddlehq/huddle/internal/auth"
	"github.com/huddlehq/huddle/internal/handlers"
	"github.com/huddlehq/huddle/internal/middleware"
	"github.com/huddlehq/huddle/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	identitySvc, err := services.NewIdentityService(db)
	if err != nil {
		return nil, err
	}
	teamCtxSvc, err := services.NewTeamContextService(db)
	if err != nil {
		return nil, err
	}
	threadSvc, err := services.NewThreadService(db, teamCtxSvc)
	if err != nil {
		return nil, err
	}
	messageSvc, err := services.NewMessageService(db)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Public endpoints
	r.GET("/health", handlers.Health())
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	registerTeamContextRoutes(api, handlers.NewTeamContextHandler(identitySvc, teamCtxSvc))
	registerThreadRoutes(api, handlers.NewThreadHandler(identitySvc, threadSvc))
	registerMessageRoutes(api, handlers.NewMessageHandler(identitySvc, messageSvc))

	return r, nil
}

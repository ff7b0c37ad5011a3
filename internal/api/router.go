package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"recipe-discovery/internal/api/handlers/health"
	recipeHandler "recipe-discovery/internal/api/handlers/recipe"
	"recipe-discovery/internal/api/middleware"
	"recipe-discovery/internal/core/search"
	"recipe-discovery/internal/core/session"
	"recipe-discovery/internal/infrastructure/config"
	"recipe-discovery/internal/pkg/common"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Search       *search.Service
	SessionStore session.Store
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Session(middleware.SessionOptions{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.App.Env == "production",
	}))
	router.Use(middleware.Logger())
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics())
	}

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Request-ID", middleware.HeaderSessionID, middleware.HeaderUserID,
		},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", middleware.HeaderSessionID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.SessionStore)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.NewDeduplicator(cfg.DedupWindow).Middleware())
	{
		h := recipeHandler.NewHandler(deps.Search)

		api.GET("/home", h.Home)

		searchGroup := api.Group("/search")
		{
			searchGroup.POST("", h.Search)
			searchGroup.PUT("/sort", h.SetSort)
			searchGroup.POST("/clear", h.Clear)
			searchGroup.DELETE("/state", h.Reset)
		}

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", h.Index)
			recipeGroup.GET("/:id", h.Detail)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.String("session_backend", cfg.Session.Backend),
		zap.String("document_backend", cfg.DocumentStore.Backend),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}

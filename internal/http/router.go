package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/triagedesk/backend/internal/config"
	"github.com/triagedesk/backend/internal/http/handlers"
	"github.com/triagedesk/backend/internal/http/middleware"
	"github.com/triagedesk/backend/internal/ledger"
	"github.com/triagedesk/backend/internal/repository"
	"github.com/triagedesk/backend/internal/service"
	"github.com/triagedesk/backend/internal/session"

	_ "github.com/triagedesk/backend/docs"
)

func Router(cfg config.Config, repo repository.CandidateRepository, ledgerStore ledger.Store, sessions *session.Tracker, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Repo:       repo,
		Ledger:     ledgerStore,
		Sessions:   sessions,
		Workspaces: service.NewWorkspaces(),
		Aggregator: &service.Aggregator{Ledger: ledgerStore, Repo: repo},
		Triage:     &service.Triage{Repo: repo, Ledger: ledgerStore, Sessions: sessions, Logger: logger},
		Validator:  validator.New(),
		Logger:     logger,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/sessions", h.SessionStart)
		api.POST("/sessions/:id/end", h.SessionEnd)
		api.GET("/sessions/:id/metrics", h.SessionMetrics)
		api.GET("/metrics/analyst", h.AnalystStats)
		api.GET("/candidates", h.CandidatesList)
		api.GET("/candidates/:reg/reviews", h.CandidateReviews)
		api.GET("/report", h.Report)

		api.GET("/sessions/:id/queue", h.Queue)
		api.PUT("/sessions/:id/queue/filters", h.QueueFilters)
		api.POST("/sessions/:id/queue/select", h.QueueSelect)
		api.POST("/sessions/:id/queue/next", h.QueueNext)
		api.POST("/sessions/:id/queue/previous", h.QueuePrevious)
		api.POST("/sessions/:id/queue/refresh", h.QueueRefresh)
		api.POST("/sessions/:id/queue/classify", h.Classify)
	}

	intake := api.Group("")
	intake.Use(middleware.AdminKey(cfg.AdminKey))
	{
		intake.POST("/intake", h.Intake)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

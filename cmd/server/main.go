package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/triagedesk/backend/internal/config"
	httpapi "github.com/triagedesk/backend/internal/http"
	"github.com/triagedesk/backend/internal/ledger"
	"github.com/triagedesk/backend/internal/repository"
	"github.com/triagedesk/backend/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "triagedesk-backend").Logger()

	ctx := context.Background()

	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pgcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid DATABASE_URL")
		}
		pool, err = pgxpool.NewWithConfig(ctx, pgcfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer pool.Close()
	}

	var repo repository.CandidateRepository
	switch cfg.Backend {
	case "sheets":
		repo = repository.NewSheets(cfg.SpreadsheetID, cfg.SheetsAPIKey, cfg.SheetsToken, logger)
		logger.Info().Str("spreadsheet", cfg.SpreadsheetID).Msg("using sheets candidate backend")
	case "postgres":
		if pool == nil {
			logger.Fatal().Msg("postgres backend requires DATABASE_URL")
		}
		repo = repository.NewPostgres(pool)
		logger.Info().Msg("using postgres candidate backend")
	case "redis":
		redisRepo, err := repository.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer redisRepo.Close()
		repo = redisRepo
		logger.Info().Msg("using redis candidate backend")
	default:
		repo = repository.NewMemory()
		logger.Info().Msg("using in-memory candidate backend")
	}

	// The ledger and session stores follow the database when one is
	// configured, even under the sheets backend: review history outlives
	// what the spreadsheet can hold.
	var ledgerStore ledger.Store = ledger.NewMemory()
	var sessionStore session.Store = session.NewMemoryStore()
	if pool != nil {
		ledgerStore = ledger.NewPostgres(pool)
		sessionStore = session.NewPostgresStore(pool)
	}
	sessions := session.NewTracker(sessionStore)

	router := httpapi.Router(cfg, repo, ledgerStore, sessions, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

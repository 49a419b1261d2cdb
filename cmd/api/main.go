package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "frontdesk/internal/adapters/http_server"
	"frontdesk/internal/adapters/observability"
	redisad "frontdesk/internal/adapters/redis"
	"frontdesk/internal/app"
	"frontdesk/internal/shared"
	mysqlrepo "frontdesk/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(context.Background()); err != nil {
		// reads fall through to MySQL while Redis is away
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; continuing without warm cache")
	}

	h := &server.Handlers{
		Housekeeping: app.NewHousekeepingService(repo, repo),
		Settings:     app.NewSettingsService(repo, cache, cfg.CacheTTL),
		Stays:        app.NewStayService(repo, cache, cfg.CacheTTL),
		Folio:        app.NewFolioService(repo, repo, repo, repo),
		Customers:    app.NewCustomerService(repo),
		Tasks:        app.NewTaskService(repo),
	}

	// http
	srv := server.New(server.Options{APIRPS: cfg.APIRPS, APIBurst: cfg.APIBurst})
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	_ = cache.Close()
	_ = db.Close()
}

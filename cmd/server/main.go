// @title           Helpdesk API
// @version         1.0
// @description     Customer support ticketing API: tickets, threaded messages, live notification streams, and printable reports.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/arabemerge/helpdesk/internal/api"
	"github.com/arabemerge/helpdesk/internal/infrastructure/config"
	mongoinfra "github.com/arabemerge/helpdesk/internal/infrastructure/db/mongo"
	redisinfra "github.com/arabemerge/helpdesk/internal/infrastructure/db/redis"
	"github.com/arabemerge/helpdesk/internal/infrastructure/queue"
	"github.com/arabemerge/helpdesk/internal/realtime"
	"github.com/arabemerge/helpdesk/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongoinfra.Connect(ctx, mongoinfra.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	// --- Change propagation ---
	// Writes publish change events to Redis; every instance replays its own
	// and its peers' events into the local hub, which recomputes live-query
	// snapshots for connected SSE clients.
	feed := redisinfra.NewChangeFeed(rdb, log)
	hub := realtime.NewHub(log)
	go feed.Run(ctx, hub.Notify)

	// --- Services and notification fan-out ---
	deps := api.Dependencies{
		DB:               db,
		Redis:            rdb,
		Hub:              hub,
		Changes:          feed,
		JWTSecret:        cfg.JWTSecret,
		AdminEmailDomain: cfg.AdminEmailDomain,
		Log:              log,
	}

	// The dispatcher records through the notification service, which itself
	// needs the change feed; wire the cycle through the Notifier field.
	dispatcher := queue.NewDispatcher(cfg.NotificationWorkers, nil, log)
	deps.Notifier = dispatcher

	svcs := api.NewServices(deps)
	dispatcher.SetRecorder(svcs.Notifications)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(deps, svcs)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	ensurers := []interface {
		EnsureIndexes(ctx context.Context) error
	}{
		mongoinfra.NewTicketRepository(db),
		mongoinfra.NewMessageRepository(db),
		mongoinfra.NewNotificationRepository(db),
		mongoinfra.NewUserRepository(db),
	}
	for _, e := range ensurers {
		if err := e.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

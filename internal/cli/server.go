package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"risk-profile-service/internal/app"
	"risk-profile-service/internal/config"
	"risk-profile-service/internal/infra/file"
	"risk-profile-service/internal/infra/memory"
	pgloader "risk-profile-service/internal/infra/postgres"
	redisstore "risk-profile-service/internal/infra/redis"
	transport "risk-profile-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the questionnaire server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Sync() //nolint:errcheck

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	loaders := memory.ChainLoader{file.NewGraphLoader(cfg.Questionnaire.Dir, cfg.Questionnaire.Files)}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loaders = append(loaders, pgloader.NewGraphLoader(pool))
	}

	graphTTL := config.TTLDuration(cfg.Questionnaire.TTL, 10*time.Minute)
	var graphs app.GraphRepository
	var store app.SessionRepository
	if redisClient != nil {
		graphs = redisstore.NewGraphRepository(redisClient, loaders, graphTTL, log)
		store = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		graphs = memory.NewGraphRepository(loaders, graphTTL)
		store = memory.NewSessionStore()
	}

	// Warm the cache and surface a broken default questionnaire at startup.
	if _, err := graphs.GetGraph(ctx, cfg.DefaultQuestionnaire()); err != nil {
		log.Warn("default questionnaire unavailable",
			zap.String("questionnaire", cfg.DefaultQuestionnaire()),
			zap.Error(err))
	}

	service := app.NewQuestionnaireService(store, graphs, log)
	wsHandler := transport.NewWSHandler(service, cfg.DefaultQuestionnaire(), log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting questionnaire service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

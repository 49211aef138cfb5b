package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbadapter "yatube/internal/adapters/database"
	"yatube/internal/adapters/httpapi"
	"yatube/internal/adapters/httpapi/middleware"
	redisadapter "yatube/internal/adapters/redis"
	"yatube/internal/config"
	groupapp "yatube/internal/core/group/service"
	postapp "yatube/internal/core/post/service"
	userapp "yatube/internal/core/user/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "yatube",
	Short:         "Yatube blogging server and management commands",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		config.InitLogger(cfg.Env)
		return config.InitDB(cfg)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeResources(config.Logger)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, createUserCmd, deleteUserCmd, createGroupCmd, deleteGroupCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx); err != nil {
		if config.Logger != nil {
			config.Logger.Error("Command failed", zap.Error(err))
		} else {
			os.Stderr.WriteString(err.Error() + "\n")
		}
		stop()
		os.Exit(1)
	}
}

// execute runs the root command. cobra skips PersistentPostRun when RunE
// fails, so the failure path releases resources itself.
func execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		closeResources(config.Logger)
	}
	return err
}

func serve(ctx context.Context) error {
	if err := cfg.RequireServe(); err != nil {
		return err
	}
	logger := config.Logger

	redisClient, err := config.OpenRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	userRepo := dbadapter.NewUserRepositoryDatabase(config.DB)
	groupRepo := dbadapter.NewGroupRepositoryDatabase(config.DB)
	postRepo := dbadapter.NewPostRepositoryDatabase(config.DB)
	sessions := redisadapter.NewSessionRepositoryRedis(redisClient, logger)

	userSvc := userapp.NewUserService(userRepo, sessions, []byte(cfg.JWTSecret), cfg.SessionTTL, logger)
	groupSvc := groupapp.NewGroupService(groupRepo, logger)
	postSvc := postapp.NewPostService(postRepo, groupRepo, userRepo, cfg.PageSize, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := httpapi.SetupRoutes(userSvc, postSvc, groupSvc, httpapi.Options{
		Logger:        logger,
		Metrics:       middleware.NewMetrics(registry),
		SecureCookies: cfg.Env == "production",
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("App is running...", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// closeResources closes the database connection and flushes the logger.
func closeResources(logger *zap.Logger) {
	if config.DB != nil {
		if err := config.CloseDB(config.DB); err != nil && logger != nil {
			logger.Error("Error closing database connection", zap.Error(err))
		}
		config.DB = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

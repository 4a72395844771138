package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"coursegate/internal/infrastructure/database"
	"coursegate/internal/interfaces/cli/bootstrap"
	"coursegate/internal/shared/version"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the coursegate HTTP server: catalog, login reconcile, webhooks and admin routes.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Create or update tables on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env = bootstrap.Env(env)

	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()
	log := rt.Log

	log.Infow("starting server",
		"environment", env,
		"version", version.Get().Version,
		"auto_migrate", autoMigrate)

	gin.SetMode(rt.Config.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production")
		}
		if err := database.AutoMigrate(rt.DB); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	container, err := rt.Container()
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	container.SetupRoutes()

	startCtx, startCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	err = container.Start(startCtx)
	startCancel()
	if err != nil {
		return err
	}
	defer container.Shutdown()

	srv := &http.Server{
		Addr:         rt.Config.Server.GetAddr(),
		Handler:      container.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("server starting", "address", srv.Addr, "mode", rt.Config.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

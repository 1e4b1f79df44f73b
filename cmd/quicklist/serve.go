package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/spf13/cobra"

	"quicklist/internal/auth"
	"quicklist/internal/config"
	apphttp "quicklist/internal/http"
	"quicklist/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves the api",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		logger := a.logger

		if err := a.cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := a.migrate(ctx); err != nil {
			return err
		}

		hasher, err := auth.NewPasswordHasher(a.cfg.Auth.Hasher, a.cfg.Auth.BcryptCost)
		if err != nil {
			return fmt.Errorf("password hasher: %w", err)
		}
		tokens, err := auth.NewTokenIssuer([]byte(a.cfg.Auth.JWTSecret), a.cfg.TokenTTL())
		if err != nil {
			return fmt.Errorf("token issuer: %w", err)
		}

		userService := service.NewUserService(a.users, a.todos, hasher, tokens, logger)
		todoService := service.NewTodoService(a.todos)

		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(gin.Recovery())
		handler := apphttp.NewHandler(userService, todoService, logger)
		handler.RegisterRoutes(router)

		srv := &http.Server{
			Addr:              a.cfg.Server.Addr,
			Handler:           corsHandler(a.cfg)(router),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Infof("listening on %s", a.cfg.Server.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
		}
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("http shutdown: %v", err)
		}

		logger.Info("bye")
		return nil
	},
}

func corsHandler(cfg config.Config) func(http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(cfg.CORS.Origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
		handlers.ExposedHeaders([]string{"X-Request-ID", "WWW-Authenticate"}),
		handlers.AllowCredentials(),
	)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"module/blogwithusers/internal/api"
	"module/blogwithusers/internal/config"
	"module/blogwithusers/internal/db"
	"module/blogwithusers/internal/models"

	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "blog",
		Short:         "Server-rendered blog with news search and import",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or upgrade the database schema and exit",
			RunE:  runMigrate,
		},
		newPromoteCmd(),
	)
	return root
}

// loadConfig installs the default slog logger once the level is known.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, err := api.NewContainer(cfg)
	if err != nil {
		slog.Error("failed to create container", "error", err)
		return err
	}
	server, err := api.NewServer(container)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server stopped", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := db.ConnectDB(cfg.DatabaseURL, logger.Warn)
	if err != nil {
		slog.Error("connecting to database", "error", err)
		return err
	}
	if err := db.MigrateDB(database); err != nil {
		slog.Error("migrating database", "error", err)
		return err
	}
	slog.Info("schema is up to date")
	return nil
}

func newPromoteCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Give an existing user the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			container, err := api.NewContainer(cfg)
			if err != nil {
				slog.Error("failed to create container", "error", err)
				return err
			}
			if err := container.UserRepo.SetRole(email, models.RoleAdmin); err != nil {
				slog.Error("promoting user", "email", email, "error", err)
				return fmt.Errorf("promoting %s: %w", email, err)
			}
			slog.Info("user promoted to admin", "email", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address of the user to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

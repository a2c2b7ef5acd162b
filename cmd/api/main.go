package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jobcore-api/domain/models"
	"jobcore-api/interfaces/api/handlers"
	"jobcore-api/interfaces/api/routes"
	"jobcore-api/pkg/config"
	"jobcore-api/pkg/di"
	"jobcore-api/pkg/logger"
	"jobcore-api/pkg/utils"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "jobcore-api",
		Short:        "Job Core task execution API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	rootCmd.AddCommand(serveCmd(), migrateCmd(), tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update task_executions and task_schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			container := di.NewContainer()
			if err := container.InitializeDatabase(); err != nil {
				return err
			}
			defer container.Cleanup()
			return container.Migrate()
		},
	}
}

// tokenCmd dev helper: signs an identity token with JWT_SECRET
func tokenCmd() *cobra.Command {
	var (
		email string
		roles []string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development identity token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			token, err := utils.SignIdentityToken(&models.Identity{Subject: email, Email: email, Roles: roles}, cfg.JWT.Secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "dev@example.com", "email claim")
	cmd.Flags().StringSliceVar(&roles, "role", []string{"admin"}, "role claim (repeatable)")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}

func serve() error {
	// Initialize DI container
	container := di.NewContainer()

	// Initialize all dependencies (including logger)
	if err := container.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}

	// Setup graceful shutdown
	setupGracefulShutdown(container)

	h := handlers.NewHandlers(container.GetHandlerServices())
	app := routes.NewApp(h, container.GetRouteOptions())

	port := container.GetConfig().App.Port
	logger.Info("Server starting",
		"port", port,
		"env", container.GetConfig().App.Env,
		"app", container.GetConfig().App.Name,
	)
	logger.Info("Endpoints available",
		"health", "http://localhost:"+port+"/health",
		"api", "http://localhost:"+port+"/api/v1/job-core",
	)

	if err := app.Listen(":" + port); err != nil {
		logger.Error("Server failed to start", "error", err)
		return err
	}
	return nil
}

func setupGracefulShutdown(container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")

		if err := container.Cleanup(); err != nil {
			logger.Error("Error during cleanup", "error", err)
		}

		logger.Info("Shutdown complete")
		os.Exit(0)
	}()
}

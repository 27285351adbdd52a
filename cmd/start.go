package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"epos-sync/core/loader"
	"epos-sync/core/logger"
	"epos-sync/core/middleware/auth"
	"epos-sync/core/middleware/rayid"
	"epos-sync/core/reconcile"
	"epos-sync/feature/productsync"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync trigger server",
	Long:  `Starts the HTTP server exposing the sync trigger and run reports.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Configuration, logger and service
		cfg, logg, svc, cleanup, err := setup(context.Background())
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer cleanup()
		zap.ReplaceGlobals(logg)

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(productsync.NewFeature(svc, reconcile.ReconcileOptions{
			DryRun:          cfg.Sync.DryRun,
			ContinueOnError: cfg.Sync.ContinueOnError,
		}))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging with the ray id
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Health (Public)
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// 3. Auth (Protect API)
		if !cfg.Server.HasApiKey() {
			logg.Warn("No API key configured; the sync trigger is unprotected")
		}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 4. Load Features
		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

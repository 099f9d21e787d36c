package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recon-manager/core/config"
	"recon-manager/core/database"
	"recon-manager/core/loader"
	"recon-manager/core/logger"
	"recon-manager/core/middleware/auth"
	"recon-manager/core/middleware/rayid"
	"recon-manager/core/storage"

	"recon-manager/feature/activity"
	"recon-manager/feature/breaks"
	"recon-manager/feature/reconciliation"
	"recon-manager/feature/reconciliation/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "recon-manager/docs/swagger"
)

// @title Reconciliation Manager API
// @version 1.0
// @description API for running reconciliations and managing breaks.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciliation manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Required)
		// Every feature persists through it, so startup aborts without one.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Database connection failed", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("name", cfg.Database.Name))

		if cfg.Database.AutoMigrate {
			err = database.Migrate(db,
				&models.Definition{},
				&models.SourceConfig{},
				&models.CanonicalFieldConfig{},
				&models.SourceDataBatch{},
				&models.SourceDataRecord{},
				&models.Run{},
				&breaks.BreakItem{},
				&breaks.BreakClassificationValue{},
				&breaks.BreakWorkflowAudit{},
				&breaks.BreakComment{},
				&breaks.AccessControlEntry{},
				&activity.Event{},
			)
			if err != nil {
				logg.Fatal("Schema migration failed", zap.Error(err))
			}
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 5. Initialize Storage (Optional)
		// Runs still complete without it; snapshots are simply not archived.
		var store storage.Client
		if cfg.Recon.ArchiveSnapshots {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Warn("Optional storage client failed, snapshot archiving disabled", zap.Error(err))
			} else {
				store = client
			}
		}

		// 6. Initialize Feature Loader
		mgr := loader.NewManager(logg)

		// Register Features
		// The activity service doubles as the recorder for the other features.
		activityFeature := activity.NewFeature(db, logg)
		mgr.Register(activityFeature)
		mgr.Register(breaks.NewFeature(db, logg, activityFeature.Service()))
		mgr.Register(reconciliation.NewFeature(db, store, cfg.Storage.Bucket, logg,
			activityFeature.Service(), time.Duration(cfg.Recon.CacheTTLSeconds)*time.Second))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
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

		// 2.5 Swagger Documentation + Metrics (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fuel-dashboard/core/aggregate"
	"fuel-dashboard/core/database"
	"fuel-dashboard/core/loader"
	"fuel-dashboard/core/logger"
	"fuel-dashboard/core/middleware/rayid"
	"fuel-dashboard/core/scheduler"
	"fuel-dashboard/core/server"

	"fuel-dashboard/feature/etl"
	"fuel-dashboard/feature/stations"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "fuel-dashboard/docs/swagger"
)

// @title Fuel Dashboard API
// @version 1.0
// @description Read API over periodically ingested NSW fuel prices.
// @host localhost:8080
// @BasePath /

var withScheduler bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the fuel dashboard API",
	Long: `Starts the HTTP server and initializes all enabled features.
With --scheduler the ingestion pipeline also runs in this process.`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVar(&withScheduler, "scheduler", false, "Run the ingestion scheduler in this process")
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	logg := rt.logger
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	if err := database.Migrate(rt.db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(rt.cfg.Server, logg)

	mgr := loader.NewManager(logg)
	mgr.Register(stations.NewFeature(aggregate.NewEngine(rt.repo), logg))

	var sched *scheduler.Scheduler
	if withScheduler {
		src, err := rt.source(ctx, "", "")
		if err != nil {
			return err
		}
		pipeline := rt.pipeline(ctx, src, true)
		sched = scheduler.New(rt.cfg.Scheduler, pipeline, logg)
		mgr.Register(etl.NewFeature(pipeline))
	}

	if err := mgr.LoadAll(app); err != nil {
		return fmt.Errorf("failed to load features: %w", err)
	}

	if sched != nil {
		go func() {
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error("Scheduler stopped unexpectedly", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
		errCh <- app.Listen(rt.cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	return app.ShutdownWithTimeout(10 * time.Second)
}

// newApp builds the fiber application with the global middleware stack and
// the public routes.
func newApp(cfg server.Config, logg *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CorsOrigins}))

	// RayID must run before the request logger.
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		start := time.Now()
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.String("path", c.Path()), zap.Error(err))
			return err
		}
		l.Info("Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return nil
	})

	app.Get("/swagger/*", swagger.HandlerDefault)
	server.NewHealthHandler(time.Now).RegisterRoutes(app)
	return app
}

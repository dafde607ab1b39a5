package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"animalshelter/docs"
	"animalshelter/internal/config"
	"animalshelter/internal/database"
	handlers "animalshelter/internal/http/handler"
	"animalshelter/internal/http/middleware"
	"animalshelter/internal/logger"
	"animalshelter/internal/otel"
	"animalshelter/internal/repository"
	"animalshelter/internal/repository/memory"
	"animalshelter/internal/repository/mongo"
	"animalshelter/internal/service"
)

// @title Animal Shelter API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log, cfg.AppName)
	if err != nil {
		fatal(log, "failed to initialize tracing", err)
	}

	repo, closeStore, err := openStore(cfg, log)
	if err != nil {
		fatal(log, "failed to open animal store", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := service.NewMetrics(reg)
	if err != nil {
		fatal(log, "failed to register service metrics", err)
	}
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(log, "failed to register http metrics", err)
	}

	animalSvc := service.NewAnimalService(repo, log, metrics)

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// RequestID must run first so every later middleware sees the id
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())
	app.Use(otelfiber.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, repo, animalSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server starting", "addr", addr, "store_driver", cfg.StoreDriver)
	if err := app.Listen(addr); err != nil {
		fatal(log, "failed to start server", err)
	}

	cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := closeStore(cleanupCtx); err != nil {
		log.Error("failed to close animal store", "error", err)
	}
	if err := shutdownTracing(cleanupCtx); err != nil {
		log.Error("failed to flush traces", "error", err)
	}
	log.Info("server stopped")
}

// openStore selects the AnimalRepository backend named by STORE_DRIVER.
func openStore(cfg *config.AppConfig, log *slog.Logger) (repository.AnimalRepository, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		log.Warn("using in-memory animal store; records are lost on restart")
		return memory.NewAnimalMemory(), func(context.Context) error { return nil }, nil
	case config.StoreMongo:
		m, err := database.NewMongo(cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to mongodb",
			"host", cfg.Mongo.Host,
			"port", cfg.Mongo.Port,
			"db", cfg.Mongo.Name,
			"collection", cfg.Mongo.Collection,
		)
		return mongo.NewAnimalMongo(m.Collection), m.Close, nil
	default:
		return nil, nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}

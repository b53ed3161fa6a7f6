package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/techmaster-vietnam/blogcounter"
	"github.com/techmaster-vietnam/blogcounter/config"
	"github.com/techmaster-vietnam/blogcounter/database"
	"github.com/techmaster-vietnam/blogcounter/logging"
	"github.com/techmaster-vietnam/blogcounter/manifest"
	"github.com/techmaster-vietnam/goerrorkit"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// 0. Load .env file
	if err := godotenv.Load(); err != nil {
		_ = goerrorkit.WrapWithMessage(err, "Warning: .env file not found, using default values or environment variables")
	}

	// 1. Load configuration and initialize loggers
	cfg := config.LoadConfig()
	logging.InitErrorLogger(cfg.Log)
	log := logging.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// 2. Connect to database
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		panic(goerrorkit.NewSystemError(err).WithData(cfg.Database.Masked()))
	}

	// 3. Reset database (only if RESET_DB=true) and migrate
	if err := database.PrepareSchema(db, cfg.Database, log); err != nil {
		panic(err)
	}

	// 4. Connect to Redis (optional)
	rdb, err := database.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		panic(goerrorkit.WrapWithMessage(err, "Failed to connect to Redis").WithData(map[string]interface{}{
			"addr": cfg.Redis.Addr,
		}))
	}

	// 5. Wire services, handlers and routes
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	builder := blogcounter.New(db).
		WithConfig(cfg).
		WithRegistry(registry).
		WithLogger(log)
	if rdb != nil {
		builder = builder.WithRateLimitStore(rdb)
	}
	bc, err := builder.Initialize()
	if err != nil {
		panic(goerrorkit.WrapWithMessage(err, "Failed to initialize blog counter"))
	}
	for _, warning := range cfg.AccessWarnings() {
		log.Warn(warning)
	}

	// 6. Backfill records listed in the manifest
	if err := backfillFromManifest(ctx, bc, cfg.Blog.ManifestPath, log); err != nil {
		panic(err)
	}

	app := bc.NewApp()

	// 7. Start server; stop on SIGINT/SIGTERM, closing fiber before the pool
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "Server stopped").WithData(map[string]interface{}{
				"port": cfg.Server.Port,
			}), "main.Listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Error("fiber shutdown")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.WithError(err).Error("redis close")
		}
	}
	if err := database.Close(db); err != nil {
		log.WithError(err).Error("database close")
	}
}

func backfillFromManifest(ctx context.Context, bc *blogcounter.BlogCounter, path string, log logrus.FieldLogger) error {
	seeds, err := manifest.Load(path)
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "Failed to load blog manifest").WithData(map[string]interface{}{
			"path": path,
		})
	}
	if len(seeds) == 0 {
		return nil
	}

	blogs, err := bc.BlogService.Backfill(ctx, seeds)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"manifest": path,
		"seeds":    len(seeds),
		"records":  len(blogs),
	}).Info("manifest backfill completed")
	return nil
}

package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/techmaster-vietnam/blogcounter"
	"github.com/techmaster-vietnam/blogcounter/config"
	"github.com/techmaster-vietnam/blogcounter/database"
	"github.com/techmaster-vietnam/blogcounter/lambdaproxy"
	"github.com/techmaster-vietnam/blogcounter/logging"
	"github.com/techmaster-vietnam/goerrorkit"
)

const coldStartTimeout = 10 * time.Second

// Each Netlify function invocation reuses the pool opened at cold start
func main() {
	// Netlify injects env vars; .env only matters for `netlify dev`
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	logging.InitErrorLogger(cfg.Log)
	log := logging.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), coldStartTimeout)
	defer cancel()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		panic(goerrorkit.NewSystemError(err).WithData(cfg.Database.Masked()))
	}
	if err := database.PrepareSchema(db, cfg.Database, log); err != nil {
		panic(err)
	}

	builder := blogcounter.New(db).WithConfig(cfg).WithLogger(log)
	rdb, err := database.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, rate limiting disabled")
	} else if rdb != nil {
		builder = builder.WithRateLimitStore(rdb)
	}

	bc, err := builder.Initialize()
	if err != nil {
		panic(goerrorkit.WrapWithMessage(err, "Failed to initialize blog counter"))
	}

	for _, warning := range cfg.AccessWarnings() {
		log.Warn(warning)
	}

	lambda.Start(lambdaproxy.Handler(bc.NewApp(), cfg.Lambda.FunctionsPrefix, log))
}

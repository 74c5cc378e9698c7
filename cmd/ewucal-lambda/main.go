package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/ewu-ics-cal/ewucal/internal/calendar"
	"github.com/ewu-ics-cal/ewucal/internal/config"
	"github.com/ewu-ics-cal/ewucal/internal/logger"
	"github.com/ewu-ics-cal/ewucal/internal/scraper"
	"github.com/ewu-ics-cal/ewucal/internal/server"
)

// setup builds the server once per cold start so the cached index survives
// warm invocations.
func setup() (*server.Server, error) {
	if _, err := maxprocs.Set(); err != nil {
		return nil, fmt.Errorf("error setting GOMAXPROCS %w", err)
	}

	cfg, err := config.Load(os.Getenv("EWUCAL_CONFIG"))
	if err != nil {
		return nil, fmt.Errorf("error loading config %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logger.New(level, os.Stdout)
	logger.SetDefault(log)

	sc := scraper.New(
		scraper.WithBaseURL(cfg.BaseURL),
		scraper.WithTimeout(cfg.RequestTimeout),
		scraper.WithRateLimit(cfg.RatePerSecond, 2),
	)
	emitter := calendar.NewEmitter(
		calendar.WithLocation(cfg.Location),
		calendar.WithTimezone(cfg.Timezone, cfg.UTCOffset),
	)

	return server.New(sc, server.WithEmitter(emitter), server.WithLogger(log)), nil
}

func main() {
	srv, err := setup()
	if err != nil {
		logger.Error("startup failed", logger.Fields{"component": "ewucal-lambda"}, err)
		os.Exit(1)
	}

	logger.Info("starting up", logger.Fields{"component": "ewucal-lambda"})
	lambda.Start(srv.HandleLambda)
}

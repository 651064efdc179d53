package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/qepting91/comment-relay/internal/collector"
	"github.com/qepting91/comment-relay/internal/config"
	"github.com/qepting91/comment-relay/internal/delivery"
	"github.com/qepting91/comment-relay/internal/pipeline"
)

func main() {
	// 1. Setup: .env first so LOG_LEVEL and friends can come from it
	config.LoadEnv(".env", slog.Default())

	// 2. Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := run(ctx, os.Getenv, os.Stdout)
	stop()
	os.Exit(code)
}

// run executes one pass over the configured posts and returns the process
// exit code.
func run(ctx context.Context, getenv func(string) string, out io.Writer) (code int) {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Fatal error", "err", fmt.Sprint(r))
			code = 1
		}
	}()

	logger.Info("Instagram comment scraper starting")

	// 3. Load Config
	cfg, err := config.Load(getenv)
	if err != nil {
		return fail(logger, err)
	}
	level.Set(cfg.LogLevel)
	for _, bad := range cfg.Rejected {
		logger.Warn("Ignoring invalid post URL", "url", bad)
	}

	// 4. Initialize Clients (Using Factory)
	scraper, err := collector.NewScraper(cfg, logger)
	if err != nil {
		return fail(logger, err)
	}
	logger.Info("Scraper initialized", "mode", cfg.Mode, "posts", len(cfg.Posts))

	webhook := delivery.NewWebhookClient(cfg.WebhookURL, logger)
	runner := pipeline.NewRunner(scraper, webhook, pipeline.NewPacer(cfg.PostDelay), logger)

	// 5. Run
	sum := runner.Run(ctx, cfg.Posts)
	logger.Info("Scrape complete",
		"targets", sum.Targets,
		"scraped", sum.Scraped,
		"scrape_failures", sum.ScrapeFailures,
		"delivered", sum.Delivered,
		"delivery_failures", sum.DeliveryFailures,
		"comments", sum.Comments,
	)

	if sum.Interrupted {
		logger.Warn("Run interrupted before all posts were processed")
		return 1
	}
	return 0
}

func fail(logger *slog.Logger, err error) int {
	var cerr *config.ConfigurationError
	if errors.As(err, &cerr) {
		for _, p := range cerr.Problems {
			logger.Error("Missing configuration", "problem", p)
		}
		return 1
	}
	logger.Error("Fatal error", "err", err)
	return 1
}

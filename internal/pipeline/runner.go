package pipeline

import (
	"context"
	"log/slog"

	"github.com/qepting91/comment-relay/internal/domain"
)

// Summary counts per-target outcomes of one run.
type Summary struct {
	Targets          int
	Scraped          int
	ScrapeFailures   int
	Delivered        int
	DeliveryFailures int
	Comments         int
	Interrupted      bool
}

// Runner checks each target in order: scrape, then deliver on success.
// A failing target never stops the run.
type Runner struct {
	scraper   domain.Scraper
	deliverer domain.Deliverer
	pacer     *Pacer
	logger    *slog.Logger
}

func NewRunner(scraper domain.Scraper, deliverer domain.Deliverer, pacer *Pacer, logger *slog.Logger) *Runner {
	return &Runner{scraper: scraper, deliverer: deliverer, pacer: pacer, logger: logger}
}

func (r *Runner) Run(ctx context.Context, targets []string) Summary {
	sum := Summary{Targets: len(targets)}

	for i, target := range targets {
		if ctx.Err() != nil {
			sum.Interrupted = true
			break
		}

		r.logger.Info("Processing", "url", target, "index", i+1, "total", len(targets))
		r.process(ctx, target, &sum)

		if err := r.pacer.Wait(ctx, i, len(targets)); err != nil {
			sum.Interrupted = true
			break
		}
	}

	return sum
}

func (r *Runner) process(ctx context.Context, target string, sum *Summary) {
	result := r.scraper.Scrape(ctx, target)
	if !result.Success {
		sum.ScrapeFailures++
		r.logger.Warn("Skipping delivery", "url", target, "err", result.Error)
		return
	}
	sum.Scraped++
	sum.Comments += len(result.Comments)

	if err := r.deliverer.Deliver(ctx, result.Comments); err != nil {
		sum.DeliveryFailures++
		r.logger.Error("Failed to process", "url", target, "err", err)
		return
	}
	if len(result.Comments) > 0 {
		sum.Delivered++
	}
}

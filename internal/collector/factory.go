package collector

import (
	"fmt"
	"log/slog"

	"github.com/qepting91/comment-relay/internal/config"
	"github.com/qepting91/comment-relay/internal/domain"
)

// NewScraper selects the implementation named by cfg.Mode.
func NewScraper(cfg *config.Config, logger *slog.Logger) (domain.Scraper, error) {
	extractor := NewExtractor(logger)

	switch cfg.Mode {
	case "", "scrapingbee":
		return NewScrapingBeeClient(ScrapingBeeOptions{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.ProxyBaseURL,
			Timeout:     cfg.ScrapeTimeout,
			MinInterval: cfg.ScrapeMinInterval,
		}, extractor, logger), nil
	case "mock":
		return NewMockClient(extractor, logger), nil
	default:
		return nil, &config.ConfigurationError{
			Problems: []string{fmt.Sprintf("unknown SCRAPER_MODE: %s (use 'scrapingbee' or 'mock')", cfg.Mode)},
		}
	}
}

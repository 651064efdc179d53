package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/qepting91/comment-relay/internal/domain"
	"github.com/qepting91/comment-relay/internal/httpclient"
	"golang.org/x/time/rate"
)

var ErrEmptyPostURL = errors.New("post URL is empty")

// renderParams are sent with every proxy request alongside api_key and url.
var renderParams = map[string]string{
	"render_js":     "true",
	"premium_proxy": "true",
	"country_code":  "US",
	"wait":          "5000",
	"wait_for":      WaitForSelector,
	"window_width":  "1366",
	"window_height": "768",
	"custom_google": "true",
}

type ScrapingBeeOptions struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// MinInterval spaces consecutive proxy calls. Zero disables the limiter.
	MinInterval time.Duration
}

// ScrapingBeeClient fetches JavaScript-rendered pages through the ScrapingBee
// proxy and extracts comments from them.
type ScrapingBeeClient struct {
	http      *resty.Client
	apiKey    string
	baseURL   string
	limiter   *rate.Limiter
	extractor *Extractor
	logger    *slog.Logger
}

func NewScrapingBeeClient(opts ScrapingBeeOptions, extractor *Extractor, logger *slog.Logger) *ScrapingBeeClient {
	client := httpclient.New("scrapingbee", logger)
	client.SetTimeout(opts.Timeout)
	client.SetHeader("Accept", "text/html")

	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}

	return &ScrapingBeeClient{
		http:      client,
		apiKey:    opts.APIKey,
		baseURL:   opts.BaseURL,
		limiter:   rate.NewLimiter(limit, 1),
		extractor: extractor,
		logger:    logger,
	}
}

// Scrape never returns an error; failures are folded into the result.
func (c *ScrapingBeeClient) Scrape(ctx context.Context, postURL string) domain.ScrapeResult {
	c.logger.Info("Checking for new comments", "url", postURL)

	html, err := c.fetch(ctx, postURL)
	if err != nil {
		c.logger.Error("Error scraping", "url", postURL, "err", err)
		return domain.Failed(err)
	}

	return domain.Succeeded(c.extractor.Extract(html, postURL))
}

func (c *ScrapingBeeClient) fetch(ctx context.Context, postURL string) (string, error) {
	if strings.TrimSpace(postURL) == "" {
		return "", ErrEmptyPostURL
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetQueryParam("url", postURL).
		SetQueryParams(renderParams).
		Get(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("scrape request: %w", c.redact(err))
	}

	if !res.IsSuccess() {
		return "", fmt.Errorf("scrapingbee status: %d", res.StatusCode())
	}
	return res.String(), nil
}

// redact strips the API key from transport errors, which quote the full
// request URL.
func (c *ScrapingBeeClient) redact(err error) error {
	err = httpclient.RedactError(err)
	if c.apiKey != "" && strings.Contains(err.Error(), c.apiKey) {
		return errors.New(strings.ReplaceAll(err.Error(), c.apiKey, "REDACTED"))
	}
	return err
}

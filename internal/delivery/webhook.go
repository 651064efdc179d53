package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/qepting91/comment-relay/internal/domain"
	"github.com/qepting91/comment-relay/internal/httpclient"
)

// ScraperTag identifies this relay to the webhook consumer.
const ScraperTag = "scrapingbee-github"

// isoMillis matches JavaScript's Date.toISOString output.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Payload is the JSON body posted to the webhook.
type Payload struct {
	Success   bool             `json:"success"`
	Comments  []domain.Comment `json:"comments"`
	Timestamp string           `json:"timestamp"`
	Scraper   string           `json:"scraper"`
}

// WebhookClient posts comment batches to an n8n webhook.
type WebhookClient struct {
	http   *resty.Client
	url    string
	now    func() time.Time
	logger *slog.Logger
}

func NewWebhookClient(url string, logger *slog.Logger) *WebhookClient {
	return &WebhookClient{
		http:   httpclient.New("webhook", logger),
		url:    url,
		now:    time.Now,
		logger: logger,
	}
}

// Deliver posts comments in one request. An empty batch is a no-op. Transport
// failures and non-2xx responses are returned to the caller.
func (w *WebhookClient) Deliver(ctx context.Context, comments []domain.Comment) error {
	if len(comments) == 0 {
		w.logger.Info("No new comments to send")
		return nil
	}

	payload := Payload{
		Success:   true,
		Comments:  comments,
		Timestamp: w.now().UTC().Format(isoMillis),
		Scraper:   ScraperTag,
	}

	res, err := w.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(w.url)
	if err != nil {
		w.logger.Error("Failed to send to webhook", "err", err)
		return fmt.Errorf("webhook request: %w", err)
	}
	if !res.IsSuccess() {
		err := fmt.Errorf("webhook status: %d", res.StatusCode())
		w.logger.Error("Failed to send to webhook", "err", err)
		return err
	}

	w.logger.Info("Sent comments to webhook", "count", len(comments))
	return nil
}

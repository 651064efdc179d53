package collector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qepting91/comment-relay/internal/domain"
)

// mockPage mimics a rendered post page with a few comments, one of which is
// too short to be forwarded.
const mockPage = `<html><body><main><article>
<div data-testid="comment"><div><h3><a href="/sim_alice/">sim_alice</a></h3></div><div><span>Simulated comment number one</span></div></div>
<div data-testid="comment"><div><h3><a href="/sim_bob/">sim_bob</a></h3></div><div><span>ok</span></div></div>
<div role="button"><div><h3><a href="/sim_carol/">sim_carol</a></h3></div><span><span>Simulated reply from %s</span></span></div>
</article></main></body></html>`

// MockClient implements domain.Scraper without calling the proxy. The canned
// page still goes through the real Extractor.
type MockClient struct {
	extractor *Extractor
	logger    *slog.Logger
}

func NewMockClient(extractor *Extractor, logger *slog.Logger) *MockClient {
	return &MockClient{extractor: extractor, logger: logger}
}

func (mc *MockClient) Scrape(ctx context.Context, postURL string) domain.ScrapeResult {
	if err := ctx.Err(); err != nil {
		return domain.Failed(err)
	}
	if postURL == "" {
		return domain.Failed(ErrEmptyPostURL)
	}
	mc.logger.Info("Checking for new comments (mock)", "url", postURL)
	return domain.Succeeded(mc.extractor.Extract(fmt.Sprintf(mockPage, postURL), postURL))
}

package domain

import "context"

// Source tags every comment scraped through the rendering proxy.
const Source = "scrapingbee"

// Comment is one scraped comment, ready to be forwarded.
type Comment struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	PostURL   string `json:"post_url"`
	Source    string `json:"source"`
}

// ScrapeResult is the outcome of checking one post. Comments is set only on
// success, Error only on failure.
type ScrapeResult struct {
	Success  bool      `json:"success"`
	Comments []Comment `json:"comments,omitempty"`
	Error    string    `json:"error,omitempty"`
}

func Succeeded(comments []Comment) ScrapeResult {
	if comments == nil {
		comments = []Comment{}
	}
	return ScrapeResult{Success: true, Comments: comments}
}

func Failed(err error) ScrapeResult {
	return ScrapeResult{Success: false, Error: err.Error()}
}

// Scraper fetches a post page and extracts its comments
type Scraper interface {
	Scrape(ctx context.Context, postURL string) ScrapeResult
}

// Deliverer forwards a batch of comments downstream
type Deliverer interface {
	Deliver(ctx context.Context, comments []Comment) error
}

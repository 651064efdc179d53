package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const commentPage = `<html><body><main><article>
<div data-testid="comment"><div><h3><a>alice</a></h3></div><div><span>Great post!!</span></div></div>
</article></main></body></html>`

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestRunMissingPostsExitsWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	var out bytes.Buffer
	code := run(context.Background(), envFrom(map[string]string{
		"SCRAPINGBEE_API_KEY":  "key",
		"SCRAPINGBEE_BASE_URL": srv.URL,
		"N8N_WEBHOOK_URL":      srv.URL,
		"INSTAGRAM_POSTS":      "",
	}), &out)

	require.Equal(t, 1, code)
	require.Zero(t, calls.Load())
	require.Contains(t, out.String(), "INSTAGRAM_POSTS must list at least one post URL")
}

func TestRunMissingEverything(t *testing.T) {
	var out bytes.Buffer
	require.Equal(t, 1, run(context.Background(), envFrom(nil), &out))
	require.Contains(t, out.String(), "SCRAPINGBEE_API_KEY is required")
	require.Contains(t, out.String(), "N8N_WEBHOOK_URL is required")
}

func TestRunUnknownModeExits(t *testing.T) {
	var out bytes.Buffer
	code := run(context.Background(), envFrom(map[string]string{
		"SCRAPINGBEE_API_KEY": "key",
		"N8N_WEBHOOK_URL":     "http://127.0.0.1:1/hook",
		"INSTAGRAM_POSTS":     "https://www.instagram.com/p/AAA/",
		"SCRAPER_MODE":        "browser",
	}), &out)
	require.Equal(t, 1, code)
}

func TestRunScrapeFailureDoesNotStopRun(t *testing.T) {
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Query().Get("url"), "/p/2/") {
			http.Error(w, "proxy error", http.StatusBadGateway)
			return
		}
		w.Write([]byte(commentPage))
	}))
	defer proxy.Close()

	var (
		mu       sync.Mutex
		postURLs []string
	)
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Comments []struct {
				PostURL string `json:"post_url"`
			} `json:"comments"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		for _, c := range body.Comments {
			postURLs = append(postURLs, c.PostURL)
		}
		mu.Unlock()
	}))
	defer webhook.Close()

	var out bytes.Buffer
	code := run(context.Background(), envFrom(map[string]string{
		"SCRAPINGBEE_API_KEY":  "key",
		"SCRAPINGBEE_BASE_URL": proxy.URL,
		"N8N_WEBHOOK_URL":      webhook.URL,
		"INSTAGRAM_POSTS":      "https://www.instagram.com/p/1/,https://www.instagram.com/p/2/,https://www.instagram.com/p/3/",
		"POST_DELAY":           "0s",
	}), &out)

	require.Equal(t, 0, code)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{
		"https://www.instagram.com/p/1/",
		"https://www.instagram.com/p/3/",
	}, postURLs)
	require.Contains(t, out.String(), `"scrape_failures":1`)
}

func TestRunDeliveryFailureStillExitsZero(t *testing.T) {
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer webhook.Close()

	var out bytes.Buffer
	code := run(context.Background(), envFrom(map[string]string{
		"SCRAPINGBEE_API_KEY": "key",
		"N8N_WEBHOOK_URL":     webhook.URL,
		"INSTAGRAM_POSTS":     "https://www.instagram.com/p/AAA/",
		"SCRAPER_MODE":        "mock",
	}), &out)

	require.Equal(t, 0, code)
	require.Contains(t, out.String(), `"delivery_failures":1`)
}

func TestRunInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	code := run(ctx, envFrom(map[string]string{
		"SCRAPINGBEE_API_KEY": "key",
		"N8N_WEBHOOK_URL":     "http://127.0.0.1:1/hook",
		"INSTAGRAM_POSTS":     "https://www.instagram.com/p/AAA/",
		"SCRAPER_MODE":        "mock",
	}), &out)
	require.Equal(t, 1, code)
}

func TestRunUsesConfiguredLogLevel(t *testing.T) {
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer webhook.Close()

	env := map[string]string{
		"SCRAPINGBEE_API_KEY": "key",
		"N8N_WEBHOOK_URL":     webhook.URL,
		"INSTAGRAM_POSTS":     "https://www.instagram.com/p/AAA/",
		"SCRAPER_MODE":        "mock",
	}

	var quiet bytes.Buffer
	require.Equal(t, 0, run(context.Background(), envFrom(env), &quiet))
	require.NotContains(t, quiet.String(), `"level":"DEBUG"`)

	env["LOG_LEVEL"] = "debug"
	var verbose bytes.Buffer
	require.Equal(t, 0, run(context.Background(), envFrom(env), &verbose))
	require.Contains(t, verbose.String(), `"level":"DEBUG"`)
	require.Contains(t, verbose.String(), "Skipping candidate")
}

// Package httpclient builds the resty clients used for outbound calls and
// routes their diagnostics through slog.
package httpclient

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-resty/resty/v2"
)

// redactedParams never appear in logs.
var redactedParams = []string{"api_key"}

// New returns a resty client that logs through logger. name is attached to
// every log line as "client".
func New(name string, logger *slog.Logger) *resty.Client {
	logger = logger.With("client", name)

	client := resty.New()
	client.SetLogger(slogAdapter{logger: logger})
	client.SetHeader("User-Agent", "comment-relay/1.0")
	Instrument(client, logger)
	return client
}

// Instrument logs every response and transport error at debug level.
func Instrument(client *resty.Client, logger *slog.Logger) {
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		logger.Debug("HTTP response",
			"method", res.Request.Method,
			"url", Redact(res.Request.URL),
			"status", res.StatusCode(),
			"duration", res.Time(),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		logger.Debug("HTTP request failed",
			"method", req.Method,
			"url", Redact(req.URL),
			"err", RedactError(err),
		)
	})
}

// Redact masks credentials carried in query parameters.
func Redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	changed := false
	for _, key := range redactedParams {
		if q.Has(key) {
			q.Set(key, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// RedactError masks credentials in the request URL quoted by a transport
// error. The error is updated in place and returned.
func RedactError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = Redact(uerr.URL)
	}
	return err
}

type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Errorf(format string, v ...interface{}) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

func (a slogAdapter) Warnf(format string, v ...interface{}) {
	a.logger.Warn(fmt.Sprintf(format, v...))
}

func (a slogAdapter) Debugf(format string, v ...interface{}) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}

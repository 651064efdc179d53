package collector

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/qepting91/comment-relay/internal/domain"
)

// MinTextLength is exclusive: comment text must be longer than this.
const MinTextLength = 3

var (
	ErrMissingUsername = errors.New("missing username")
	ErrShortText       = errors.New("comment text too short")
)

// ElementError reports a single candidate node that could not be turned into
// a comment. It never aborts the batch.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("candidate %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }

// Extractor turns rendered post HTML into comments.
type Extractor struct {
	logger *slog.Logger
	now    func() time.Time
	fields func(*goquery.Selection) (username, text string)
}

func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger: logger,
		now:    time.Now,
		fields: candidateFields,
	}
}

// Extract returns every comment found in html. All comments share one capture
// timestamp. Candidates that fail are logged and skipped.
func (e *Extractor) Extract(html, postURL string) []domain.Comment {
	comments := []domain.Comment{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Error("Could not parse page HTML", "url", postURL, "err", err)
		return comments
	}

	timestamp := e.now().UnixMilli()
	doc.Find(CommentContainer).Each(func(i int, s *goquery.Selection) {
		c, err := e.parseCandidate(i, s, timestamp, postURL)
		switch {
		case err == nil:
			comments = append(comments, c)
		case errors.Is(err, ErrMissingUsername), errors.Is(err, ErrShortText):
			e.logger.Debug("Skipping candidate", "url", postURL, "index", i, "reason", err)
		default:
			e.logger.Warn("Could not parse a comment", "url", postURL, "index", i, "err", err)
		}
	})

	e.logger.Info("Found comments", "url", postURL, "count", len(comments))
	return comments
}

func (e *Extractor) parseCandidate(i int, s *goquery.Selection, timestamp int64, postURL string) (c domain.Comment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ElementError{Index: i, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	username, text := e.fields(s)
	username = strings.TrimSpace(username)
	text = strings.TrimSpace(text)

	if username == "" {
		return c, &ElementError{Index: i, Err: ErrMissingUsername}
	}
	if text == "" || utf8.RuneCountInString(text) <= MinTextLength {
		return c, &ElementError{Index: i, Err: ErrShortText}
	}

	return domain.Comment{
		ID:        CommentID(username, timestamp, i),
		Username:  username,
		Text:      text,
		Timestamp: timestamp,
		PostURL:   postURL,
		Source:    domain.Source,
	}, nil
}

// CommentID is unique within one extraction only; the timestamp changes on
// every run.
func CommentID(username string, timestamp int64, index int) string {
	return username + "_" + strconv.FormatInt(timestamp, 10) + "_" + strconv.Itoa(index)
}

func candidateFields(s *goquery.Selection) (username, text string) {
	username = s.Find(CommentUsername).First().Text()
	text = s.Find(CommentText).Last().Text()
	return username, text
}

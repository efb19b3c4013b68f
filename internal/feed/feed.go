package feed

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/matheuskafuri/feedview/internal/cache"
	"github.com/matheuskafuri/feedview/internal/config"
	"github.com/mmcdole/gofeed"
)

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]cache.Article, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
	// MaxAge drops items published earlier than now minus MaxAge. Zero keeps
	// everything.
	MaxAge time.Duration
}

func NewRSSFetcher(maxAge time.Duration) *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser(), MaxAge: maxAge}
}

// skipReason names why a feed item did not become an article.
type skipReason string

const (
	skipNoLink  skipReason = "no_link"
	skipNoTitle skipReason = "no_title"
	skipTooOld  skipReason = "too_old"
)

// maxDescription bounds the cached description, in runes.
const maxDescription = 300

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]cache.Article, error) {
	parsed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	now := time.Now()
	var cutoff time.Time
	if f.MaxAge > 0 {
		cutoff = now.Add(-f.MaxAge)
	}

	skipped := make(map[skipReason]int)
	articles := make([]cache.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		a, reason := toArticle(item, source.Name, now, cutoff)
		if reason != "" {
			skipped[reason]++
			continue
		}
		articles = append(articles, a)
	}
	if len(skipped) > 0 {
		slog.Debug("feed items skipped", "source", source.Name,
			string(skipNoLink), skipped[skipNoLink],
			string(skipNoTitle), skipped[skipNoTitle],
			string(skipTooOld), skipped[skipTooOld])
	}
	return articles, nil
}

// toArticle maps a feed item onto a cache row. Items without a link or title,
// or published before cutoff, are rejected with a reason.
func toArticle(item *gofeed.Item, source string, now, cutoff time.Time) (cache.Article, skipReason) {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		return cache.Article{}, skipNoLink
	}
	title := strings.Join(strings.Fields(item.Title), " ")
	if title == "" {
		return cache.Article{}, skipNoTitle
	}
	published := publishedAt(item, now)
	if !cutoff.IsZero() && published.Before(cutoff) {
		return cache.Article{}, skipTooOld
	}
	return cache.Article{
		ID:          articleID(link),
		Source:      source,
		Title:       title,
		Link:        link,
		Description: description(item),
		Published:   published.UTC(),
		FetchedAt:   now,
	}, ""
}

// publishedAt prefers the publish date, then the update date. Undated items
// count as published at fetch time.
func publishedAt(item *gofeed.Item, fallback time.Time) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return *item.PublishedParsed
	case item.UpdatedParsed != nil:
		return *item.UpdatedParsed
	}
	return fallback
}

func description(item *gofeed.Item) string {
	text := item.Description
	if strings.TrimSpace(text) == "" {
		text = item.Content
	}
	return truncate(stripHTML(text), maxDescription)
}

func articleID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

type FetchResult struct {
	Articles []cache.Article
	Errors   []error
}

// FetchAll fetches every source concurrently. A failing source is recorded in
// Errors and does not stop the others.
func FetchAll(ctx context.Context, fetcher Fetcher, sources []config.Source) FetchResult {
	var (
		mu     sync.Mutex
		result FetchResult
		wg     sync.WaitGroup
	)

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			start := time.Now()
			articles, err := fetcher.Fetch(ctx, s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("feed fetch failed", "source", s.Name, "err", err)
				result.Errors = append(result.Errors, err)
				return
			}
			slog.Debug("feed fetched", "source", s.Name, "articles", len(articles), "took", time.Since(start))
			result.Articles = append(result.Articles, articles...)
		}(src)
	}

	wg.Wait()
	return result
}

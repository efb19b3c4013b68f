package article

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// ErrLoadFailure marks a data file that could not be fetched or parsed. It is
// terminal for the session.
var ErrLoadFailure = errors.New("load failure")

// maxBodySize caps how much of a remote data file is read.
const maxBodySize = 64 << 20

// Dataset is the decoded data file.
type Dataset struct {
	Articles    []Article
	LastUpdated time.Time
	// Malformed is set when the file had no usable article list and the
	// set was degraded to empty.
	Malformed bool
	// Skipped counts entries that were not JSON objects.
	Skipped int
}

type rawDataset struct {
	Articles    json.RawMessage `json:"articles"`
	LastUpdated string          `json:"lastUpdated"`
}

// rawArticle decodes an entry without failing on field types, so a bad date
// or a numeric title does not cost the whole article.
type rawArticle struct {
	Title       json.RawMessage `json:"title"`
	URL         json.RawMessage `json:"url"`
	Source      json.RawMessage `json:"source"`
	PublishedAt json.RawMessage `json:"publishedAt"`
}

// timeLayouts are tried in order for publishedAt and lastUpdated.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime returns the zero time when s matches no known layout.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// stringField returns the value of a JSON string, or "" for anything else.
func stringField(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func decodeEntry(e json.RawMessage) (Article, bool) {
	trimmed := bytes.TrimSpace(e)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Article{}, false
	}
	var r rawArticle
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return Article{}, false
	}
	return Article{
		Title:       stringField(r.Title),
		URL:         stringField(r.URL),
		Source:      stringField(r.Source),
		PublishedAt: parseTime(stringField(r.PublishedAt)),
	}, true
}

// Load reads the data file from source, which is either a local path or an
// http(s) URL. No retries are performed.
func Load(ctx context.Context, source string) (Dataset, error) {
	data, err := read(ctx, source)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	return Decode(data)
}

// Decode parses a data file body. A body that is not a JSON object is a load
// failure; a missing or malformed article list degrades to an empty set.
func Decode(data []byte) (Dataset, error) {
	var raw rawDataset
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return Dataset{}, fmt.Errorf("%w: parsing data file: %v", ErrLoadFailure, err)
		}
		// Valid JSON of the wrong shape: keep whatever fields decoded.
	}

	var ds Dataset
	ds.LastUpdated = parseTime(raw.LastUpdated)

	var entries []json.RawMessage
	trimmed := bytes.TrimSpace(raw.Articles)
	if len(trimmed) == 0 || trimmed[0] != '[' || json.Unmarshal(trimmed, &entries) != nil {
		slog.Warn("data file has no usable article list, treating as empty")
		ds.Malformed = true
		ds.Articles = []Article{}
		return ds, nil
	}

	ds.Articles = make([]Article, 0, len(entries))
	for _, e := range entries {
		a, ok := decodeEntry(e)
		if !ok {
			ds.Skipped++
			continue
		}
		ds.Articles = append(ds.Articles, a)
	}
	if ds.Skipped > 0 {
		slog.Warn("skipped malformed articles", "count", ds.Skipped)
	}
	return ds, nil
}

func read(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, errors.New("no data source configured")
	}
	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return fetch(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return data, nil
}

func fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", rawURL, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

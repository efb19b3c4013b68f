package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matheuskafuri/feedview/internal/article"
)

// Export writes the cached articles matching opts to w as a data file,
// newest first. It returns the number of articles written.
func (c *Cache) Export(w io.Writer, opts QueryOpts) (int, error) {
	rows, err := c.GetArticles(opts)
	if err != nil {
		return 0, err
	}

	lastUpdated, err := c.LastRefresh()
	if err != nil {
		lastUpdated = time.Now()
	}

	out := make([]article.Article, len(rows))
	for i, r := range rows {
		out[i] = r.ToArticle()
	}
	if err := article.Encode(w, out, lastUpdated); err != nil {
		return 0, fmt.Errorf("encoding data file: %w", err)
	}
	return len(out), nil
}

// ExportFile atomically replaces path with the data file.
func (c *Cache) ExportFile(path string, opts QueryOpts) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating data dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".articles-*.json")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := c.Export(tmp, opts)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("replacing %s: %w", path, err)
	}
	return n, nil
}

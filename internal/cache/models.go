package cache

import (
	"time"

	"github.com/matheuskafuri/feedview/internal/article"
)

type Article struct {
	ID          string
	Source      string
	Title       string
	Link        string
	Description string
	Published   time.Time
	FetchedAt   time.Time
}

// ToArticle converts a cached row to the data file representation.
func (a Article) ToArticle() article.Article {
	return article.Article{
		Title:       a.Title,
		URL:         a.Link,
		Source:      a.Source,
		PublishedAt: a.Published,
	}
}

type QueryOpts struct {
	Since   time.Time
	Sources []string
	Limit   int
}

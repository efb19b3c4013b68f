package article

import "time"

// Article is a single news item as it appears in the data file.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Store holds the article set loaded at startup. It is never mutated after
// NewStore returns, so it can be read without coordination.
type Store struct {
	articles []Article
}

// NewStore copies articles into a new read-only store. The input is expected
// to be sorted by PublishedAt descending already.
func NewStore(articles []Article) *Store {
	cp := make([]Article, len(articles))
	copy(cp, articles)
	return &Store{articles: cp}
}

// All returns the full article set. Callers must not modify the slice.
func (s *Store) All() []Article {
	if s == nil {
		return nil
	}
	return s.articles
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.articles)
}

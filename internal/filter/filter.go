// Package filter derives the searchable view of an article set.
package filter

import (
	"strings"

	"github.com/matheuskafuri/feedview/internal/article"
)

// Filter returns the articles whose title contains query, ignoring case.
// A blank query returns articles unchanged. Input order is preserved.
func Filter(articles []article.Article, query string) []article.Article {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return articles
	}

	out := make([]article.Article, 0)
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), q) {
			out = append(out, a)
		}
	}
	return out
}

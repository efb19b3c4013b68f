package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/feedview/internal/article"
	"github.com/matheuskafuri/feedview/internal/reveal"
)

type recorder struct {
	events []reveal.Event
}

func (r *recorder) Emit(e reveal.Event) { r.events = append(r.events, e) }

func (r *recorder) count(kind reveal.EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestStartRevealsFirstBatch(t *testing.T) {
	articles := make([]article.Article, 45)
	for i := range articles {
		articles[i] = article.Article{Title: fmt.Sprintf("story %d", i)}
	}
	rec := &recorder{}
	s := New(article.NewStore(articles), Options{BatchSize: 20, Sink: rec})

	s.Start()
	assert.Equal(t, 20, s.Revealed())
	assert.Equal(t, 45, s.Count())
	assert.Equal(t, "", s.Query())

	s.OnProximitySignal()
	s.OnProximitySignal()
	assert.Equal(t, 45, s.Revealed())
	assert.True(t, s.Exhausted())
	s.OnProximitySignal()
	assert.Equal(t, 1, rec.count(reveal.EventExhausted))
}

func TestQueryToNoMatches(t *testing.T) {
	var articles []article.Article
	for i := 0; i < 12; i++ {
		articles = append(articles, article.Article{Title: fmt.Sprintf("a story %d", i)})
	}
	for i := 0; i < 5; i++ {
		articles = append(articles, article.Article{Title: fmt.Sprintf("other %d", i)})
	}
	rec := &recorder{}
	s := New(article.NewStore(articles), Options{BatchSize: 20, Sink: rec})

	s.SetQuery("a")
	require.Equal(t, 12, s.Count())
	require.Equal(t, 12, s.Revealed())

	rec.events = nil
	s.SetQuery("zzz")

	assert.Equal(t, 0, s.Revealed())
	assert.Equal(t, 0, s.Count())
	require.NotEmpty(t, rec.events)
	assert.True(t, rec.events[0].Empty())
	assert.Equal(t, 0, rec.count(reveal.EventAppend))
}

func TestEmptyStore(t *testing.T) {
	for _, q := range []string{"", "tokyo", "  "} {
		rec := &recorder{}
		s := New(article.NewStore(nil), Options{Sink: rec})
		s.SetQuery(q)
		s.OnProximitySignal()

		assert.Equal(t, 0, s.Count())
		assert.Equal(t, 0, s.TotalArticles())
		assert.Equal(t, 0, rec.count(reveal.EventAppend))
		require.NotEmpty(t, rec.events)
		assert.True(t, rec.events[0].Empty())
	}
}

func TestEveryKeystrokeResets(t *testing.T) {
	articles := []article.Article{
		{Title: "Tokyo summit"},
		{Title: "Fishing rights talk"},
		{Title: "tokyo accord"},
	}
	rec := &recorder{}
	s := New(article.NewStore(articles), Options{BatchSize: 1, Sink: rec})
	s.Start()
	s.OnProximitySignal()
	require.Equal(t, 2, s.Revealed())

	for _, q := range []string{"t", "to", "tok", "toky", "tokyo", "tokyo"} {
		s.SetQuery(q)
		assert.Equal(t, 1, s.Revealed(), "query %q", q)
	}
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 7, s.Resets())
	assert.Equal(t, 7, rec.count(reveal.EventReplace))
}

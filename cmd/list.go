package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/matheuskafuri/feedview/internal/article"
	"github.com/matheuskafuri/feedview/internal/reveal"
	"github.com/matheuskafuri/feedview/internal/session"
	"github.com/spf13/cobra"
)

var (
	flagQuery string
	flagPages int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print articles without the interactive viewer",
	Long: `Print the newest articles, one batch per page, filtered by an optional title search.

Pages are revealed the same way the viewer reveals them while scrolling.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		return runList(ctx, cmd.OutOrStdout(), listOpts{
			source:    dataSource(),
			query:     flagQuery,
			pages:     flagPages,
			batchSize: cfg.GetBatchSize(),
		})
	},
}

func init() {
	listCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "only show titles containing this text")
	listCmd.Flags().IntVarP(&flagPages, "pages", "n", 1, "number of batches to print (0 for all)")
}

type listOpts struct {
	source    string
	query     string
	pages     int
	batchSize int
}

// printer renders reveal events as plain text lines.
type printer struct {
	w     io.Writer
	pages int
}

func (p *printer) Emit(e reveal.Event) {
	switch e.Kind {
	case reveal.EventReplace:
		if e.Empty() {
			fmt.Fprintln(p.w, "No articles found.")
			return
		}
		fmt.Fprintf(p.w, "%d articles\n", e.Total)
		fallthrough
	case reveal.EventAppend:
		p.pages++
		for _, it := range e.Items {
			fmt.Fprintf(p.w, "%4d. %s\n      %s · %s\n      %s\n",
				it.Position+1, it.Article.Title, it.Article.Source,
				formatPublished(it.Article.PublishedAt), it.Article.URL)
		}
	case reveal.EventExhausted:
		if e.Total > 0 {
			fmt.Fprintln(p.w, "-- end of list --")
		}
	}
}

func formatPublished(t time.Time) string {
	if t.IsZero() {
		return "date unknown"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

func runList(ctx context.Context, w io.Writer, opts listOpts) error {
	ds, err := article.Load(ctx, opts.source)
	if err != nil {
		return err
	}

	p := &printer{w: w}
	s := session.New(article.NewStore(ds.Articles), session.Options{
		BatchSize: opts.batchSize,
		Sink:      p,
		Logger:    slog.Default(),
	})
	s.SetQuery(opts.query)

	for (opts.pages <= 0 || p.pages < opts.pages) && !s.Exhausted() {
		s.OnProximitySignal()
	}
	if !s.Exhausted() {
		fmt.Fprintf(w, "-- %d more, use --pages to see them --\n", s.Count()-s.Revealed())
	}
	return nil
}

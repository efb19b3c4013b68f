package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/matheuskafuri/feedview/internal/cache"
	"github.com/matheuskafuri/feedview/internal/config"
	"github.com/matheuskafuri/feedview/internal/feed"
	"github.com/spf13/cobra"
)

var (
	flagPruneOlderThan string
	flagRefresh        bool
	flagExportOut      string
	flagExportSince    string
	flagCachePath      string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch configured feeds into the local cache",
	Long: `Fetch every enabled source into the local cache and prune entries older than the retention period.

Skipped when the cache was refreshed within refresh_interval, unless --refresh is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := cache.Open(cachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		out := cmd.OutOrStdout()
		if !flagRefresh && !db.NeedsRefresh(cfg.RefreshDuration()) {
			fmt.Fprintln(out, "Cache is fresh; use --refresh to fetch anyway.")
			return nil
		}

		fmt.Fprintln(out, "Fetching feeds...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		result := feed.FetchAll(ctx, feed.NewRSSFetcher(cfg.RetentionDuration()), cfg.EnabledSources())

		for _, e := range result.Errors {
			fmt.Fprintf(out, "  [warn] %v\n", e)
		}

		if err := db.UpsertArticles(result.Articles); err != nil {
			return fmt.Errorf("caching articles: %w", err)
		}
		if err := db.SetLastRefresh(); err != nil {
			return fmt.Errorf("recording refresh: %w", err)
		}

		pruned, err := db.Prune(cfg.RetentionDuration())
		if err != nil {
			slog.Warn("auto-prune failed", "err", err)
		}
		slog.Info("feeds fetched", "articles", len(result.Articles), "errors", len(result.Errors), "pruned", pruned)
		fmt.Fprintf(out, "Fetched %d article(s) from %d source(s).\n", len(result.Articles), len(cfg.EnabledSources()))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the article data file from the local cache",
	Long:  "Write every cached article, newest first, in the data file format the viewer loads.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := cache.Open(cachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		var opts cache.QueryOpts
		if flagExportSince != "" {
			d, err := parseSince(flagExportSince)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
			opts.Since = time.Now().Add(-d)
		}

		out := flagExportOut
		if out == "" {
			out = config.DataPath()
		}
		if out == "-" {
			_, err := db.Export(cmd.OutOrStdout(), opts)
			return err
		}

		n, err := db.ExportFile(out, opts)
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d article(s) to %s.\n", n, out)
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old articles from the local cache",
	Long: `Delete cached articles older than the retention period and reclaim disk space.

Uses the retention value from config (default: 30d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := cache.Open(cachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		retention := cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := parseSince(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		out := cmd.OutOrStdout()
		if deleted == 0 {
			fmt.Fprintln(out, "Nothing to prune.")
		} else {
			fmt.Fprintf(out, "Pruned %d article(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := cachePath()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cache: %s\n", dbPath)
		fmt.Fprintf(out, "Articles: %d\n", count)
		fmt.Fprintf(out, "Size: %s\n", formatBytes(size))
		if t, err := db.LastRefresh(); err == nil {
			fmt.Fprintf(out, "Last refresh: %s\n", t.Local().Format("Jan 2, 2006 15:04"))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{fetchCmd, exportCmd, pruneCmd, statsCmd} {
		c.Flags().StringVar(&flagCachePath, "cache", "", "path to the cache database")
	}
	fetchCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "fetch even if the cache is fresh")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "output path, or - for stdout (default: data dir)")
	exportCmd.Flags().StringVar(&flagExportSince, "since", "", "only export articles from the last duration (e.g., 7d, 24h)")
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")
}

func cachePath() string {
	if flagCachePath != "" {
		return flagCachePath
	}
	return config.CachePath()
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

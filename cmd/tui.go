package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/matheuskafuri/feedview/internal/article"
	"github.com/matheuskafuri/feedview/internal/config"
	"github.com/matheuskafuri/feedview/internal/tui"
	"github.com/spf13/cobra"
)

func dataSource() string {
	if flagData != "" {
		return flagData
	}
	return cfg.DataSource()
}

func runTUI(cmd *cobra.Command, args []string) error {
	source := dataSource()
	return tui.Run(tui.RunOpts{
		Load: func(ctx context.Context) (article.Dataset, error) {
			return article.Load(ctx, source)
		},
		BatchSize:          cfg.GetBatchSize(),
		ProximityThreshold: cfg.GetProximityThreshold(),
		Debounce:           cfg.DebounceDuration(),
		Logger:             slog.Default(),
	})
}

func parseSince(s string) (time.Duration, error) {
	if d, ok := config.ParseDays(s); ok {
		return d, nil
	}
	return time.ParseDuration(s)
}

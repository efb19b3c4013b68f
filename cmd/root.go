package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/matheuskafuri/feedview/internal/config"
	"github.com/matheuskafuri/feedview/internal/logging"
	"github.com/matheuskafuri/feedview/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagData    string
	flagVerbose bool
)

var (
	cfg       *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "feedview",
	Short: "Terminal news feed viewer",
	Long:  "feedview browses a pre-built list of news articles newest first, with live title search and lazy loading as you scroll.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "path or URL of the article data file")

	versionCmd.Flags().BoolVar(&flagCheckUpdate, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

func setup() error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Level()
	if flagVerbose {
		level = slog.LevelDebug
	}
	_, closer, err := logging.Setup(config.LogPath(), level)
	if err != nil {
		// Logging is best effort; keep going with records dropped.
		slog.SetDefault(logging.Discard())
		return nil
	}
	logCloser = closer
	slog.Debug("configuration loaded", "data", cfg.DataSource(), "batch_size", cfg.GetBatchSize())
	return nil
}

var flagCheckUpdate bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "feedview %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheckUpdate {
			return
		}
		if r := update.Check(cmd.Context(), update.ReleasesURL, version); r != nil {
			fmt.Fprintf(out, "A newer version is available: %s\n", r.LatestVersion)
		} else {
			fmt.Fprintln(out, "No newer release found.")
		}
	},
}

// run executes cmd and closes the log file whatever the outcome. cobra skips
// post-run hooks when RunE fails.
func run(cmd *cobra.Command) error {
	defer closeLog()
	return cmd.Execute()
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

func Execute() {
	if err := run(rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, "feedview:", err)
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

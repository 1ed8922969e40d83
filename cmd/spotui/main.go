package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/studiowebux/spotui/internal/cli"
	"github.com/studiowebux/spotui/internal/config"
	"github.com/studiowebux/spotui/internal/history"
	"github.com/studiowebux/spotui/internal/keybinds"
	"github.com/studiowebux/spotui/internal/logging"
	"github.com/studiowebux/spotui/internal/oauth"
	"github.com/studiowebux/spotui/internal/process"
	"github.com/studiowebux/spotui/internal/version"
)

var (
	appVersion = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spotui",
	Short: "spotui - terminal front end for spotdl",
	Long: `spotui lists your Spotify playlists and downloads them with spotdl.

Run without arguments to start the TUI. A playlist is downloaded into
<download dir>/<name without spaces>; when that folder already exists the
playlist is synced instead.

Examples:
  spotui                               # Start interactive TUI
  spotui -d ~/Music                    # Start with a download folder
  spotui login                         # Authorize the Spotify catalog
  spotui playlists -o json             # List playlists as JSON
  spotui sync "chill mix"              # Download or sync without the TUI
  spotui history -n 20                 # Show the last 20 runs`,
	Version:       appVersion,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize spotui to read your Spotify playlists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd)
	},
}

var playlistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "List the playlists of the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlaylists(cmd)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [query]",
	Short: "Download or sync one playlist without the TUI",
	Long: `Download or sync the playlist best matching query.

The query is fuzzy matched against playlist names, or matched exactly
against ids. Without a query an interactive selector is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		return runSync(cmd, query)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent downloads and syncs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory(cmd)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the download tool is installed and recent enough",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd)
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the effective keybindings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeys(cmd)
	},
}

// Global flags
var (
	flagConfig      string
	flagDownloadDir string
	flagLogLevel    string
)

// Subcommand flags
var (
	flagOutput       string
	flagHistoryLimit int
	flagHistoryClear bool
	flagKeysInit     bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Settings file (default ~/.spotui/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagDownloadDir, "download-dir", "d", "", "Download folder")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")

	playlistsCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml/text)")

	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 10, "Number of runs to show (0 for all)")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every recorded run")

	keysCmd.Flags().BoolVar(&flagKeysInit, "init", false, "Write an example keybinds.json")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(playlistsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(checkCmd)
}

// loadSettings applies the global flags on top of the settings files
func loadSettings() (config.Settings, error) {
	settings, err := config.LoadSettings(flagConfig)
	if err != nil {
		return config.Settings{}, err
	}
	if flagDownloadDir != "" {
		settings.DownloadDir = flagDownloadDir
	}
	if flagLogLevel != "" {
		settings.Logging.Level = flagLogLevel
	}
	return settings, settings.Validate()
}

// signalContext is cancelled on SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM)
}

// runLogin runs the OAuth flow and stores the token
func runLogin(cmd *cobra.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if settings.Catalog.Source != config.SourceSpotify {
		return fmt.Errorf("catalog source is %q, login is only needed for %q", settings.Catalog.Source, config.SourceSpotify)
	}

	ctx, cancel := signalContext()
	defer cancel()

	cfg := oauthConfig(settings)
	tok, err := oauth.Login(ctx, cfg, func(authURL string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Opening browser for authorization...\nIf it does not open, visit:\n%s\n\n", authURL)
		if err := oauth.OpenBrowser(authURL); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to open browser: %v\n", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := oauth.NewTokenStore(config.TokenFile).Save(tok); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
	return nil
}

// runPlaylists prints the catalog
func runPlaylists(cmd *cobra.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger, closer, err := openLog(settings)
	if err != nil {
		return err
	}
	defer closer.Close()

	cat, err := newCatalog(ctx, settings, logger)
	if err != nil {
		return err
	}
	items, err := cat.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}
	return cli.PrintPlaylists(cmd.OutOrStdout(), items, flagOutput)
}

// runSync downloads or syncs one playlist headlessly
func runSync(cmd *cobra.Command, query string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger, closer, err := openLog(settings)
	if err != nil {
		return err
	}
	defer closer.Close()

	cat, err := newCatalog(ctx, settings, logger)
	if err != nil {
		return err
	}

	opts := cli.SyncOptions{
		Query:    query,
		Folder:   rememberedFolder(settings),
		Settings: &settings,
		Catalog:  cat,
		Out:      cmd.OutOrStdout(),
		Log:      logger.WithField("component", "sync"),
	}

	if settings.History.Enabled {
		store, err := history.Open(config.DatabasePath)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: history disabled: %v\n", err)
		} else {
			defer store.Close()
			opts.History = store
		}
	}

	return cli.Sync(ctx, opts)
}

// runHistory prints recent runs
func runHistory(cmd *cobra.Command) error {
	store, err := history.Open(config.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flagHistoryClear {
		n, err := store.Count(ctx)
		if err != nil {
			return err
		}
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs\n", n)
		return nil
	}

	runs, err := store.Recent(ctx, flagHistoryLimit)
	if err != nil {
		return err
	}
	return cli.PrintHistory(cmd.OutOrStdout(), runs, time.Now())
}

// runKeys prints the bindings or writes the example file
func runKeys(cmd *cobra.Command) error {
	if flagKeysInit {
		if _, err := os.Stat(config.KeybindsFile); err == nil {
			return fmt.Errorf("%s already exists", config.KeybindsFile)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := keybinds.CreateExampleConfig(config.KeybindsFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.KeybindsFile)
		return nil
	}

	reg, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}
	return cli.PrintKeys(cmd.OutOrStdout(), reg)
}

// runCheck asks the download command for its version
func runCheck(cmd *cobra.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	name := settings.Commands.Download.Name
	tool, err := version.Check(ctx, process.NewRunner(logging.Discard()), name, version.MinSpotdl)
	if err != nil {
		return err
	}
	if !tool.Supported() {
		return fmt.Errorf("%s %s is older than the supported %s", name, tool.Version, tool.Minimum)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s OK\n", name, tool.Version)
	return nil
}

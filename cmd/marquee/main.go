package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/debuglog"
	"github.com/pders01/marquee/internal/media"
	"github.com/pders01/marquee/internal/trending"
	"github.com/pders01/marquee/internal/tui"
	"github.com/pders01/marquee/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	logLevel   string
	quiet      bool
	allowLocal bool
	topLimit   int
)

var errNoCredentials = errors.New("no TMDB credentials: set TMDB_READ_TOKEN or tmdb.read_token in the config file")

var rootCmd = &cobra.Command{
	Use:           "marquee",
	Short:         "Browse, search and filter a movie catalog from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowser()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("marquee %s\n", Version)
		fmt.Println("Movie catalog browser")
		fmt.Println("github.com/pders01/marquee")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration to ~/.config/marquee/config.toml",
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "marquee", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show the most searched terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		counter, err := trending.Open(cfg)
		if err != nil {
			return err
		}
		defer counter.Close()

		limit := topLimit
		if limit <= 0 {
			limit = cfg.Trending.Limit
		}
		entries, err := counter.Top(context.Background(), limit)
		if err != nil {
			return err
		}
		printTrending(cmd, entries)
		return nil
	},
}

var trendingResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all recorded searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		counter, err := trending.Open(cfg)
		if err != nil {
			return err
		}
		defer counter.Close()

		r, ok := counter.(interface{ Reset(context.Context) error })
		if !ok {
			return fmt.Errorf("trending backend %q cannot be reset", cfg.Trending.Backend)
		}
		if err := r.Reset(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Trending searches cleared")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Skip startup banner")
	rootCmd.PersistentFlags().BoolVar(&allowLocal, "allow-local", false, "Allow local or plain-http API endpoints")
	trendingCmd.Flags().IntVarP(&topLimit, "limit", "n", 0, "Number of entries to show")

	configCmd.AddCommand(configGenCmd)
	trendingCmd.AddCommand(trendingResetCmd)
	rootCmd.AddCommand(versionCmd, configCmd, trendingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and checks the endpoints and the
// trending store path before anything touches them.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	urls := validation.NewBaseURLValidator()
	if allowLocal {
		urls = validation.NewPermissiveBaseURLValidator()
	}
	if cfg.TMDB.BaseURL, err = urls.ValidateAndNormalize(cfg.TMDB.BaseURL); err != nil {
		return nil, fmt.Errorf("tmdb.base_url: %w", err)
	}
	if cfg.TMDB.ImageBaseURL, err = urls.ValidateAndNormalize(cfg.TMDB.ImageBaseURL); err != nil {
		return nil, fmt.Errorf("tmdb.image_base_url: %w", err)
	}

	if strings.EqualFold(cfg.Trending.Backend, "bolt") || cfg.Trending.Backend == "" {
		if cfg.Trending.Path, err = validation.ValidateDBPath(validation.NewFilePathValidator(), cfg.Trending.Path); err != nil {
			return nil, fmt.Errorf("trending.path: %w", err)
		}
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	return debuglog.Setup(debuglog.ParseLogLevel(level), cfg.Log.Path)
}

func runBrowser() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.TMDB.ReadToken == "" && cfg.TMDB.APIKey == "" {
		return errNoCredentials
	}
	if err := setupLogging(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer debuglog.Close()

	counter, err := trending.Open(cfg)
	if err != nil {
		// trending is optional; browsing works without it
		debuglog.Warnf("trending store unavailable, searches will not be counted: %v", err)
		counter = trending.Nop{}
	}
	defer counter.Close()

	tui.ApplyColors(cfg.UI.Colors)
	if !quiet {
		tui.ShowBanner(Version)
	}

	app := tui.NewApp(
		cfg,
		catalog.NewClient(cfg),
		trending.NewNotifier(counter, cfg.Trending.NotifyTimeout),
		media.NewLauncher(cfg),
	)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

func printTrending(cmd *cobra.Command, entries []trending.Entry) {
	if len(entries) == 0 {
		cmd.Println("No searches recorded yet")
		return
	}
	for i, e := range entries {
		label := e.Term
		if e.Title != "" {
			label = fmt.Sprintf("%s (%s)", e.Term, e.Title)
		}
		cmd.Printf("%2d. %-40s %d\n", i+1, label, e.Count)
	}
}

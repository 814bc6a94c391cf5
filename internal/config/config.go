package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	TMDB     TMDBConfig     `mapstructure:"tmdb"`
	Search   SearchConfig   `mapstructure:"search"`
	Scroll   ScrollConfig   `mapstructure:"scroll"`
	Trending TrendingConfig `mapstructure:"trending"`
	UI       UIConfig       `mapstructure:"ui"`
	Media    MediaConfig    `mapstructure:"media"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type TMDBConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	ReadToken    string        `mapstructure:"read_token"`
	APIKey       string        `mapstructure:"api_key"`
	Language     string        `mapstructure:"language"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
}

type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type ScrollConfig struct {
	ThresholdRows int `mapstructure:"threshold_rows"`
}

type TrendingConfig struct {
	Backend       string        `mapstructure:"backend"`
	Path          string        `mapstructure:"path"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Limit         int           `mapstructure:"limit"`
	NotifyTimeout time.Duration `mapstructure:"notify_timeout"`
	OpenTimeout   time.Duration `mapstructure:"open_timeout"`
}

type UIConfig struct {
	Colors UIColors    `mapstructure:"colors"`
	Movie  MovieConfig `mapstructure:"movie"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type MovieConfig struct {
	MaxOverviewLength int `mapstructure:"max_overview_length"`
	WordWrapMaxWidth  int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth  int `mapstructure:"word_wrap_min_width"`
}

type MediaConfig struct {
	Darwin        []string `mapstructure:"darwin"`
	Linux         []string `mapstructure:"linux"`
	Windows       []string `mapstructure:"windows"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit       string `mapstructure:"quit"`
	Filters    string `mapstructure:"filters"`
	Search     string `mapstructure:"search"`
	Retry      string `mapstructure:"retry"`
	OpenPage   string `mapstructure:"open_page"`
	OpenPoster string `mapstructure:"open_poster"`
	Clear      string `mapstructure:"clear"`
	Back       string `mapstructure:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".marquee")

	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "en-US",
			HTTPTimeout:  15 * time.Second,
			UserAgent:    "marquee/1.0 (https://github.com/pders01/marquee)",
		},
		Search: SearchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Scroll: ScrollConfig{
			ThresholdRows: 10,
		},
		Trending: TrendingConfig{
			Backend:       "bolt",
			Path:          filepath.Join(dataDir, "trending.db"),
			RedisAddr:     "127.0.0.1:6379",
			Limit:         5,
			NotifyTimeout: 5 * time.Second,
			OpenTimeout:   1 * time.Second,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#AB8BFF",
				Secondary: "#D6C7FF",
				Accent:    "#FFD166",
				Text:      "#EAEAEA",
				Muted:     "#A8B5DB",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
			Movie: MovieConfig{
				MaxOverviewLength: 150,
				WordWrapMaxWidth:  120,
				WordWrapMinWidth:  40,
			},
		},
		Media: MediaConfig{
			Darwin:        []string{"open"},
			Linux:         []string{"sxiv", "feh", "eog", "xdg-open"},
			Windows:       []string{},
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:       "c",
				Filters:    "f",
				Search:     "s",
				Retry:      "r",
				OpenPage:   "o",
				OpenPoster: "p",
				Clear:      "x",
				Back:       "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
			Path:  filepath.Join(dataDir, "marquee.log"),
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "rundll32"
	default:
		return "open"
	}
}

// setDefaults registers every leaf key so that env bindings and partial
// config files merge per key instead of replacing whole sections.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.read_token", cfg.TMDB.ReadToken)
	v.SetDefault("tmdb.api_key", cfg.TMDB.APIKey)
	v.SetDefault("tmdb.language", cfg.TMDB.Language)
	v.SetDefault("tmdb.http_timeout", cfg.TMDB.HTTPTimeout)
	v.SetDefault("tmdb.user_agent", cfg.TMDB.UserAgent)

	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("scroll.threshold_rows", cfg.Scroll.ThresholdRows)

	v.SetDefault("trending.backend", cfg.Trending.Backend)
	v.SetDefault("trending.path", cfg.Trending.Path)
	v.SetDefault("trending.redis_addr", cfg.Trending.RedisAddr)
	v.SetDefault("trending.redis_password", cfg.Trending.RedisPassword)
	v.SetDefault("trending.redis_db", cfg.Trending.RedisDB)
	v.SetDefault("trending.limit", cfg.Trending.Limit)
	v.SetDefault("trending.notify_timeout", cfg.Trending.NotifyTimeout)
	v.SetDefault("trending.open_timeout", cfg.Trending.OpenTimeout)

	c := cfg.UI.Colors
	v.SetDefault("ui.colors.primary", c.Primary)
	v.SetDefault("ui.colors.secondary", c.Secondary)
	v.SetDefault("ui.colors.accent", c.Accent)
	v.SetDefault("ui.colors.text", c.Text)
	v.SetDefault("ui.colors.muted", c.Muted)
	v.SetDefault("ui.colors.error", c.Error)
	v.SetDefault("ui.colors.success", c.Success)
	v.SetDefault("ui.movie.max_overview_length", cfg.UI.Movie.MaxOverviewLength)
	v.SetDefault("ui.movie.word_wrap_max_width", cfg.UI.Movie.WordWrapMaxWidth)
	v.SetDefault("ui.movie.word_wrap_min_width", cfg.UI.Movie.WordWrapMinWidth)

	v.SetDefault("media.darwin", cfg.Media.Darwin)
	v.SetDefault("media.linux", cfg.Media.Linux)
	v.SetDefault("media.windows", cfg.Media.Windows)
	v.SetDefault("media.default_opener", cfg.Media.DefaultOpener)

	b := cfg.Keys.Bindings
	v.SetDefault("keys.modifier", cfg.Keys.Modifier)
	v.SetDefault("keys.bindings.quit", b.Quit)
	v.SetDefault("keys.bindings.filters", b.Filters)
	v.SetDefault("keys.bindings.search", b.Search)
	v.SetDefault("keys.bindings.retry", b.Retry)
	v.SetDefault("keys.bindings.open_page", b.OpenPage)
	v.SetDefault("keys.bindings.open_poster", b.OpenPoster)
	v.SetDefault("keys.bindings.clear", b.Clear)
	v.SetDefault("keys.bindings.back", b.Back)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.path", cfg.Log.Path)
}

func Load(configPath string) (*Config, error) {
	// Secrets usually live in a .env next to the binary; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, defaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "marquee")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MARQUEE")
	v.AutomaticEnv()
	_ = v.BindEnv("tmdb.read_token", "MARQUEE_TMDB_READ_TOKEN", "TMDB_READ_TOKEN")
	_ = v.BindEnv("tmdb.api_key", "MARQUEE_TMDB_API_KEY", "TMDB_API_KEY")
	_ = v.BindEnv("trending.redis_addr", "MARQUEE_REDIS_ADDR", "REDIS_ADDR")
	_ = v.BindEnv("trending.redis_password", "MARQUEE_REDIS_PASSWORD", "REDIS_PASSWORD")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Trending.Path = expandPath(cfg.Trending.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

// Save writes cfg as TOML. Secrets are never written; they belong in the
// environment or a .env file.
func Save(config *Config, path string) error {
	v := viper.New()

	tmdbCfg := map[string]interface{}{
		"base_url":       config.TMDB.BaseURL,
		"image_base_url": config.TMDB.ImageBaseURL,
		"language":       config.TMDB.Language,
		"http_timeout":   config.TMDB.HTTPTimeout.String(),
		"user_agent":     config.TMDB.UserAgent,
	}

	trendingCfg := map[string]interface{}{
		"backend":        config.Trending.Backend,
		"path":           config.Trending.Path,
		"redis_addr":     config.Trending.RedisAddr,
		"redis_db":       config.Trending.RedisDB,
		"limit":          config.Trending.Limit,
		"notify_timeout": config.Trending.NotifyTimeout.String(),
		"open_timeout":   config.Trending.OpenTimeout.String(),
	}

	v.Set("tmdb", tmdbCfg)
	v.Set("search", map[string]interface{}{"debounce": config.Search.Debounce.String()})
	v.Set("scroll", map[string]interface{}{"threshold_rows": config.Scroll.ThresholdRows})
	v.Set("trending", trendingCfg)
	v.Set("ui", map[string]interface{}{
		"colors": map[string]interface{}{
			"primary":   config.UI.Colors.Primary,
			"secondary": config.UI.Colors.Secondary,
			"accent":    config.UI.Colors.Accent,
			"text":      config.UI.Colors.Text,
			"muted":     config.UI.Colors.Muted,
			"error":     config.UI.Colors.Error,
			"success":   config.UI.Colors.Success,
		},
		"movie": map[string]interface{}{
			"max_overview_length": config.UI.Movie.MaxOverviewLength,
			"word_wrap_max_width": config.UI.Movie.WordWrapMaxWidth,
			"word_wrap_min_width": config.UI.Movie.WordWrapMinWidth,
		},
	})
	v.Set("media", map[string]interface{}{
		"darwin":         config.Media.Darwin,
		"linux":          config.Media.Linux,
		"windows":        config.Media.Windows,
		"default_opener": config.Media.DefaultOpener,
	})
	v.Set("keys", map[string]interface{}{
		"modifier": config.Keys.Modifier,
		"bindings": map[string]interface{}{
			"quit":        config.Keys.Bindings.Quit,
			"filters":     config.Keys.Bindings.Filters,
			"search":      config.Keys.Bindings.Search,
			"retry":       config.Keys.Bindings.Retry,
			"open_page":   config.Keys.Bindings.OpenPage,
			"open_poster": config.Keys.Bindings.OpenPoster,
			"clear":       config.Keys.Bindings.Clear,
			"back":        config.Keys.Bindings.Back,
		},
	})
	v.Set("log", map[string]interface{}{"level": config.Log.Level, "path": config.Log.Path})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}

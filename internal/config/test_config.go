package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.TMDB.BaseURL = "http://127.0.0.1:0"
	cfg.TMDB.ReadToken = "test-token"
	cfg.TMDB.HTTPTimeout = 5 * time.Second
	cfg.TMDB.UserAgent = "marquee-test/1.0"
	cfg.Search.Debounce = 10 * time.Millisecond
	cfg.Trending.Backend = "off"
	cfg.Trending.Path = ""
	cfg.Trending.NotifyTimeout = time.Second
	cfg.Log.Level = "off"
	cfg.Log.Path = ""
	return cfg
}

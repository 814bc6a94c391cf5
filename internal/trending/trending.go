// Package trending records which searches users run and which movie topped
// each one, so the browse view can show a "trending" strip.
package trending

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/debuglog"
)

// Entry is one tracked search term and the movie that topped it last.
type Entry struct {
	Term       string `json:"term"`
	Count      int64  `json:"count"`
	MovieID    int64  `json:"movie_id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

// Counter stores search counts.
type Counter interface {
	Record(ctx context.Context, term string, movie catalog.Movie) error
	Top(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// Normalize folds a raw search term to the key it is counted under.
func Normalize(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}

// Open builds the counter selected by cfg.Trending.Backend.
func Open(cfg *config.Config) (Counter, error) {
	tc := cfg.Trending
	switch strings.ToLower(tc.Backend) {
	case "", "bolt":
		if tc.Path == "" {
			return nil, fmt.Errorf("trending: bolt backend needs a path")
		}
		if err := os.MkdirAll(filepath.Dir(tc.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating trending directory: %w", err)
		}
		return NewBoltCounter(tc.Path, tc.OpenTimeout)
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout(tc.OpenTimeout))
		defer cancel()
		return NewRedisCounter(ctx, tc.RedisAddr, tc.RedisPassword, tc.RedisDB)
	case "off", "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("trending: unknown backend %q", tc.Backend)
	}
}

func dialTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Second
	}
	return d
}

// Nop discards records and reports no trending entries.
type Nop struct{}

func (Nop) Record(context.Context, string, catalog.Movie) error { return nil }
func (Nop) Top(context.Context, int) ([]Entry, error) { return nil, nil }
func (Nop) Close() error { return nil }

// Notifier records searches without letting failures reach the caller.
type Notifier struct {
	counter Counter
	timeout time.Duration
}

func NewNotifier(counter Counter, timeout time.Duration) *Notifier {
	if counter == nil {
		counter = Nop{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{counter: counter, timeout: timeout}
}

// Notify records term against movie. Errors are logged and dropped.
func (n *Notifier) Notify(ctx context.Context, term string, movie catalog.Movie) {
	if Normalize(term) == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	if err := n.counter.Record(ctx, term, movie); err != nil {
		debuglog.Warnf("trending: recording %q: %v", term, err)
	}
}

// Top returns up to limit entries, or nil when the counter fails.
func (n *Notifier) Top(ctx context.Context, limit int) []Entry {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	entries, err := n.counter.Top(ctx, limit)
	if err != nil {
		debuglog.Warnf("trending: loading top %d: %v", limit, err)
		return nil
	}
	return entries
}

func rank(entries []Entry, n int) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Term < entries[j].Term
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

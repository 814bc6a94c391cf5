package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/marquee/internal/browse"
	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/debounce"
	"github.com/pders01/marquee/internal/query"
	"github.com/pders01/marquee/internal/scroll"
	"github.com/pders01/marquee/internal/trending"
)

const pageSize = 20

// catalogServer is a small stand-in for the TMDB v3 API.
type catalogServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []url.URL
	failures int
}

func newCatalogServer(t *testing.T) *catalogServer {
	t.Helper()
	cs := &catalogServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/3/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		cs.list(w, r, "popular", 3)
	})
	mux.HandleFunc("/3/search/movie", func(w http.ResponseWriter, r *http.Request) {
		cs.list(w, r, r.URL.Query().Get("query"), 2)
	})
	mux.HandleFunc("/3/genre/movie/list", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"genres": []map[string]any{
			{"id": 28, "name": "Action"},
			{"id": 18, "name": "Drama"},
		}})
	})
	mux.HandleFunc("/3/movie/438631", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"id":      438631,
			"title":   "Dune",
			"runtime": 155,
			"budget":  165000000,
			"genres":  []map[string]any{{"id": 878, "name": "Science Fiction"}},
		})
	})
	mux.HandleFunc("/3/movie/438631/credits", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"cast": []map[string]any{
			{"id": 1, "name": "Timothée Chalamet", "character": "Paul Atreides"},
		}})
	})
	cs.Server = httptest.NewServer(mux)
	t.Cleanup(cs.Close)
	return cs
}

func (cs *catalogServer) list(w http.ResponseWriter, r *http.Request, prefix string, totalPages int) {
	cs.mu.Lock()
	cs.requests = append(cs.requests, *r.URL)
	fail := cs.failures > 0
	if fail {
		cs.failures--
	}
	cs.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer test-token" {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]any{"success": false, "status_message": "Invalid API key"})
		return
	}
	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	results := make([]map[string]any, pageSize)
	for i := range results {
		results[i] = map[string]any{
			"id":           page*1000 + i,
			"title":        fmt.Sprintf("%s %d-%d", prefix, page, i),
			"vote_average": 7.1,
			"release_date": "2021-10-22",
			"poster_path":  fmt.Sprintf("/%d.jpg", page*1000+i),
		}
	}
	writeJSON(w, map[string]any{
		"page":          page,
		"results":       results,
		"total_pages":   totalPages,
		"total_results": totalPages * pageSize,
	})
}

func (cs *catalogServer) Requests() []url.URL {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]url.URL(nil), cs.requests...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newClient(cs *catalogServer) *catalog.Client {
	cfg := config.TestConfig()
	cfg.TMDB.BaseURL = cs.URL + "/3"
	cfg.TMDB.ImageBaseURL = cs.URL + "/t/p"
	cfg.TMDB.HTTPTimeout = 5 * time.Second
	return catalog.NewClient(cfg)
}

func execute(t *testing.T, client *catalog.Client, req browse.Request) browse.Response {
	t.Helper()
	page, err := client.Query(context.Background(), req.Descriptor)
	return browse.Response{Request: req, Page: page, Err: err}
}

func TestBrowse_DiscoverScrollThenSearch(t *testing.T) {
	cs := newCatalogServer(t)
	client := newClient(cs)
	orch := browse.New()
	sentinel := scroll.New(scroll.DefaultThreshold)
	input := debounce.New(10 * time.Millisecond)

	counter, err := trending.NewBoltCounter(filepath.Join(t.TempDir(), "trending.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { counter.Close() })
	notifier := trending.NewNotifier(counter, time.Second)

	// initial load is a discover of page 1
	req, ok := orch.SetIdentity(input.Committed(), query.FilterSet{})
	require.True(t, ok)
	out := orch.Apply(execute(t, client, req))
	require.True(t, out.Applied)
	assert.Nil(t, out.Notify)
	assert.Len(t, orch.Results().Items, pageSize)

	// scrolling to the bottom zone raises exactly one append
	pos := scroll.Position{Offset: 5, Visible: 10, Total: pageSize}
	require.True(t, sentinel.Observe(pos, orch))
	req, ok = orch.ScrollBottom()
	require.True(t, ok)
	assert.False(t, sentinel.Observe(pos, orch), "no second event without leaving the zone")
	orch.Apply(execute(t, client, req))

	res := orch.Results()
	assert.Len(t, res.Items, 2*pageSize)
	assert.Equal(t, 2, res.CurrentPage)
	assert.True(t, res.HasMore)

	// typing settles to one search
	var seq uint64
	for _, raw := range []string{"d", "du", "dun", "dune"} {
		seq, _ = input.Set(raw)
	}
	_, ok = input.Settle(seq - 1)
	assert.False(t, ok)
	term, ok := input.Settle(seq)
	require.True(t, ok)

	sentinel.Reset()
	req, ok = orch.SetIdentity(term, query.FilterSet{Genres: []int{28}})
	require.True(t, ok)
	out = orch.Apply(execute(t, client, req))
	require.NotNil(t, out.Notify)
	notifier.Notify(context.Background(), out.Notify.Term, out.Notify.Top)

	res = orch.Results()
	assert.Len(t, res.Items, pageSize)
	assert.Equal(t, "dune 1-0", res.Items[0].Title)

	requests := cs.Requests()
	require.Len(t, requests, 3)
	assert.Equal(t, "/3/discover/movie", requests[0].Path)
	assert.Equal(t, "popularity.desc", requests[0].Query().Get("sort_by"))
	assert.Equal(t, "2", requests[1].Query().Get("page"))
	assert.Equal(t, "/3/search/movie", requests[2].Path)
	assert.Equal(t, "dune", requests[2].Query().Get("query"))
	assert.Empty(t, requests[2].Query().Get("with_genres"), "search never carries filters")

	top, err := counter.Top(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "dune", top[0].Term)
	assert.Equal(t, int64(1), top[0].Count)
	assert.Equal(t, "dune 1-0", top[0].Title)
}

func TestBrowse_AppendStopsAtLastPage(t *testing.T) {
	cs := newCatalogServer(t)
	client := newClient(cs)
	orch := browse.New()

	req, _ := orch.SetIdentity("heat", query.FilterSet{})
	orch.Apply(execute(t, client, req))

	req, ok := orch.ScrollBottom()
	require.True(t, ok)
	out := orch.Apply(execute(t, client, req))
	require.NotNil(t, out.Notify, "appended search pages are counted")
	assert.Equal(t, "heat", out.Notify.Term)
	assert.Equal(t, "heat 2-0", out.Notify.Top.Title)

	_, ok = orch.ScrollBottom()
	assert.False(t, ok)
	assert.True(t, orch.Results().IsEndOfResults())
	assert.Len(t, cs.Requests(), 2)
}

func TestBrowse_LateResponseFromOldQueryIsDropped(t *testing.T) {
	cs := newCatalogServer(t)
	client := newClient(cs)
	orch := browse.New()

	alien, _ := orch.SetIdentity("alien", query.FilterSet{})
	batman, _ := orch.SetIdentity("batman", query.FilterSet{})

	alienResp := execute(t, client, alien)
	batmanResp := execute(t, client, batman)

	out := orch.Apply(batmanResp)
	assert.True(t, out.Applied)
	out = orch.Apply(alienResp)
	assert.True(t, out.Stale)
	assert.Nil(t, out.Notify)

	res := orch.Results()
	require.NotEmpty(t, res.Items)
	assert.Equal(t, "batman 1-0", res.Items[0].Title)
}

func TestBrowse_DiscoverFilters(t *testing.T) {
	cs := newCatalogServer(t)
	client := newClient(cs)
	orch := browse.New()

	filters := query.FilterSet{}.Toggle(28).Toggle(18)
	filters.Rating = "7"
	filters.Year = "2021"

	req, ok := orch.SetIdentity("", filters)
	require.True(t, ok)
	orch.Apply(execute(t, client, req))

	requests := cs.Requests()
	require.Len(t, requests, 1)
	q := requests[0].Query()
	assert.Equal(t, "28,18", q.Get("with_genres"))
	assert.Equal(t, "7", q.Get("vote_average.gte"))
	assert.Equal(t, "2021", q.Get("year"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Empty(t, q.Get("query"))

	_, ok = orch.SetIdentity("", filters.Clone())
	assert.False(t, ok, "unchanged filters do not refetch")
}

func TestBrowse_ServerErrorThenRetry(t *testing.T) {
	cs := newCatalogServer(t)
	cs.failures = 1
	client := newClient(cs)
	orch := browse.New()

	req, _ := orch.SetIdentity("", query.FilterSet{})
	orch.Apply(execute(t, client, req))

	res := orch.Results()
	assert.Equal(t, browse.StateError, orch.State())
	assert.Equal(t, catalog.GenericErrorMessage, res.ErrorMessage)
	assert.Empty(t, res.Items)

	req, ok := orch.Retry()
	require.True(t, ok)
	orch.Apply(execute(t, client, req))
	assert.Equal(t, browse.StateIdle, orch.State())
	assert.Len(t, orch.Results().Items, pageSize)
}

func TestCatalog_GenresAndDetails(t *testing.T) {
	cs := newCatalogServer(t)
	client := newClient(cs)

	genres, err := client.Genres(context.Background())
	require.NoError(t, err)
	assert.Len(t, genres, 2)

	d, err := client.Details(context.Background(), 438631)
	require.NoError(t, err)
	assert.Equal(t, "Dune", d.Title)
	assert.Equal(t, "2h 35m", d.RuntimeLabel())
	assert.Equal(t, "$165,000,000", catalog.FormatUSD(d.Budget))
	require.Len(t, d.Cast, 1)
	assert.Equal(t, "Paul Atreides", d.Cast[0].Character)
	assert.Equal(t, cs.URL+"/t/p/w500/x.jpg", client.PosterURL("/x.jpg", ""))
}

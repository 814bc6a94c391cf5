package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/query"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.TestConfig()
	cfg.TMDB.BaseURL = server.URL + "/3"
	return NewClient(cfg)
}

func TestClient_QuerySearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/movie", r.URL.Path)
		assert.Equal(t, "batman", r.URL.Query().Get("query"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "marquee-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page":2,"total_pages":3,"total_results":45,"results":[
			{"id":268,"title":"Batman","vote_average":7.2,"release_date":"1989-06-23","original_language":"en","poster_path":"/b.jpg"},
			{"id":364,"title":"Batman Returns","vote_average":6.9,"release_date":"1992-06-19"}]}`))
	})

	page, err := client.Query(context.Background(), query.Build("batman", query.FilterSet{}, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(268), page.Items[0].ID)
	assert.Equal(t, "1989", page.Items[0].Year())
	assert.Equal(t, "7.2", page.Items[0].RatingLabel())
}

func TestClient_QueryDiscoverFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/3/discover/movie", r.URL.Path)
		assert.Equal(t, "popularity.desc", q.Get("sort_by"))
		assert.Equal(t, "28,12", q.Get("with_genres"))
		assert.Equal(t, "7", q.Get("vote_average.gte"))
		assert.Equal(t, "2020", q.Get("year"))
		w.Write([]byte(`{"page":1,"total_pages":1,"results":[]}`))
	})

	d := query.Build("", query.FilterSet{Genres: []int{28, 12}, Rating: "7", Year: "2020"}, 1)
	page, err := client.Query(context.Background(), d)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "non success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"status_code":7,"status_message":"Invalid API key"}`))
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
				assert.Equal(t, "Invalid API key", se.Message)
				assert.Equal(t, GenericErrorMessage, UserMessage(err))
			},
		},
		{
			name: "logical failure in 200 body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
			},
			check: func(t *testing.T, err error) {
				var re *RemoteError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, "Movie not found!", re.Message)
				assert.Equal(t, RemoteErrorMessage, UserMessage(err))
			},
		},
		{
			name: "success false in 200 body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":false,"status_message":"The resource you requested could not be found."}`))
			},
			check: func(t *testing.T, err error) {
				var re *RemoteError
				require.True(t, errors.As(err, &re))
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"results": [`))
			},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Equal(t, GenericErrorMessage, UserMessage(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Query(context.Background(), query.Build("", query.FilterSet{}, 1))
			tt.check(t, err)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	cfg := config.TestConfig()
	cfg.TMDB.BaseURL = url
	client := NewClient(cfg)

	_, err := client.Query(context.Background(), query.Build("", query.FilterSet{}, 1))
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Equal(t, GenericErrorMessage, UserMessage(err))
}

func TestClient_APIKeyAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k123", r.URL.Query().Get("api_key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":35,"name":"Comedy"}]}`))
	}))
	defer server.Close()

	cfg := config.TestConfig()
	cfg.TMDB.BaseURL = server.URL
	cfg.TMDB.ReadToken = ""
	cfg.TMDB.APIKey = "k123"
	client := NewClient(cfg)

	genres, err := client.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}}, genres)
}

func TestClient_JWTInAPIKeySlot(t *testing.T) {
	cfg := config.TestConfig()
	cfg.TMDB.ReadToken = ""
	cfg.TMDB.APIKey = "aaa.bbb.ccc"
	client := NewClient(cfg)
	assert.Equal(t, "aaa.bbb.ccc", client.readToken)
	assert.Empty(t, client.apiKey)
}

func TestClient_Details(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/movie/603":
			w.Write([]byte(`{"id":603,"title":"The Matrix","tagline":"Welcome to the Real World.","runtime":136,
				"budget":63000000,"revenue":463517383,"status":"Released","original_language":"en",
				"genres":[{"id":28,"name":"Action"}],
				"production_companies":[{"id":1,"name":"Village Roadshow"},{"id":2,"name":"Groucho II"},{"id":3,"name":"Silver"}]}`))
		case "/3/movie/603/credits":
			w.Write([]byte(`{"cast":[{"id":6384,"name":"Keanu Reeves","character":"Neo"}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	d, err := client.Details(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", d.Title)
	assert.Equal(t, "2h 16m", d.RuntimeLabel())
	assert.Equal(t, "$63,000,000", FormatUSD(d.Budget))
	assert.Equal(t, "Village Roadshow, Groucho II", d.Production(2))
	require.Len(t, d.Cast, 1)
	assert.Equal(t, "Neo", d.Cast[0].Character)
}

func TestClient_DetailsWithoutCredits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/3/movie/1" {
			w.Write([]byte(`{"id":1,"title":"Solo"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	d, err := client.Details(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, d.Cast)
}

func TestClient_PosterURL(t *testing.T) {
	client := NewClient(config.TestConfig())
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", client.PosterURL("/abc.jpg", ""))
	assert.Empty(t, client.PosterURL("", "w185"))
	assert.Equal(t, "https://www.themoviedb.org/movie/42", PageURL(42))
}

func TestMovieHelpers(t *testing.T) {
	m := Movie{Overview: "abcdef"}
	assert.Equal(t, "N/A", m.Year())
	assert.Equal(t, "N/A", m.RatingLabel())
	assert.Equal(t, "abc...", m.ShortOverview(3))
	assert.Equal(t, "No description available.", Movie{}.ShortOverview(10))
	assert.Equal(t, "N/A", Details{}.RuntimeLabel())
	assert.Equal(t, "N/A", FormatUSD(0))
	assert.Equal(t, "$999", FormatUSD(999))
	assert.Equal(t, "$1,000", FormatUSD(1000))
}

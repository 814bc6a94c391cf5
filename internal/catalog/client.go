// Package catalog is the client for the remote movie catalog (TMDB v3).
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/debuglog"
	"github.com/pders01/marquee/internal/query"
)

// Querier is the part of the client the browse loop depends on.
type Querier interface {
	Query(ctx context.Context, d query.Descriptor) (Page, error)
}

type Client struct {
	baseURL      string
	imageBaseURL string
	readToken    string
	apiKey       string
	language     string
	userAgent    string
	http         *http.Client
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.TMDB.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	readToken, apiKey := cfg.TMDB.ReadToken, cfg.TMDB.APIKey
	// v4 read tokens are JWTs and are sometimes pasted into the api_key slot.
	if strings.TrimSpace(readToken) == "" && looksLikeJWT(apiKey) {
		readToken, apiKey = apiKey, ""
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.TMDB.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.TMDB.ImageBaseURL, "/"),
		readToken:    readToken,
		apiKey:       apiKey,
		language:     cfg.TMDB.Language,
		userAgent:    cfg.TMDB.UserAgent,
		http:         &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.http = hc
	}
}

type listResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// failureEnvelope covers the shapes the API uses to report a failure in a
// 2xx body: TMDB's success/status_message and the OMDb style Response/Error.
type failureEnvelope struct {
	Success       *bool  `json:"success"`
	StatusMessage string `json:"status_message"`
	Response      string `json:"Response"`
	Error         string `json:"Error"`
}

func (f failureEnvelope) failed() (string, bool) {
	if f.Response == "False" {
		msg := f.Error
		if msg == "" {
			msg = "Failed to fetch movies"
		}
		return msg, true
	}
	if f.Success != nil && !*f.Success {
		msg := f.StatusMessage
		if msg == "" {
			msg = "Failed to fetch movies"
		}
		return msg, true
	}
	return "", false
}

// Query runs a search or discover request for one page.
func (c *Client) Query(ctx context.Context, d query.Descriptor) (Page, error) {
	var resp listResponse
	if err := c.getJSON(ctx, "query "+d.Mode.String(), d.Path(), d.Values(), &resp); err != nil {
		return Page{}, err
	}
	page := resp.Page
	if page == 0 {
		page = d.Page
	}
	items := resp.Results
	if items == nil {
		items = []Movie{}
	}
	return Page{
		Items:        items,
		Page:         page,
		TotalPages:   resp.TotalPages,
		TotalResults: resp.TotalResults,
	}, nil
}

// Genres fetches the movie genre reference list.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var resp struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.getJSON(ctx, "genres", "/genre/movie/list", url.Values{}, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// Details fetches the full record and billed cast for one movie.
func (c *Client) Details(ctx context.Context, id int64) (*Details, error) {
	var d Details
	path := "/movie/" + strconv.FormatInt(id, 10)
	if err := c.getJSON(ctx, "details", path, url.Values{}, &d); err != nil {
		return nil, err
	}

	var credits struct {
		Cast []CastMember `json:"cast"`
	}
	if err := c.getJSON(ctx, "credits", path+"/credits", url.Values{}, &credits); err != nil {
		// details without cast are still worth showing
		debuglog.Warnf("credits for movie %d: %v", id, err)
	}
	d.Cast = credits.Cast
	return &d, nil
}

// PosterURL builds an image URL for a poster path at the given size ("w500").
func (c *Client) PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return c.imageBaseURL + "/" + size + "/" + strings.TrimLeft(path, "/")
}

// PageURL is the public web page for a movie.
func PageURL(id int64) string {
	return "https://www.themoviedb.org/movie/" + strconv.FormatInt(id, 10)
}

func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, out any) error {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	if c.language != "" && params.Get("language") == "" {
		params.Set("language", c.language)
	}
	endpoint := c.baseURL + path
	if enc := params.Encode(); enc != "" {
		endpoint += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.readToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.readToken)
	}

	debuglog.WithFields(map[string]interface{}{"op": op, "path": path}).Debugf("catalog request")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	var envelope failureEnvelope
	_ = json.Unmarshal(body, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Message: envelope.StatusMessage}
	}
	if msg, failed := envelope.failed(); failed {
		return &RemoteError{Op: op, Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

func looksLikeJWT(s string) bool {
	return strings.Count(strings.TrimSpace(s), ".") == 2
}

// IsTransport reports whether err is a network level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

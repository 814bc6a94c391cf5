package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/marquee/internal/browse"
	"github.com/pders01/marquee/internal/catalog"
)

// fetchPage runs req against the catalog. cancel releases the fetch
// context; a newer request cancels it earlier.
func (a *App) fetchPage(ctx context.Context, cancel context.CancelFunc, req browse.Request) tea.Cmd {
	cat := a.catalog
	return func() tea.Msg {
		defer cancel()
		page, err := cat.Query(ctx, req.Descriptor)
		return pageLoadedMsg{resp: browse.Response{Request: req, Page: page, Err: err}}
	}
}

func (a *App) loadGenres() tea.Cmd {
	cat := a.catalog
	return func() tea.Msg {
		genres, err := cat.Genres(context.Background())
		return genresLoadedMsg{genres: genres, err: err}
	}
}

func (a *App) loadTrending() tea.Cmd {
	if a.notifier == nil {
		return nil
	}
	notifier, limit := a.notifier, a.config.Trending.Limit
	return func() tea.Msg {
		return trendingLoadedMsg{entries: notifier.Top(context.Background(), limit)}
	}
}

// recordSearch counts a successful search. The browser never waits on it
// and failures only show up in the log.
func (a *App) recordSearch(n browse.Notify) tea.Cmd {
	if a.notifier == nil {
		return nil
	}
	notifier, limit := a.notifier, a.config.Trending.Limit
	return func() tea.Msg {
		ctx := context.Background()
		notifier.Notify(ctx, n.Term, n.Top)
		return trendingLoadedMsg{entries: notifier.Top(ctx, limit)}
	}
}

// loadDetails fetches the full record for m and renders it to markdown.
func (a *App) loadDetails(m catalog.Movie) tea.Cmd {
	cat := a.catalog
	r, rerr := a.getRenderer()
	return func() tea.Msg {
		d, err := cat.Details(context.Background(), m.ID)
		if err != nil {
			return detailsRenderedMsg{id: m.ID, err: err}
		}
		md := detailsMarkdown(d)
		if rerr != nil {
			return detailsRenderedMsg{id: m.ID, details: d, content: md}
		}
		rendered, err := r.Render(md)
		if err != nil {
			return detailsRenderedMsg{id: m.ID, details: d, content: fmt.Sprintf("# Error\n\nFailed to render details: %s\n\nPress Escape to go back.", err)}
		}
		return detailsRenderedMsg{id: m.ID, details: d, content: rendered}
	}
}

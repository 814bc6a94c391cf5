package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/marquee/internal/browse"
	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/filters"
	"github.com/pders01/marquee/internal/query"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
	bindings    config.KeyBindings
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{app: app, config: cfg, modifierKey: modifierKey, bindings: cfg.Keys.Bindings}
}

// bound returns the full key string for a configured binding. Bindings that
// are named keys (esc) are used as they are.
func (kh *KeyHandler) bound(binding string) string {
	if len([]rune(binding)) == 1 {
		return kh.modifierKey + binding
	}
	return binding
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if model, cmd, handled := kh.handleGlobalKeys(key); handled {
		return model, cmd
	}

	switch kh.app.view {
	case ViewBrowse:
		if kh.app.searchInput.Focused() {
			return kh.handleSearchInput(msg)
		}
		return kh.handleMovieList(msg)
	case ViewFilters:
		return kh.handleFilters(msg)
	case ViewDetails:
		var cmd tea.Cmd
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd
	}
	return kh.app, nil
}

// handleGlobalKeys handles the modifier bindings available in every view.
func (kh *KeyHandler) handleGlobalKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c", kh.bound(kh.bindings.Quit):
		return kh.app, tea.Quit, true
	case kh.bound(kh.bindings.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.bound(kh.bindings.Filters):
		model, cmd := kh.toggleFilters()
		return model, cmd, true
	case kh.bound(kh.bindings.Search):
		model, cmd := kh.focusSearch()
		return model, cmd, true
	case kh.bound(kh.bindings.Retry):
		return kh.app, kh.retry(), true
	case kh.bound(kh.bindings.Clear):
		return kh.app, kh.clearFilters(), true
	case kh.bound(kh.bindings.OpenPage):
		if m, ok := kh.app.selectedMovie(); ok {
			return kh.app, kh.openURL(catalog.PageURL(m.ID)), true
		}
		return kh.app, nil, true
	case kh.bound(kh.bindings.OpenPoster):
		if m, ok := kh.app.selectedMovie(); ok && m.PosterPath != "" {
			return kh.app, kh.openURL(kh.app.catalog.PosterURL(m.PosterPath, "original")), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// enter commits immediately instead of waiting out the quiet period
		if len(kh.app.movieList.Items()) > 0 {
			kh.app.searchInput.Blur()
		}
		if _, ok := kh.app.debounce.Flush(); ok {
			return kh.app, kh.app.applyIdentity()
		}
		return kh.app, nil
	case "tab", "down":
		if len(kh.app.movieList.Items()) > 0 {
			kh.app.searchInput.Blur()
		}
		return kh.app, nil
	}
	return kh.delegateToSearchInput(msg)
}

// delegateToSearchInput feeds the key to the input and schedules a settle
// tick whenever the raw term changed.
func (kh *KeyHandler) delegateToSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)

	seq, changed := kh.app.debounce.Set(sanitizeSearchInput(kh.app.searchInput.Value()))
	if !changed {
		return kh.app, cmd
	}
	wait := kh.app.debounce.Delay
	return kh.app, tea.Batch(cmd, tea.Tick(wait, func(time.Time) tea.Msg { return searchSettledMsg{seq: seq} }))
}

func (kh *KeyHandler) handleMovieList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "/", "i":
		kh.app.searchInput.Focus()
		return kh.app, nil
	case "up":
		if kh.app.movieList.Index() == 0 {
			kh.app.searchInput.Focus()
			return kh.app, nil
		}
	case "q":
		return kh.app, tea.Quit
	case "enter":
		if i, ok := kh.app.movieList.SelectedItem().(movieItem); ok {
			return kh.app, kh.openDetails(i.movie)
		}
		return kh.app, nil
	}

	var cmd tea.Cmd
	kh.app.movieList, cmd = kh.app.movieList.Update(msg)
	return kh.app, tea.Batch(cmd, kh.app.checkSentinel())
}

func (kh *KeyHandler) handleFilters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	switch msg.String() {
	case "enter":
		if i, ok := a.genreList.SelectedItem().(genreItem); ok {
			idx := a.genreList.Index()
			cmd := a.setFilters(a.filters.Toggle(i.genre.ID))
			a.genreList.Select(idx)
			return a, cmd
		}
		return a, nil
	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		a.genreList, cmd = a.genreList.Update(msg)
		return a, cmd
	case "tab":
		return a, kh.setRating(filters.NextRating(a.ratings, a.filters.Rating))
	case "shift+tab":
		return a, kh.setYear(filters.NextYear(a.years, a.filters.Year))
	}

	prev := a.genreInput.Value()
	var cmd tea.Cmd
	a.genreInput, cmd = a.genreInput.Update(msg)
	if a.genreInput.Value() != prev {
		a.refreshGenreList()
		a.genreList.ResetSelected()
	}
	return a, cmd
}

func (kh *KeyHandler) setRating(rating string) tea.Cmd {
	f := kh.app.filters.Clone()
	f.Rating = rating
	return kh.app.setFilters(f)
}

func (kh *KeyHandler) setYear(year string) tea.Cmd {
	f := kh.app.filters.Clone()
	f.Year = year
	return kh.app.setFilters(f)
}

func (kh *KeyHandler) toggleFilters() (tea.Model, tea.Cmd) {
	if kh.app.view == ViewFilters {
		return kh.navigateBack()
	}
	kh.app.view = ViewFilters
	kh.app.searchInput.Blur()
	kh.app.genreInput.Reset()
	kh.app.refreshGenreList()
	kh.app.genreList.ResetSelected()
	return kh.app, kh.app.genreInput.Focus()
}

func (kh *KeyHandler) focusSearch() (tea.Model, tea.Cmd) {
	kh.app.view = ViewBrowse
	kh.app.currentMovie = nil
	kh.app.genreInput.Blur()
	return kh.app, kh.app.searchInput.Focus()
}

// retry re-issues a failed request, or reloads the current query when
// nothing failed.
func (kh *KeyHandler) retry() tea.Cmd {
	a := kh.app
	if req, ok := a.orch.Retry(); ok {
		a.sentinel.Reset()
		return a.issue(req)
	}
	if a.orch.State() == browse.StateError || a.orch.Fetching() {
		a.setStatus(MsgNothingToRetry, StatusWarn)
		return nil
	}
	a.sentinel.Reset()
	req := a.orch.Reload()
	a.syncMovies()
	return a.issue(req)
}

func (kh *KeyHandler) clearFilters() tea.Cmd {
	if kh.app.filters.IsEmpty() {
		return nil
	}
	cmd := kh.app.setFilters(query.FilterSet{})
	kh.app.setStatus(MsgFiltersCleared, StatusSuccess)
	return cmd
}

func (kh *KeyHandler) openDetails(m catalog.Movie) tea.Cmd {
	kh.app.currentMovie = &m
	kh.app.details = nil
	kh.app.loadingDetails = true
	kh.app.view = ViewDetails
	kh.app.setStatus(MsgLoadingDetails, StatusInfo)
	return tea.Batch(kh.app.startSpinner(), kh.app.loadDetails(m))
}

// navigateBack implements smart back navigation
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app
	switch a.view {
	case ViewDetails:
		a.view = ViewBrowse
		a.currentMovie = nil
		a.details = nil
		a.loadingDetails = false
		a.clearStatus()
		return a, a.checkSentinel()
	case ViewFilters:
		a.view = ViewBrowse
		a.genreInput.Blur()
		return a, a.checkSentinel()
	case ViewBrowse:
		if a.searchInput.Focused() && len(a.movieList.Items()) > 0 {
			a.searchInput.Blur()
			return a, nil
		}
	}
	return a, nil
}

func (kh *KeyHandler) openURL(url string) tea.Cmd {
	return func() tea.Msg {
		if err := kh.app.launcher.Open(url); err != nil {
			return errorMsg{err: wrapErr("open", err)}
		}
		return statusMsg{text: MsgOpened(url), kind: StatusSuccess}
	}
}

// GetHelpForCurrentView returns only our custom help text (Charm handles the rest)
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	b := kh.bindings
	switch kh.app.view {
	case ViewBrowse:
		help := []string{kh.bound(b.Filters) + ": filters"}
		if !kh.app.searchInput.Focused() {
			help = append(help, "enter: details", kh.bound(b.OpenPage)+": open")
		}
		if !kh.app.filters.IsEmpty() {
			help = append(help, kh.bound(b.Clear)+": clear")
		}
		if kh.app.orch.State() == browse.StateError {
			help = append(help, kh.bound(b.Retry)+": retry")
		}
		return help

	case ViewFilters:
		return []string{kh.bound(b.Clear) + ": clear", "esc: done"}

	case ViewDetails:
		return []string{kh.bound(b.OpenPage) + ": open", kh.bound(b.OpenPoster) + ": poster", "esc: back"}

	default:
		return []string{}
	}
}

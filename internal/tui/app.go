package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/marquee/internal/browse"
	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/config"
	"github.com/pders01/marquee/internal/debounce"
	"github.com/pders01/marquee/internal/debuglog"
	"github.com/pders01/marquee/internal/filters"
	"github.com/pders01/marquee/internal/query"
	"github.com/pders01/marquee/internal/scroll"
	"github.com/pders01/marquee/internal/trending"
	"github.com/pders01/marquee/internal/validation"
)

// Catalog is what the browser needs from the remote catalog.
type Catalog interface {
	catalog.Querier
	Genres(ctx context.Context) ([]catalog.Genre, error)
	Details(ctx context.Context, id int64) (*catalog.Details, error)
	PosterURL(path, size string) string
}

// Opener hands a URL to a desktop application.
type Opener interface {
	Open(url string) error
}

type App struct {
	config     *config.Config
	catalog    Catalog
	notifier   *trending.Notifier
	launcher   Opener
	keyHandler *KeyHandler

	orch        *browse.Orchestrator
	debounce    *debounce.Buffer
	sentinel    *scroll.Sentinel
	filters     query.FilterSet
	cancelFetch context.CancelFunc

	movieList   list.Model
	searchInput textinput.Model
	genreList   list.Model
	genreInput  textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model

	view     View
	genres   *filters.GenreIndex
	ratings  []filters.Rating
	years    []string
	trending []trending.Entry

	currentMovie   *catalog.Movie
	details        *catalog.Details
	loadingDetails bool

	status     string
	statusKind StatusKind
	spinning   bool

	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

func NewApp(cfg *config.Config, cat Catalog, notifier *trending.Notifier, launcher Opener) *App {
	movieList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	movieList.Title = "› movies"
	movieList.SetShowStatusBar(false)
	movieList.SetFilteringEnabled(false)
	movieList.SetShowHelp(false)

	genreDelegate := list.NewDefaultDelegate()
	genreDelegate.ShowDescription = false
	genreDelegate.SetSpacing(0)
	genreList := list.New([]list.Item{}, genreDelegate, 0, 0)
	genreList.Title = "› genres"
	genreList.SetShowStatusBar(false)
	genreList.SetFilteringEnabled(false)
	genreList.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "Search through thousands of movies"
	si.CharLimit = maxSearchLength
	si.Focus()

	gi := textinput.New()
	gi.Placeholder = "Type to find a genre"
	gi.CharLimit = 32

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ratings, err := filters.Ratings()
	if err != nil {
		debuglog.Errorf("loading rating options: %v", err)
	}

	app := &App{
		config:      cfg,
		catalog:     cat,
		notifier:    notifier,
		launcher:    launcher,
		orch:        browse.New(),
		debounce:    debounce.New(cfg.Search.Debounce),
		sentinel:    scroll.New(cfg.Scroll.ThresholdRows),
		movieList:   movieList,
		searchInput: si,
		genreList:   genreList,
		genreInput:  gi,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		view:        ViewBrowse,
		ratings:     ratings,
		years:       filters.Years(time.Now(), filters.YearSpan),
	}
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	movieCfg := a.config.UI.Movie
	wordWrapWidth := (a.width * 9) / 10
	if movieCfg.WordWrapMaxWidth > 0 && wordWrapWidth > movieCfg.WordWrapMaxWidth {
		wordWrapWidth = movieCfg.WordWrapMaxWidth
	}
	if wordWrapWidth < movieCfg.WordWrapMinWidth {
		wordWrapWidth = movieCfg.WordWrapMinWidth
	}
	if a.width > 0 && a.width < 50 {
		wordWrapWidth = max(a.width-4, 20)
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.applyIdentity(),
		a.loadGenres(),
		a.loadTrending(),
		textinput.Blink,
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, a.checkSentinel()

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case searchSettledMsg:
		if _, ok := a.debounce.Settle(msg.seq); ok {
			return a, a.applyIdentity()
		}
		return a, nil

	case pageLoadedMsg:
		return a, a.handlePage(msg.resp)

	case genresLoadedMsg:
		a.handleGenres(msg)
		return a, nil

	case trendingLoadedMsg:
		a.trending = msg.entries
		return a, nil

	case detailsRenderedMsg:
		a.handleDetails(msg)
		return a, nil

	case statusMsg:
		a.setStatus(msg.text, msg.kind)
		return a, nil

	case errorMsg:
		a.setStatus(userError(msg.err), StatusError)
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.view {
	case ViewBrowse:
		a.searchInput, cmd = a.searchInput.Update(msg)
	case ViewFilters:
		a.genreInput, cmd = a.genreInput.Update(msg)
	case ViewDetails:
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return a, cmd
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	// header, search box, trending strip, footer and status bar
	listHeight := max(height-11, 3)
	a.movieList.SetSize(width, listHeight)
	a.genreList.SetSize(width, max(height-12, 3))
	a.viewport.Width = width
	a.viewport.Height = max(height-3, 1)

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = max(width-4, 1)
	}
	a.searchInput.Width = inputWidth
	a.genreInput.Width = inputWidth
}

// applyIdentity hands the committed term and current filters to the
// orchestrator and starts a replace fetch when the identity changed.
func (a *App) applyIdentity() tea.Cmd {
	req, issued := a.orch.SetIdentity(a.debounce.Committed(), a.filters)
	if !issued {
		return nil
	}
	a.sentinel.Reset()
	a.syncMovies()
	a.movieList.ResetSelected()
	return a.issue(req)
}

// issue starts req, cancelling any fetch it supersedes.
func (a *App) issue(req browse.Request) tea.Cmd {
	if a.cancelFetch != nil {
		a.cancelFetch()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelFetch = cancel

	if req.Kind == browse.KindAppend {
		a.setStatus(MsgLoadingMore, StatusInfo)
	} else {
		a.setStatus(MsgLoading, StatusInfo)
	}
	return tea.Batch(a.startSpinner(), a.fetchPage(ctx, cancel, req))
}

func (a *App) handlePage(resp browse.Response) tea.Cmd {
	out := a.orch.Apply(resp)
	if out.Stale {
		return nil
	}
	a.syncMovies()

	res := a.orch.Results()
	switch {
	case res.ErrorMessage != "":
		a.setStatus(res.ErrorMessage, StatusError)
	case res.IsEmpty():
		a.setStatus(MsgNoResults, StatusWarn)
	default:
		a.setStatus(MsgResultsCount(len(res.Items), res.CurrentPage, res.TotalPages), StatusInfo)
	}

	var cmds []tea.Cmd
	if out.Notify != nil {
		cmds = append(cmds, a.recordSearch(*out.Notify))
	}
	cmds = append(cmds, a.checkSentinel())
	return tea.Batch(cmds...)
}

// checkSentinel feeds the list's visible window to the sentinel and asks
// for the next page when it fires.
func (a *App) checkSentinel() tea.Cmd {
	if a.view != ViewBrowse {
		return nil
	}
	if !a.sentinel.Observe(a.listPosition(), a.orch) {
		return nil
	}
	req, ok := a.orch.ScrollBottom()
	if !ok {
		return nil
	}
	a.syncMovies()
	return a.issue(req)
}

func (a *App) listPosition() scroll.Position {
	total := len(a.movieList.Items())
	start, end := a.movieList.Paginator.GetSliceBounds(total)
	return scroll.Position{Offset: start, Visible: end - start, Total: total}
}

func (a *App) syncMovies() {
	res := a.orch.Results()
	items := make([]list.Item, len(res.Items))
	for i, m := range res.Items {
		items[i] = movieItem{movie: m, genres: a.genreNames(m.GenreIDs)}
	}
	a.movieList.SetItems(items)
}

func (a *App) genreNames(ids []int) string {
	if a.genres == nil || len(ids) == 0 {
		return ""
	}
	names := a.genres.Names(ids)
	if len(names) > 3 {
		names = names[:3]
	}
	return strings.Join(names, ", ")
}

func (a *App) handleGenres(msg genresLoadedMsg) {
	if msg.err != nil {
		debuglog.Warnf("loading genres: %v", msg.err)
		a.setStatus(MsgGenresMissing, StatusWarn)
		return
	}
	idx, err := filters.NewGenreIndex(msg.genres)
	if err != nil {
		debuglog.Warnf("indexing genres: %v", err)
		a.setStatus(MsgGenresMissing, StatusWarn)
		return
	}
	if a.genres != nil {
		a.genres.Close()
	}
	a.genres = idx
	a.refreshGenreList()
	a.syncMovies()
}

func (a *App) refreshGenreList() {
	if a.genres == nil {
		a.genreList.SetItems(nil)
		return
	}
	matches, err := a.genres.Lookup(a.genreInput.Value())
	if err != nil {
		debuglog.Warnf("genre lookup: %v", err)
		return
	}
	items := make([]list.Item, len(matches))
	for i, g := range matches {
		items[i] = genreItem{genre: g, selected: a.filters.HasGenre(g.ID)}
	}
	a.genreList.SetItems(items)
}

// setFilters replaces the filter set and refetches when it changed.
func (a *App) setFilters(f query.FilterSet) tea.Cmd {
	if err := validateFilters(f); err != nil {
		a.setStatus(err.Error(), StatusError)
		return nil
	}
	a.filters = f
	a.refreshGenreList()
	return a.applyIdentity()
}

func validateFilters(f query.FilterSet) error {
	if _, err := validation.ValidateRating(f.Rating); err != nil {
		return wrapErr("rating filter", err)
	}
	if _, err := validation.ValidateYear(f.Year, time.Now()); err != nil {
		return wrapErr("year filter", err)
	}
	return nil
}

func (a *App) handleDetails(msg detailsRenderedMsg) {
	if a.currentMovie == nil || a.currentMovie.ID != msg.id {
		return
	}
	a.loadingDetails = false
	if msg.err != nil {
		a.details = nil
		a.viewport.SetContent(renderMuted("Could not load details. Press esc to go back."))
		a.setStatus(catalog.UserMessage(msg.err), StatusError)
		return
	}
	a.details = msg.details
	a.viewport.SetContent(msg.content)
	a.viewport.GotoTop()
	a.clearStatus()
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	switch a.view {
	case ViewBrowse:
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			a.movieList.CursorDown()
			return a.checkSentinel()
		case tea.MouseButtonWheelUp:
			a.movieList.CursorUp()
			return a.checkSentinel()
		}
	case ViewDetails:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (a *App) selectedMovie() (catalog.Movie, bool) {
	if a.view == ViewDetails && a.currentMovie != nil {
		return *a.currentMovie, true
	}
	if i, ok := a.movieList.SelectedItem().(movieItem); ok {
		return i.movie, true
	}
	return catalog.Movie{}, false
}

func (a *App) View() string {
	var content string
	bodyHeight := max(a.height-2, 1)

	switch a.view {
	case ViewBrowse:
		content = a.browseView()
	case ViewFilters:
		content = a.filtersView()
	case ViewDetails:
		if a.loadingDetails {
			content = renderCentered(a.width, bodyHeight,
				a.spinner.View()+" "+renderMuted(MsgLoadingDetails))
		} else {
			content = a.viewport.View()
		}
	}

	statusBar := a.renderStatusBar()
	if statusBar == "" {
		return content
	}
	return lipgloss.JoinVertical(lipgloss.Top, content, renderSeparator(a.width-1), statusBar)
}

func (a *App) browseView() string {
	subtitle := "Discover • popular movies"
	if term := a.debounce.Committed(); term != "" {
		subtitle = fmt.Sprintf("Search • %q", term)
	} else if n := a.filters.ActiveCount(); n > 0 {
		subtitle = fmt.Sprintf("Discover • %d filters", n)
	}

	rows := []string{
		renderHeader(CompactLogo+" find movies you'll enjoy", subtitle, a.width),
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
	}
	if strip := a.trendingStrip(); strip != "" {
		rows = append(rows, strip)
	}

	res := a.orch.Results()
	listHeight := a.movieList.Height()
	switch {
	case res.IsLoading && res.IsEmpty():
		rows = append(rows, renderCentered(a.width, listHeight, a.spinner.View()+" "+renderMuted(MsgLoading)))
	case res.ErrorMessage != "" && res.IsEmpty():
		rows = append(rows, renderCentered(a.width, listHeight, StatusErrorStyle.Render(res.ErrorMessage)))
	case res.IsEmpty():
		rows = append(rows, renderCentered(a.width, listHeight, GetCompactBanner(MsgNoResults)))
	default:
		rows = append(rows, a.movieList.View())
	}

	rows = append(rows, a.browseFooter(res))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) browseFooter(res browse.Results) string {
	switch {
	case res.IsLoadingMore && !res.IsEmpty():
		return a.spinner.View() + " " + renderMuted(MsgLoadingMore)
	case res.ErrorMessage != "" && !res.IsEmpty():
		return StatusErrorStyle.Render(res.ErrorMessage) + renderMuted("  ctrl+r to retry")
	case res.IsEndOfResults():
		return HeaderStyle.Render(MsgEndOfResults + " 🎬")
	}
	return ""
}

func (a *App) trendingStrip() string {
	if len(a.trending) == 0 {
		return ""
	}
	parts := make([]string, 0, len(a.trending))
	for i, e := range a.trending {
		label := e.Title
		if label == "" {
			label = e.Term
		}
		parts = append(parts, BadgeStyle.Render(fmt.Sprint(i+1))+" "+truncateEnd(label, 24))
	}
	return HeaderStyle.Render("Trending ") + strings.Join(parts, "  ")
}

func (a *App) filtersView() string {
	title := "› filters"
	if n := a.filters.ActiveCount(); n > 0 {
		title += " " + BadgeStyle.Render(fmt.Sprint(n))
	}

	genres := a.genreList.View()
	if a.genres == nil {
		genres = renderMuted(MsgGenresMissing)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		HeaderStyle.Render(title),
		renderInputFrame(a.genreInput.View(), true, a.genreInput.Width),
		genres,
		"",
		fmt.Sprintf("%s %s", renderMuted("Minimum rating:"), RatingStyle.Render(filters.RatingLabel(a.ratings, a.filters.Rating))),
		fmt.Sprintf("%s %s", renderMuted("Release year:  "), RatingStyle.Render(filters.YearLabel(a.filters.Year))),
		"",
		renderHelp("enter: toggle genre • tab: rating • shift+tab: year"),
	)
}

type movieItem struct {
	movie  catalog.Movie
	genres string
}

func (i movieItem) Title() string { return i.movie.Title }

func (i movieItem) Description() string {
	meta := []string{i.movie.Year()}
	if lang := strings.ToUpper(i.movie.OriginalLanguage); lang != "" {
		meta = append(meta, lang)
	}
	if i.genres != "" {
		meta = append(meta, i.genres)
	}
	return RatingStyle.Render("★ "+i.movie.RatingLabel()) + MetaStyle.Render(" • "+strings.Join(meta, " • "))
}

func (i movieItem) FilterValue() string { return i.movie.Title }

type genreItem struct {
	genre    catalog.Genre
	selected bool
}

func (i genreItem) Title() string {
	if i.selected {
		return SelectedMarkStyle.Render("[x]") + " " + i.genre.Name
	}
	return "[ ] " + i.genre.Name
}

func (i genreItem) Description() string { return "" }
func (i genreItem) FilterValue() string { return i.genre.Name }

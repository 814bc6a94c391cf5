package tui

import (
	"github.com/pders01/marquee/internal/browse"
	"github.com/pders01/marquee/internal/catalog"
	"github.com/pders01/marquee/internal/trending"
)

type View int

const (
	ViewBrowse View = iota
	ViewFilters
	ViewDetails
)

func (v View) String() string {
	switch v {
	case ViewFilters:
		return "filters"
	case ViewDetails:
		return "details"
	default:
		return "browse"
	}
}

type searchSettledMsg struct {
	seq uint64
}

type pageLoadedMsg struct {
	resp browse.Response
}

type genresLoadedMsg struct {
	genres []catalog.Genre
	err    error
}

type trendingLoadedMsg struct {
	entries []trending.Entry
}

type detailsRenderedMsg struct {
	id      int64
	details *catalog.Details
	content string
	err     error
}

type errorMsg struct {
	err error
}

type statusMsg struct {
	text string
	kind StatusKind
}

package browse

import "github.com/pders01/marquee/internal/catalog"

// Results is the authoritative result list plus pagination counters. Only
// the Orchestrator writes it; everyone else gets copies.
type Results struct {
	Items         []catalog.Movie
	CurrentPage   int
	TotalPages    int
	HasMore       bool
	IsLoading     bool
	IsLoadingMore bool
	ErrorMessage  string
}

func (r Results) IsEmpty() bool { return len(r.Items) == 0 }

// IsEndOfResults is true once every page has been loaded and something was shown.
func (r Results) IsEndOfResults() bool { return !r.HasMore && len(r.Items) > 0 }

func (r *Results) reset() {
	*r = Results{}
}

func (r *Results) replace(items []catalog.Movie, page, totalPages int) {
	r.Items = append(make([]catalog.Movie, 0, len(items)), items...)
	r.setPage(page, totalPages)
}

// appendPage concatenates in server order. Duplicates across pages are kept.
func (r *Results) appendPage(items []catalog.Movie, page, totalPages int) {
	r.Items = append(r.Items, items...)
	r.setPage(page, totalPages)
}

func (r *Results) setPage(page, totalPages int) {
	r.CurrentPage = page
	r.TotalPages = totalPages
	r.HasMore = r.CurrentPage < r.TotalPages
	r.ErrorMessage = ""
	r.IsLoading = false
	r.IsLoadingMore = false
}

package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Mode selects which remote endpoint a descriptor targets.
type Mode int

const (
	ModeDiscover Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeDiscover:
		return "discover"
	default:
		return "unknown"
	}
}

// DefaultSort is the ordering used for discover queries.
const DefaultSort = "popularity.desc"

// FilterSet holds the discover-mode filters chosen in the filter panel.
// Rating is a minimum vote average ("" means any) and Year an exact release
// year ("" means any).
type FilterSet struct {
	Genres []int
	Rating string
	Year   string
}

// IsEmpty reports whether no filter is active.
func (f FilterSet) IsEmpty() bool {
	return len(f.Genres) == 0 && f.Rating == "" && f.Year == ""
}

// ActiveCount is the number shown on the filter badge.
func (f FilterSet) ActiveCount() int {
	n := len(f.Genres)
	if f.Rating != "" {
		n++
	}
	if f.Year != "" {
		n++
	}
	return n
}

// HasGenre reports whether id is selected.
func (f FilterSet) HasGenre(id int) bool {
	return slices.Contains(f.Genres, id)
}

// Toggle returns a copy with genre id added or removed. Selection order is
// preserved so the encoded with_genres value is stable.
func (f FilterSet) Toggle(id int) FilterSet {
	out := f.Clone()
	if i := slices.Index(out.Genres, id); i >= 0 {
		out.Genres = slices.Delete(out.Genres, i, i+1)
		return out
	}
	out.Genres = append(out.Genres, id)
	return out
}

// Clone returns a deep copy.
func (f FilterSet) Clone() FilterSet {
	return FilterSet{
		Genres: slices.Clone(f.Genres),
		Rating: f.Rating,
		Year:   f.Year,
	}
}

// Equal compares two filter sets, genre order included.
func (f FilterSet) Equal(o FilterSet) bool {
	return f.Rating == o.Rating && f.Year == o.Year && slices.Equal(f.Genres, o.Genres)
}

// Descriptor is an immutable description of one remote catalog request.
type Descriptor struct {
	Mode    Mode
	Term    string
	SortBy  string
	Filters FilterSet
	Page    int
}

// Build maps the committed term, filters and page onto a descriptor.
// A non-empty term always means search mode and the filters are dropped;
// search and discover are never combined.
func Build(term string, filters FilterSet, page int) Descriptor {
	if page < 1 {
		page = 1
	}
	if term != "" {
		return Descriptor{Mode: ModeSearch, Term: term, Page: page}
	}
	return Descriptor{
		Mode:    ModeDiscover,
		SortBy:  DefaultSort,
		Filters: filters.Clone(),
		Page:    page,
	}
}

// Identity is the query identity: term plus filters, page excluded.
type Identity struct {
	Term    string
	Filters FilterSet
}

// Equal compares identities.
func (i Identity) Equal(o Identity) bool {
	return i.Term == o.Term && i.Filters.Equal(o.Filters)
}

// Path is the endpoint path relative to the API base URL.
func (d Descriptor) Path() string {
	if d.Mode == ModeSearch {
		return "/search/movie"
	}
	return "/discover/movie"
}

// Values encodes the descriptor as query parameters.
func (d Descriptor) Values() url.Values {
	v := url.Values{}
	if d.Mode == ModeSearch {
		v.Set("query", d.Term)
	} else {
		sortBy := d.SortBy
		if sortBy == "" {
			sortBy = DefaultSort
		}
		v.Set("sort_by", sortBy)
		if len(d.Filters.Genres) > 0 {
			ids := make([]string, len(d.Filters.Genres))
			for i, g := range d.Filters.Genres {
				ids[i] = strconv.Itoa(g)
			}
			v.Set("with_genres", strings.Join(ids, ","))
		}
		if d.Filters.Rating != "" {
			v.Set("vote_average.gte", d.Filters.Rating)
		}
		if d.Filters.Year != "" {
			v.Set("year", d.Filters.Year)
		}
	}
	page := d.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	return v
}

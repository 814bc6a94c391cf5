package catalog

import (
	"fmt"
	"strings"
)

// Movie is one catalog entry as returned by list endpoints.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	VoteAverage      float64 `json:"vote_average"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	PosterPath       string  `json:"poster_path"`
	GenreIDs         []int   `json:"genre_ids"`
}

// Year is the release year or "N/A".
func (m Movie) Year() string {
	return yearOf(m.ReleaseDate)
}

// RatingLabel formats the vote average with one decimal, or "N/A" when unrated.
func (m Movie) RatingLabel() string {
	if m.VoteAverage == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

// ShortOverview truncates the overview to limit runes.
func (m Movie) ShortOverview(limit int) string {
	if m.Overview == "" {
		return "No description available."
	}
	r := []rune(m.Overview)
	if limit <= 0 || len(r) <= limit {
		return m.Overview
	}
	return string(r[:limit]) + "..."
}

// Page is one page of list results.
type Page struct {
	Items        []Movie
	Page         int
	TotalPages   int
	TotalResults int
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

// Details is the full record shown in the details view.
type Details struct {
	Movie
	Tagline             string    `json:"tagline"`
	Runtime             int       `json:"runtime"`
	Budget              int64     `json:"budget"`
	Revenue             int64     `json:"revenue"`
	Status              string    `json:"status"`
	Genres              []Genre   `json:"genres"`
	ProductionCompanies []Company `json:"production_companies"`
	Cast                []CastMember
}

// RuntimeLabel formats minutes as "2h 14m".
func (d Details) RuntimeLabel() string {
	if d.Runtime <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%dh %dm", d.Runtime/60, d.Runtime%60)
}

// TopCast returns at most n billed cast members.
func (d Details) TopCast(n int) []CastMember {
	if len(d.Cast) <= n {
		return d.Cast
	}
	return d.Cast[:n]
}

// Production joins the first n production company names.
func (d Details) Production(n int) string {
	names := make([]string, 0, n)
	for i, c := range d.ProductionCompanies {
		if i == n {
			break
		}
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// FormatUSD renders whole dollars with thousands separators, or "N/A" for 0.
func FormatUSD(amount int64) string {
	if amount == 0 {
		return "N/A"
	}
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

func yearOf(date string) string {
	if date == "" {
		return "N/A"
	}
	year, _, _ := strings.Cut(date, "-")
	return year
}

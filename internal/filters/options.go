// Package filters holds the reference data behind the filter panel:
// rating thresholds, release years and the genre list.
package filters

import (
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed ratings.toml
var ratingsTOML []byte

// YearSpan is how many release years the panel offers.
const YearSpan = 30

// Rating is one minimum-rating choice.
type Rating struct {
	Value string `toml:"value"`
	Label string `toml:"label"`
}

type ratingsFile struct {
	Ratings []Rating `toml:"ratings"`
}

// Ratings parses the embedded rating table.
func Ratings() ([]Rating, error) {
	var f ratingsFile
	if err := toml.Unmarshal(ratingsTOML, &f); err != nil {
		return nil, fmt.Errorf("parsing ratings.toml: %w", err)
	}
	return f.Ratings, nil
}

// RatingLabel returns the label for value, "Any Rating" when unset.
func RatingLabel(ratings []Rating, value string) string {
	if value == "" {
		return "Any Rating"
	}
	for _, r := range ratings {
		if r.Value == value {
			return r.Label
		}
	}
	return value + "+"
}

// NextRating cycles unset → best → … → worst → unset.
func NextRating(ratings []Rating, current string) string {
	values := make([]string, len(ratings))
	for i, r := range ratings {
		values[i] = r.Value
	}
	return cycle(values, current)
}

// Years lists the last n release years, newest first.
func Years(now time.Time, n int) []string {
	if n <= 0 {
		n = YearSpan
	}
	current := now.Year()
	years := make([]string, n)
	for i := range years {
		years[i] = strconv.Itoa(current - i)
	}
	return years
}

// YearLabel returns year or "Any Year" when unset.
func YearLabel(year string) string {
	if year == "" {
		return "Any Year"
	}
	return year
}

// NextYear cycles unset → newest → … → oldest → unset.
func NextYear(years []string, current string) string {
	return cycle(years, current)
}

func cycle(values []string, current string) string {
	if current == "" {
		if len(values) == 0 {
			return ""
		}
		return values[0]
	}
	for i, v := range values {
		if v == current {
			if i+1 < len(values) {
				return values[i+1]
			}
			return ""
		}
	}
	return ""
}

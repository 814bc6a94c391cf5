package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidateYear accepts "" (any year) or a four digit year between 1874 and
// next year.
func ValidateYear(year string, now time.Time) (string, error) {
	year = strings.TrimSpace(year)
	if year == "" {
		return "", nil
	}
	n, err := strconv.Atoi(year)
	if err != nil || len(year) != 4 {
		return "", fmt.Errorf("year must be four digits: %q", year)
	}
	if n < 1874 || n > now.Year()+1 {
		return "", fmt.Errorf("year out of range: %d", n)
	}
	return year, nil
}

// ValidateRating accepts "" (any rating) or a number between 0 and 10.
func ValidateRating(rating string) (string, error) {
	rating = strings.TrimSpace(rating)
	if rating == "" {
		return "", nil
	}
	f, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return "", fmt.Errorf("rating must be numeric: %q", rating)
	}
	if f < 0 || f > 10 {
		return "", fmt.Errorf("rating out of range: %s", rating)
	}
	return rating, nil
}

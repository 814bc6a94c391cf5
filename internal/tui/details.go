package tui

import (
	"fmt"
	"strings"

	"github.com/pders01/marquee/internal/catalog"
)

const (
	detailsCastLimit      = 6
	detailsCompaniesLimit = 2
)

// detailsMarkdown lays out a movie record for glamour.
func detailsMarkdown(d *catalog.Details) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	if d.Tagline != "" {
		fmt.Fprintf(&b, "*%s*\n\n", d.Tagline)
	}

	meta := []string{
		"★ " + d.RatingLabel(),
		d.RuntimeLabel(),
		d.Year(),
	}
	if d.OriginalLanguage != "" {
		meta = append(meta, strings.ToUpper(d.OriginalLanguage))
	}
	if d.Status != "" {
		meta = append(meta, d.Status)
	}
	fmt.Fprintf(&b, "**%s**\n\n", strings.Join(meta, " · "))

	if len(d.Genres) > 0 {
		names := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			names[i] = "`" + g.Name + "`"
		}
		fmt.Fprintf(&b, "%s\n\n", strings.Join(names, " "))
	}

	b.WriteString("## Overview\n\n")
	b.WriteString(d.ShortOverview(0))
	b.WriteString("\n\n")

	if cast := d.TopCast(detailsCastLimit); len(cast) > 0 {
		b.WriteString("## Cast\n\n")
		for _, c := range cast {
			if c.Character != "" {
				fmt.Fprintf(&b, "- **%s** as %s\n", c.Name, c.Character)
			} else {
				fmt.Fprintf(&b, "- **%s**\n", c.Name)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Production\n\n")
	fmt.Fprintf(&b, "| Budget | Revenue |\n|---|---|\n| %s | %s |\n\n", catalog.FormatUSD(d.Budget), catalog.FormatUSD(d.Revenue))
	if companies := d.Production(detailsCompaniesLimit); companies != "" {
		fmt.Fprintf(&b, "%s\n\n", companies)
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "[View on TMDB](%s)\n", catalog.PageURL(d.ID))
	return b.String()
}

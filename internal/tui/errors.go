package tui

import (
	"fmt"

	"github.com/pders01/marquee/internal/catalog"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// userError picks the line shown for err. Catalog failures get the
// generic wording; local failures keep their detail.
func userError(err error) string {
	if err == nil {
		return ""
	}
	if catalog.IsTransport(err) {
		return catalog.GenericErrorMessage
	}
	return err.Error()
}

// Package filter computes the visible subset of a snippet collection from
// the user's active filter selections. Everything in this package is pure:
// no I/O, no hidden state, identical inputs always produce identical output.
package filter

import (
	"slices"
	"strings"

	"github.com/sakif/snipvault/internal/model"
)

// Criteria is the active set of user-chosen constraints. The zero value
// means "no restriction" for every category. Criteria is a value type:
// every toggle operation returns a new Criteria and leaves the receiver
// untouched, so callers can hold on to previous states freely.
//
// Categories are orthogonal. Toggling a language never touches the search
// term or the favorites flag, and each category clears independently.
type Criteria struct {
	Languages     []model.Language
	Tags          []string
	FavoritesOnly bool
	Search        string
}

// IsZero reports whether no restriction is active in any category.
func (c Criteria) IsZero() bool {
	return len(c.Languages) == 0 &&
		len(c.Tags) == 0 &&
		!c.FavoritesOnly &&
		strings.TrimSpace(c.Search) == ""
}

// ToggleLanguage adds the language to the selection, or removes it if it is
// already selected.
func (c Criteria) ToggleLanguage(lang model.Language) Criteria {
	c.Languages = toggle(c.Languages, lang)
	return c
}

// ToggleTag adds the tag to the selection, or removes it if already selected.
func (c Criteria) ToggleTag(tag string) Criteria {
	c.Tags = toggle(c.Tags, tag)
	return c
}

// SetFavoritesOnly sets the favorites-only flag.
func (c Criteria) SetFavoritesOnly(on bool) Criteria {
	c.FavoritesOnly = on
	return c
}

// SetSearch replaces the free-text search term. Blank means no restriction.
func (c Criteria) SetSearch(term string) Criteria {
	c.Search = term
	return c
}

// ClearLanguages resets only the language selection.
func (c Criteria) ClearLanguages() Criteria {
	c.Languages = nil
	return c
}

// ClearTags resets only the tag selection.
func (c Criteria) ClearTags() Criteria {
	c.Tags = nil
	return c
}

// toggle removes v from s if present, otherwise appends it. The input slice
// is never mutated; selection order is preserved for display.
func toggle[T comparable](s []T, v T) []T {
	if i := slices.Index(s, v); i >= 0 {
		out := make([]T, 0, len(s)-1)
		out = append(out, s[:i]...)
		return append(out, s[i+1:]...)
	}
	out := make([]T, 0, len(s)+1)
	out = append(out, s...)
	return append(out, v)
}

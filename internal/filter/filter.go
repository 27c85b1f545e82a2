package filter

import (
	"slices"
	"strings"

	"github.com/sakif/snipvault/internal/model"
)

// Apply returns the snippets matching every active category of criteria,
// as a new slice preserving input order. Within the language category the
// selections combine with OR; selected tags combine with AND (a snippet
// must carry every selected tag); categories combine with AND. Empty
// criteria returns a copy of the full input; a nil input stays nil.
//
// Apply never reorders — sorting is a presentation concern.
func Apply(snippets []model.Snippet, c Criteria) []model.Snippet {
	if snippets == nil {
		return nil
	}
	out := make([]model.Snippet, 0, len(snippets))
	for _, s := range snippets {
		if Matches(s, c) {
			out = append(out, s)
		}
	}
	return out
}

// Matches reports whether a single snippet satisfies the criteria.
func Matches(s model.Snippet, c Criteria) bool {
	return matchesLanguage(s, c.Languages) &&
		matchesTags(s, c.Tags) &&
		matchesFavorite(s, c.FavoritesOnly) &&
		matchesSearch(s, c.Search)
}

func matchesLanguage(s model.Snippet, selected []model.Language) bool {
	if len(selected) == 0 {
		return true
	}
	return slices.Contains(selected, s.Language)
}

// matchesTags requires the snippet to carry every selected tag.
func matchesTags(s model.Snippet, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, want := range selected {
		if !slices.Contains(s.Tags, want) {
			return false
		}
	}
	return true
}

func matchesFavorite(s model.Snippet, favoritesOnly bool) bool {
	return !favoritesOnly || s.Favorite
}

// matchesSearch does a case-insensitive substring match against the title
// and the code body. Description is display-only and not searched.
func matchesSearch(s model.Snippet, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(s.Title), term) ||
		strings.Contains(strings.ToLower(s.Content), term)
}

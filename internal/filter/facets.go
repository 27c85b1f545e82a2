package filter

import (
	"strings"

	"github.com/sakif/snipvault/internal/model"
)

// Facets are the distinct attribute values present across a collection,
// used to populate the filter controls. Facets are derived from the
// collection alone, never from the active criteria, so clearing a filter
// never shrinks the options offered for data still present.
type Facets struct {
	Languages []model.Language `json:"languages"`
	Tags      []string         `json:"tags"`
}

// CollectFacets derives facets from the collection in first-appearance
// order. Blank tags are skipped; snippets are expected to be normalized on
// the way in, but stored data is not trusted to be.
func CollectFacets(snippets []model.Snippet) Facets {
	f := Facets{
		Languages: []model.Language{},
		Tags:      []string{},
	}

	seenLang := make(map[model.Language]struct{})
	seenTag := make(map[string]struct{})
	for _, s := range snippets {
		if _, ok := seenLang[s.Language]; !ok {
			seenLang[s.Language] = struct{}{}
			f.Languages = append(f.Languages, s.Language)
		}
		for _, tag := range s.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seenTag[tag]; ok {
				continue
			}
			seenTag[tag] = struct{}{}
			f.Tags = append(f.Tags, tag)
		}
	}
	return f
}

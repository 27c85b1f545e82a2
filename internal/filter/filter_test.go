package filter

import (
	"reflect"
	"testing"

	"github.com/sakif/snipvault/internal/model"
)

// testSnippets is the fixed collection most tests filter against.
// Order matters: the engine must preserve it.
func testSnippets() []model.Snippet {
	return []model.Snippet{
		{ID: "1", Title: "Debounce helper", Content: "function debounce() {}", Language: model.LanguageJavaScript, Tags: []string{"web"}, Favorite: true},
		{ID: "2", Title: "React hook", Content: "useEffect(() => {})", Language: model.LanguageJavaScript, Tags: []string{"web", "react"}},
		{ID: "3", Title: "Flags", Content: "flag.Parse()", Language: model.LanguageGo, Tags: []string{"cli"}, Favorite: true},
		{ID: "4", Title: "CSV reader", Content: "import csv", Language: model.LanguagePython, Tags: nil},
	}
}

func ids(snippets []model.Snippet) []string {
	out := make([]string, 0, len(snippets))
	for _, s := range snippets {
		out = append(out, s.ID)
	}
	return out
}

func TestApply_EmptyCriteriaIsIdentity(t *testing.T) {
	in := testSnippets()
	got := Apply(in, Criteria{})

	if !reflect.DeepEqual(got, in) {
		t.Errorf("Apply with empty criteria = %v, want input unchanged", ids(got))
	}
}

func TestApply_NilInputStaysNil(t *testing.T) {
	if got := Apply(nil, Criteria{}); got != nil {
		t.Errorf("Apply(nil, empty) = %v, want nil", got)
	}
	if got := Apply(nil, Criteria{FavoritesOnly: true}); got != nil {
		t.Errorf("Apply(nil, criteria) = %v, want nil", got)
	}
}

func TestApply_Idempotent(t *testing.T) {
	c := Criteria{Languages: []model.Language{model.LanguageJavaScript}, Search: "debounce"}

	once := Apply(testSnippets(), c)
	twice := Apply(once, c)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second application changed the result: %v vs %v", ids(once), ids(twice))
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	got := Apply(testSnippets(), Criteria{Languages: []model.Language{
		model.LanguageGo, model.LanguageJavaScript,
	}})

	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v (input order)", ids(got), want)
	}
}

func TestApply_LanguageMonotonicity(t *testing.T) {
	// Adding a language to a non-empty selection may grow the result
	// (OR within the category), but any non-empty selection is never
	// larger than no selection at all.
	in := testSnippets()
	all := Apply(in, Criteria{})
	one := Apply(in, Criteria{Languages: []model.Language{model.LanguageGo}})
	two := Apply(in, Criteria{Languages: []model.Language{model.LanguageGo, model.LanguagePython}})

	if len(one) > len(all) || len(two) > len(all) {
		t.Errorf("language selection grew the visible set: all=%d one=%d two=%d",
			len(all), len(one), len(two))
	}
	if len(two) < len(one) {
		t.Errorf("adding a language shrank an OR-combined selection: %d → %d", len(one), len(two))
	}
}

func TestApply_TagsRequireEveryMatch(t *testing.T) {
	in := testSnippets()

	got := Apply(in, Criteria{Tags: []string{"web", "react"}})
	if !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Errorf("tags {web,react} matched %v, want only snippet 2", ids(got))
	}

	// Snippet 2 has {web,react}; selecting {web,cli} must exclude it
	// because it lacks "cli".
	got = Apply(in, Criteria{Tags: []string{"web", "cli"}})
	if len(got) != 0 {
		t.Errorf("tags {web,cli} matched %v, want none", ids(got))
	}
}

func TestApply_FavoritesOnly(t *testing.T) {
	got := Apply(testSnippets(), Criteria{FavoritesOnly: true})
	if !reflect.DeepEqual(ids(got), []string{"1", "3"}) {
		t.Errorf("favorites = %v, want [1 3]", ids(got))
	}
}

func TestApply_UnfavoritedDropsOutUnderFavoritesOnly(t *testing.T) {
	in := testSnippets()
	c := Criteria{FavoritesOnly: true}

	before := Apply(in, c)
	if len(before) != 2 {
		t.Fatalf("setup: favorites = %v", ids(before))
	}

	in[0].Favorite = false
	after := Apply(in, c)
	if !reflect.DeepEqual(ids(after), []string{"3"}) {
		t.Errorf("after unfavoriting snippet 1: %v, want [3]", ids(after))
	}
}

func TestApply_SearchIsCaseInsensitiveOverTitleAndContent(t *testing.T) {
	in := []model.Snippet{
		{ID: "1", Title: "Foo", Content: "console.log('Bar')"},
	}

	if got := Apply(in, Criteria{Search: "bar"}); len(got) != 1 {
		t.Error("search 'bar' should match content 'Bar'")
	}
	if got := Apply(in, Criteria{Search: "FOO"}); len(got) != 1 {
		t.Error("search 'FOO' should match title 'Foo'")
	}
	if got := Apply(in, Criteria{Search: "baz"}); len(got) != 0 {
		t.Error("search 'baz' should match nothing")
	}
	if got := Apply(in, Criteria{Search: "   "}); len(got) != 1 {
		t.Error("blank search should not restrict")
	}
}

func TestApply_CategoriesCombineWithAND(t *testing.T) {
	got := Apply(testSnippets(), Criteria{
		Languages:     []model.Language{model.LanguageJavaScript},
		Tags:          []string{"web"},
		FavoritesOnly: true,
	})
	if !reflect.DeepEqual(ids(got), []string{"1"}) {
		t.Errorf("combined criteria = %v, want [1]", ids(got))
	}
}

func TestCriteria_ToggleSemantics(t *testing.T) {
	c := Criteria{}

	c = c.ToggleLanguage(model.LanguageGo)
	c = c.ToggleLanguage(model.LanguagePython)
	if !reflect.DeepEqual(c.Languages, []model.Language{model.LanguageGo, model.LanguagePython}) {
		t.Fatalf("Languages = %v", c.Languages)
	}

	// Toggling an already-selected value removes it.
	c = c.ToggleLanguage(model.LanguageGo)
	if !reflect.DeepEqual(c.Languages, []model.Language{model.LanguagePython}) {
		t.Errorf("after re-toggle, Languages = %v, want [python]", c.Languages)
	}

	c = c.ToggleTag("web")
	c = c.ToggleTag("web")
	if len(c.Tags) != 0 {
		t.Errorf("double tag toggle should leave no selection, got %v", c.Tags)
	}
}

func TestCriteria_TogglesDoNotMutateReceiver(t *testing.T) {
	base := Criteria{}.ToggleTag("web")
	_ = base.ToggleTag("cli")

	if !reflect.DeepEqual(base.Tags, []string{"web"}) {
		t.Errorf("receiver mutated: Tags = %v", base.Tags)
	}
}

func TestCriteria_CategoriesAreOrthogonal(t *testing.T) {
	c := Criteria{
		Languages:     []model.Language{model.LanguageGo},
		Tags:          []string{"web"},
		FavoritesOnly: true,
		Search:        "flag",
	}

	cleared := c.ClearLanguages()
	if len(cleared.Languages) != 0 {
		t.Error("ClearLanguages should empty the language selection")
	}
	if len(cleared.Tags) != 1 || !cleared.FavoritesOnly || cleared.Search != "flag" {
		t.Error("ClearLanguages touched another category")
	}

	cleared = c.ClearTags()
	if len(cleared.Tags) != 0 {
		t.Error("ClearTags should empty the tag selection")
	}
	if len(cleared.Languages) != 1 || !cleared.FavoritesOnly || cleared.Search != "flag" {
		t.Error("ClearTags touched another category")
	}
}

func TestCriteria_IsZero(t *testing.T) {
	if !(Criteria{}).IsZero() {
		t.Error("zero value should be zero")
	}
	if !(Criteria{Search: "  "}).IsZero() {
		t.Error("blank search should still count as zero")
	}
	if (Criteria{FavoritesOnly: true}).IsZero() {
		t.Error("favorites-only should not be zero")
	}
}

func TestCollectFacets(t *testing.T) {
	f := CollectFacets(testSnippets())

	wantLangs := []model.Language{model.LanguageJavaScript, model.LanguageGo, model.LanguagePython}
	if !reflect.DeepEqual(f.Languages, wantLangs) {
		t.Errorf("Languages = %v, want %v", f.Languages, wantLangs)
	}

	wantTags := []string{"web", "react", "cli"}
	if !reflect.DeepEqual(f.Tags, wantTags) {
		t.Errorf("Tags = %v, want %v", f.Tags, wantTags)
	}
}

func TestCollectFacets_SkipsBlankTagsAndDuplicates(t *testing.T) {
	f := CollectFacets([]model.Snippet{
		{Language: model.LanguageGo, Tags: []string{"cli", " ", ""}},
		{Language: model.LanguageGo, Tags: []string{"cli", "tools"}},
	})

	if !reflect.DeepEqual(f.Tags, []string{"cli", "tools"}) {
		t.Errorf("Tags = %v, want [cli tools]", f.Tags)
	}
	if !reflect.DeepEqual(f.Languages, []model.Language{model.LanguageGo}) {
		t.Errorf("Languages = %v, want [go]", f.Languages)
	}
}

func TestCollectFacets_IgnoresCriteria(t *testing.T) {
	// Facets come from data, not from the active filter: filtering the
	// collection is the caller's mistake, but deriving from the full set
	// must always include everything present.
	f := CollectFacets(testSnippets())
	if len(f.Languages) != 3 || len(f.Tags) != 3 {
		t.Errorf("facets = %+v, want 3 languages and 3 tags", f)
	}
}

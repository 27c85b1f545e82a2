package model

import (
	"reflect"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil input", nil, []string{}},
		{"trims whitespace", []string{"  web ", "cli"}, []string{"web", "cli"}},
		{"drops empties", []string{"web", "", "   ", "cli"}, []string{"web", "cli"}},
		{"dedupes keeping first", []string{"web", "cli", "web"}, []string{"web", "cli"}},
		{"dedupes after trim", []string{" web", "web "}, []string{"web"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags("web, cli,,web ,  ")
	want := []string{"web", "cli"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTags() = %q, want %q", got, want)
	}
}

func TestLanguageIsValid(t *testing.T) {
	for _, lang := range Languages() {
		if !lang.IsValid() {
			t.Errorf("Languages() entry %q should be valid", lang)
		}
	}

	for _, lang := range []Language{"", "brainfuck", "Javascript", "GO"} {
		if lang.IsValid() {
			t.Errorf("Language(%q).IsValid() = true, want false", lang)
		}
	}
}

func TestSnippetClone(t *testing.T) {
	orig := Snippet{ID: "a", Tags: []string{"web"}}
	clone := orig.Clone()
	clone.Tags[0] = "changed"
	if orig.Tags[0] != "web" {
		t.Error("Clone() should not share the tags slice")
	}
}

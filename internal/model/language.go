package model

// Language is the syntax-highlighting hint attached to a snippet.
// The set is closed; LanguagePlaintext is the fallback for anything else.
// Unrecognized values are tolerated at the data layer (they degrade to
// plaintext treatment on display) but rejected when creating or editing.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
	LanguageCSS        Language = "css"
	LanguageHTML       Language = "html"
	LanguageTypeScript Language = "typescript"
	LanguageJava       Language = "java"
	LanguageCSharp     Language = "csharp"
	LanguagePHP        Language = "php"
	LanguageRuby       Language = "ruby"
	LanguageGo         Language = "go"
	LanguageRust       Language = "rust"
	LanguageSwift      Language = "swift"
	LanguageKotlin     Language = "kotlin"
	LanguagePlaintext  Language = "plaintext"
)

// Languages lists every supported language in display order.
func Languages() []Language {
	return []Language{
		LanguageJavaScript,
		LanguagePython,
		LanguageCSS,
		LanguageHTML,
		LanguageTypeScript,
		LanguageJava,
		LanguageCSharp,
		LanguagePHP,
		LanguageRuby,
		LanguageGo,
		LanguageRust,
		LanguageSwift,
		LanguageKotlin,
		LanguagePlaintext,
	}
}

// IsValid reports whether l is one of the supported languages.
func (l Language) IsValid() bool {
	switch l {
	case LanguageJavaScript, LanguagePython, LanguageCSS, LanguageHTML,
		LanguageTypeScript, LanguageJava, LanguageCSharp, LanguagePHP,
		LanguageRuby, LanguageGo, LanguageRust, LanguageSwift,
		LanguageKotlin, LanguagePlaintext:
		return true
	}
	return false
}

func (l Language) String() string {
	return string(l)
}

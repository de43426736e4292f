package model

import (
	"fmt"
	"strings"
)

// DocstringStyle names a docstring convention. Each style fixes its section
// order, delimiter syntax, and which side of the signature it anchors to.
type DocstringStyle string

const (
	// StyleBasic is a single-line summary docstring (Python).
	StyleBasic DocstringStyle = "basic"
	// StylePEP follows PEP 257 with Google-style sections (Python).
	StylePEP DocstringStyle = "PEP"
	// StyleNumpy follows the NumPy/SciPy convention (Python).
	StyleNumpy DocstringStyle = "numpy"
	// StyleDoxygen is a Doxygen block comment (C#).
	StyleDoxygen DocstringStyle = "doxygen"
	// StyleXML is the C# XML documentation comment convention.
	StyleXML DocstringStyle = "xml"
	// StyleGodoc is a Go doc comment with parameter and return lists.
	StyleGodoc DocstringStyle = "godoc"
)

// DefaultStyle is used when neither config nor flags pick one.
const DefaultStyle = StyleBasic

// Styles lists every supported style in canonical order.
func Styles() []DocstringStyle {
	return []DocstringStyle{StyleBasic, StylePEP, StyleNumpy, StyleDoxygen, StyleXML, StyleGodoc}
}

// ParseStyle resolves a case-insensitive style name to its canonical form.
func ParseStyle(name string) (DocstringStyle, error) {
	lower := strings.ToLower(name)
	for _, style := range Styles() {
		if strings.ToLower(string(style)) == lower {
			return style, nil
		}
	}

	return "", fmt.Errorf("unknown docstring style %q", name)
}

// ParseLanguage resolves a case-insensitive language name.
func ParseLanguage(name string) (Language, error) {
	lower := strings.ToLower(name)
	for _, lang := range Languages() {
		if string(lang) == lower {
			return lang, nil
		}
	}

	return "", fmt.Errorf("unknown language %q", name)
}

// Language returns the language a style renders for.
func (s DocstringStyle) Language() Language {
	switch s {
	case StyleBasic, StylePEP, StyleNumpy:
		return LanguagePython
	case StyleDoxygen, StyleXML:
		return LanguageCSharp
	case StyleGodoc:
		return LanguageGo
	}

	return ""
}

// Above reports whether the style anchors above the signature line rather
// than below it inside the body.
func (s DocstringStyle) Above() bool {
	switch s {
	case StyleDoxygen, StyleXML, StyleGodoc:
		return true
	default:
		return false
	}
}

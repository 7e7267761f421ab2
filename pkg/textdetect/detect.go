// Package textdetect decides whether file content can be edited as plain
// text and names the language it is written in.
package textdetect

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/go-enry/go-enry/v2"
)

// LanguageText is reported when no language can be determined.
const LanguageText = "Text"

// Info describes a file's content.
type Info struct {
	Language  string
	Binary    bool
	Generated bool
	Vendored  bool
}

// IsText reports whether content is valid UTF-8 that does not look binary.
func IsText(content []byte) bool {
	return utf8.Valid(content) && !enry.IsBinary(content)
}

// Language names the language of the file from its name and content.
func Language(path string, content []byte) string {
	if lang := enry.GetLanguage(filepath.Base(path), content); lang != "" {
		return lang
	}
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return lang
	}
	return LanguageText
}

// Describe gathers everything textdetect knows about a file.
func Describe(path string, content []byte) Info {
	info := Info{
		Binary:   !IsText(content),
		Vendored: enry.IsVendor(path),
	}
	if info.Binary {
		return info
	}
	info.Language = Language(path, content)
	info.Generated = enry.IsGenerated(path, content)
	return info
}

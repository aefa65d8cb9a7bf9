package util

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeCode is the lookup key form of a part code: trimmed, upper case.
func NormalizeCode(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// Tokenize lowercases input and splits it on whitespace.
func Tokenize(input string) []string {
	return strings.Fields(strings.ToLower(input))
}

// ContainsToken reports whether field contains an already-lowercased token,
// ignoring case.
func ContainsToken(field, token string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), token)
}

func IsDigits(input string) bool {
	if input == "" {
		return false
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// HeaderHasAll reports whether the uppercased header contains every token.
func HeaderHasAll(header string, tokens []string) bool {
	if strings.TrimSpace(header) == "" || len(tokens) == 0 {
		return false
	}
	upper := strings.ToUpper(header)
	for _, token := range tokens {
		if !strings.Contains(upper, strings.ToUpper(token)) {
			return false
		}
	}
	return true
}

// maxFileNameRunes bounds a sanitized file name, extension included.
const maxFileNameRunes = 120

// SanitizeFileName keeps a client supplied name safe for Content-Disposition.
// Long names lose runes from the stem; the extension is kept.
func SanitizeFileName(input string) string {
	out := strings.Map(func(r rune) rune {
		switch {
		case r == '"' || r == '\\' || r == '/' || r == ':' || r == '*' || r == '?' || r == '<' || r == '>' || r == '|':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(input))
	if utf8.RuneCountInString(out) <= maxFileNameRunes {
		return out
	}

	ext := filepath.Ext(out)
	keep := maxFileNameRunes - utf8.RuneCountInString(ext)
	if keep < 1 {
		ext, keep = "", maxFileNameRunes
	}
	stem := []rune(strings.TrimSuffix(out, ext))
	return string(stem[:keep]) + ext
}

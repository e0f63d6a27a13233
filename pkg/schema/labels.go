package schema

import (
	"regexp"
	"strings"
	"unicode"
)

var wordSeparators = regexp.MustCompile(`[_\-\s]+`)

// Humanize turns an attribute name into a display label: separators become
// spaces, camelCase is split, a trailing "_id" is dropped and only the first
// word is capitalised ("author_id" -> "Author", "publishedAt" -> "Published at").
func Humanize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if trimmed := strings.TrimSuffix(name, "_id"); trimmed != "" {
		name = trimmed
	}

	var words []string
	for _, chunk := range wordSeparators.Split(name, -1) {
		for _, word := range splitCamel(chunk) {
			if word != "" {
				words = append(words, strings.ToLower(word))
			}
		}
	}
	if len(words) == 0 {
		return ""
	}
	words[0] = upperFirst(words[0])
	return strings.Join(words, " ")
}

// Underscore returns the snake_case element name of a class, dropping any
// module prefix ("Admin::BlogPost" -> "blog_post").
func Underscore(class string) string {
	class = strings.TrimSpace(class)
	if idx := strings.LastIndex(class, "::"); idx >= 0 {
		class = class[idx+2:]
	}
	if idx := strings.LastIndex(class, "."); idx >= 0 {
		class = class[idx+1:]
	}

	var words []string
	for _, chunk := range wordSeparators.Split(class, -1) {
		for _, word := range splitCamel(chunk) {
			if word != "" {
				words = append(words, strings.ToLower(word))
			}
		}
	}
	return strings.Join(words, "_")
}

func splitCamel(input string) []string {
	runes := []rune(input)
	var (
		words []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		if isBoundary(runes, i) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	if start < len(runes) {
		words = append(words, string(runes[start:]))
	}
	return words
}

// isBoundary splits "blogPost", "HTTPServer" (before "Server") and letter/digit
// transitions.
func isBoundary(runes []rune, i int) bool {
	prev, cur := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(cur), unicode.IsDigit(prev) && unicode.IsLetter(cur):
		return true
	default:
		return false
	}
}

func upperFirst(word string) string {
	runes := []rune(word)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

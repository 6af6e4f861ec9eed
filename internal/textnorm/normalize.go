// Package textnorm folds free-form alert text into the canonical form every
// lookup table in the service is keyed by.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var replacer = strings.NewReplacer(
	"’", "'",
	"`", "'",
	"ʼ", "'",
	".", " ",
	",", " ",
	";", " ",
	":", " ",
	"(", " ",
	")", " ",
	"[", " ",
	"]", " ",
	"{", " ",
	"}", " ",
	"<", " ",
	">", " ",
)

// Normalize lowercases s, unifies apostrophes, blanks out punctuation that
// never carries meaning in place names and collapses whitespace.
func Normalize(s string) string {
	s = replacer.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// ContainsAny reports whether norm contains any of keys as a substring.
func ContainsAny(norm string, keys []string) bool {
	for _, k := range keys {
		if k != "" && strings.Contains(norm, k) {
			return true
		}
	}
	return false
}

// ContainsWord reports whether word occurs in norm bounded on both sides by
// a non-letter, non-digit rune or the string edge.
func ContainsWord(norm, word string) bool {
	return indexBounded(norm, word, true) >= 0
}

// HasWordPrefix reports whether some token in norm starts with prefix.
func HasWordPrefix(norm, prefix string) bool {
	return indexBounded(norm, prefix, false) >= 0
}

func indexBounded(norm, word string, needTail bool) int {
	if word == "" {
		return -1
	}
	offset := 0
	for {
		i := strings.Index(norm[offset:], word)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(word)
		if isBoundaryBefore(norm, start) && (!needTail || isBoundaryAfter(norm, end)) {
			return start
		}
		_, size := utf8.DecodeRuneInString(norm[start:])
		offset = start + size
	}
}

func isBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func isBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

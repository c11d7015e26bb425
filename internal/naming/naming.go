// Package naming provides the identifier case conversions and the
// pluralize/singularize heuristics used to derive file names, type names and
// routes from project and entity configuration.
//
// Every function is pure and total: empty input yields empty output and no
// input panics.
package naming

import (
	"strings"
	"unicode"
)

// ── Word splitting ───────────────────────────────────────────────────────────

// Words splits an identifier into its words. Any rune that is not a letter or
// digit is a delimiter. A new word also starts at a lower/digit→upper
// transition ("fooBar" → foo, Bar) and before the last capital of an upper
// run followed by a lowercase letter ("XMLHttp" → XML, Http).
func Words(s string) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func capitalize(w string) string {
	if w == "" {
		return ""
	}
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// joinSingles folds runs of one-rune words into a single word. Joined
// capitalized, "a-b-c" would read back as the acronym "ABC"; folded it
// becomes "Abc", which splits back into the same word.
func joinSingles(words []string) []string {
	out := words[:0]
	run := false
	for _, w := range words {
		single := len([]rune(w)) == 1
		if single && run {
			out[len(out)-1] += w
			continue
		}
		out = append(out, w)
		run = single
	}
	return out
}

// ── Case conversions ─────────────────────────────────────────────────────────

// ToCamel converts s to lowerCamelCase ("shop-admin" → "shopAdmin").
func ToCamel(s string) string {
	words := joinSingles(Words(s))
	for i, w := range words {
		if i == 0 {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, "")
}

// ToPascal converts s to PascalCase ("shop-admin" → "ShopAdmin").
func ToPascal(s string) string {
	words := joinSingles(Words(s))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, "")
}

// ToKebab converts s to kebab-case ("UserProfiles" → "user-profiles").
func ToKebab(s string) string {
	return joinLower(s, "-")
}

// ToSnake converts s to snake_case ("UserProfiles" → "user_profiles").
func ToSnake(s string) string {
	return joinLower(s, "_")
}

// ToConstant converts s to CONSTANT_CASE ("apiBaseUrl" → "API_BASE_URL").
func ToConstant(s string) string {
	return strings.ToUpper(joinLower(s, "_"))
}

// ToLower lowercases s without splitting it.
func ToLower(s string) string {
	return strings.ToLower(s)
}

// ToUpper uppercases s without splitting it.
func ToUpper(s string) string {
	return strings.ToUpper(s)
}

// ToTitle converts s to space separated Title Case ("isActive" → "Is Active").
func ToTitle(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func joinLower(s, sep string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}

// ── Plural forms ─────────────────────────────────────────────────────────────

// Pluralize applies the English suffix heuristics: consonant + "y" becomes
// "ies", a trailing s/x/ch/sh takes "es", anything else takes "s".
// There is no table of irregular nouns ("person" → "persons").
func Pluralize(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return word + "es"
	default:
		return word + "s"
	}
}

// Singularize reverses Pluralize by suffix stripping: "ies" → "y", then "es",
// then "s". Words that merely end in "es" lose it too ("types" → "typ"); the
// result is consistent rather than linguistically correct.
func Singularize(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "ies"):
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "es"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "s"):
		return word[:len(word)-1]
	default:
		return word
	}
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// Package strings holds identifier normalization helpers for document IDs.
package strings

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts CamelCase to snake_case.
// Handles acronyms properly (HTTPRequest -> http_request).
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				if unicode.IsLower(prev) {
					result.WriteRune('_')
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Slugify derives a stable identifier from a human-readable name: CamelCase
// boundaries become underscores, everything is lower-cased, and every run of
// non-alphanumeric characters collapses to a single underscore. Leading and
// trailing separators are dropped.
func Slugify(name string) string {
	name = ToSnakeCase(name)

	var result strings.Builder
	pendingSep := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && result.Len() > 0 {
				result.WriteRune('_')
			}
			pendingSep = false
			result.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
	}
	return result.String()
}

// Disambiguator assigns unique identifiers from slugs. The first occurrence
// keeps the bare slug; later collisions get _2, _3, ... in first-seen order,
// so the same input sequence always yields the same identifiers.
type Disambiguator struct {
	seen map[string]int
}

// NewDisambiguator returns an empty Disambiguator.
func NewDisambiguator() *Disambiguator {
	return &Disambiguator{seen: make(map[string]int)}
}

// Claim returns a unique identifier for the slug.
func (d *Disambiguator) Claim(slug string) string {
	d.seen[slug]++
	n := d.seen[slug]
	if n == 1 {
		return slug
	}
	for {
		candidate := slug + "_" + itoa(n)
		if d.seen[candidate] == 0 {
			d.seen[candidate] = 1
			return candidate
		}
		n++
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Package choices encodes and decodes enumerated choice lists between the
// delimited inline string format ("1, First | 2, Second") and ordered
// (value, label) pairs.
package choices

import (
	"strings"

	cverr "github.com/reproforge/reproconv/convert/errors"
	"github.com/reproforge/reproconv/convert/record"
)

// Delimiter conventions. The pair delimiter separates a machine value from
// its label, the item delimiter separates successive pairs. Either can appear
// inside a label when escaped with a backslash.
const (
	PairDelim = ','
	ItemDelim = '|'
	Escape    = '\\'
)

// Decode parses a raw choice string into ordered pairs. Leading and trailing
// whitespace is trimmed from every value and label; interior whitespace is
// preserved exactly. A pair without a delimiter or a repeated machine value
// is a MalformedChoiceList error.
func Decode(raw string) ([]record.Choice, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := splitUnescaped(raw, ItemDelim)
	out := make([]record.Choice, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		pair := splitPairUnescaped(part, PairDelim)
		if pair == nil {
			return nil, cverr.New(cverr.MalformedChoiceList, "", "",
				"choice %q has no value delimiter", strings.TrimSpace(part)).WithToken(raw)
		}
		value := strings.TrimSpace(unescape(pair[0]))
		label := strings.TrimSpace(unescape(pair[1]))
		if seen[value] {
			return nil, cverr.New(cverr.MalformedChoiceList, "", "",
				"duplicate choice value %q", value).WithToken(raw)
		}
		seen[value] = true
		out = append(out, record.Choice{Value: value, Label: label})
	}
	return out, nil
}

// Encode renders ordered pairs back into the delimited string form.
// Decode(Encode(cs)) == cs for any trim-canonical list satisfying the
// uniqueness invariant, i.e. every list Decode itself produces; values or
// labels carrying leading or trailing whitespace come back trimmed.
func Encode(cs []record.Choice) string {
	if len(cs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, escape(c.Value)+string(PairDelim)+" "+escape(c.Label))
	}
	return strings.Join(parts, " "+string(ItemDelim)+" ")
}

// splitUnescaped splits on every unescaped occurrence of delim.
func splitUnescaped(s string, delim byte) []string {
	var parts []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			cur.WriteByte(Escape)
			cur.WriteByte(ch)
			escaped = false
		case ch == Escape:
			escaped = true
		case ch == delim:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	if escaped {
		cur.WriteByte(Escape)
	}
	parts = append(parts, cur.String())
	return parts
}

// splitPairUnescaped splits on the first unescaped delim, or returns nil when
// there is none.
func splitPairUnescaped(s string, delim byte) []string {
	escaped := false
	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == Escape:
			escaped = true
		case s[i] == delim:
			return []string{s[:i], s[i+1:]}
		}
	}
	return nil
}

func unescape(s string) string {
	var sb strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			sb.WriteByte(ch)
			escaped = false
		case ch == Escape:
			escaped = true
		default:
			sb.WriteByte(ch)
		}
	}
	if escaped {
		sb.WriteByte(Escape)
	}
	return sb.String()
}

func escape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == Escape || ch == PairDelim || ch == ItemDelim {
			sb.WriteByte(Escape)
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

package generator

import (
	"fmt"
	"strings"
	"unicode"
)

// QuoteMode selects how string values are quoted in the output.
type QuoteMode int

const (
	// QuoteSmart quotes only strings that would otherwise be ambiguous.
	QuoteSmart QuoteMode = iota
	// QuoteAlways quotes every string value.
	QuoteAlways
	// QuoteNever emits strings raw. Output may not round-trip.
	QuoteNever
)

// ParseQuoteMode maps a CLI/config token to a QuoteMode.
func ParseQuoteMode(s string) (QuoteMode, bool) {
	switch strings.ToLower(s) {
	case "", "smart":
		return QuoteSmart, true
	case "always":
		return QuoteAlways, true
	case "never":
		return QuoteNever, true
	default:
		return QuoteSmart, false
	}
}

// NeedsQuoting decides whether a string value must be quoted to survive a
// parse of the emitted document. The checks run in order of cheapness; any
// hit quotes the string.
//
//  1. Empty strings are indistinguishable from "no value".
//  2. Leading or trailing whitespace would be stripped by a reader.
//  3. The reserved words true, false and null would change type, as would
//     Infinity, -Infinity and NaN, which lenient float parsers accept.
//  4. Anything that parses as a number would change type.
//  5. Structural characters (colon, comma, quote, backslash, brackets,
//     braces, the active delimiter) and any control character would break
//     the line grammar. Comma is structural even when it is not the
//     delimiter: tabular headers always join their field list with commas.
//  6. A leading "- " would be read as a list element marker.
func NeedsQuoting(s string, delimiter rune) bool {
	if s == "" {
		return true
	}
	if s != strings.TrimSpace(s) {
		return true
	}
	switch s {
	case "true", "false", "null", "Infinity", "-Infinity", "NaN":
		return true
	}
	if looksNumeric(s) {
		return true
	}
	if strings.ContainsAny(s, ":,\"\\[]{}") || strings.ContainsRune(s, delimiter) {
		return true
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	if strings.HasPrefix(s, "- ") {
		return true
	}
	return false
}

// NeedsKeyQuoting decides whether an object key must be quoted: empty keys,
// keys starting with a digit, and keys containing a colon, space, comma,
// bracket or brace. Everything else stays bare, keeping tabular headers
// short.
func NeedsKeyQuoting(key string) bool {
	if key == "" {
		return true
	}
	if key[0] >= '0' && key[0] <= '9' {
		return true
	}
	return strings.ContainsAny(key, ": []{},")
}

// Quote wraps s in double quotes, escaping the characters a reader would
// otherwise misinterpret. Control characters without a short escape use
// lowercase \u00xx form; this covers the C1 range and DEL as well as C0.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// renderString applies the active quote mode to a string value.
func renderString(s string, mode QuoteMode, delimiter rune) string {
	switch mode {
	case QuoteAlways:
		return Quote(s)
	case QuoteNever:
		return s
	default:
		if NeedsQuoting(s, delimiter) {
			return Quote(s)
		}
		return s
	}
}

// renderKey quotes a key only when its characters would corrupt the line
// grammar, regardless of quote mode. Keys stay quoted even under QuoteNever.
func renderKey(key string) string {
	if NeedsKeyQuoting(key) {
		return Quote(key)
	}
	return key
}

// looksNumeric reports whether s would be read back as a number literal.
// It accepts the JSON number grammar plus a leading plus sign, since readers
// tend to be lenient.
func looksNumeric(s string) bool {
	i := 0
	n := len(s)
	if i < n && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return false
	}
	if i < n && s[i] == '.' {
		i++
		start = i
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '-' || s[i] == '+') {
			i++
		}
		start = i
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == n
}

package generator

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"toonconv/internal/errors"
)

// CanonNumber renders a number in its shortest lossless decimal form.
//
// Integer literals pass through verbatim so arbitrarily large integers keep
// every digit. Anything with a fractional or exponent part is normalized
// through float64: trailing zeros disappear (120.0 becomes 120, 25.50
// becomes 25.5) and the shortest representation that round-trips is chosen.
// Infinities and NaN have no decimal form and are rejected.
func CanonNumber(n json.Number) (string, error) {
	s := n.String()
	if s == "" {
		return "", errors.NewEncodeError("empty number literal", &errors.InvalidNumberError{Value: s})
	}
	if isIntegerLiteral(s) {
		return s, nil
	}

	f, err := n.Float64()
	if err != nil {
		return "", errors.NewEncodeError(
			"number cannot be represented",
			&errors.InvalidNumberError{Value: s},
		)
	}
	return FormatFloat(f)
}

// FormatFloat renders a float64 the same way CanonNumber renders fractional
// literals. Exposed for callers that build trees programmatically.
func FormatFloat(f float64) (string, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", errors.NewEncodeError(
			"number cannot be represented",
			&errors.InvalidNumberError{Value: strconv.FormatFloat(f, 'g', -1, 64)},
		)
	}

	// Very large and very small magnitudes switch to exponent notation so a
	// single value cannot balloon the output with hundreds of digits.
	abs := math.Abs(f)
	if f != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'e', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// isIntegerLiteral reports whether s is a plain integer: an optional minus
// sign followed by digits only. Anything else, including strconv-accepted
// spellings like "Infinity", takes the float path.
func isIntegerLiteral(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

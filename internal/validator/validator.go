package validator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"toonconv/internal/errors"
	"toonconv/internal/models"
)

// Severity distinguishes hard failures from advisories.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Issue is one finding from the validation pass.
type Issue struct {
	Severity Severity
	Message  string
}

// Report collects the findings of a validation pass over generated output.
// A report with no error-severity issues is valid; warnings alone do not
// fail a conversion.
type Report struct {
	Issues []Issue
}

// IsValid reports whether the output passed with no errors.
func (r *Report) IsValid() bool {
	return r.ErrorCount() == 0
}

// ErrorCount returns the number of error-severity issues.
func (r *Report) ErrorCount() int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity issues.
func (r *Report) WarningCount() int {
	return len(r.Issues) - r.ErrorCount()
}

// ErrorMessages returns the messages of error-severity issues only.
func (r *Report) ErrorMessages() []string {
	var msgs []string
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			msgs = append(msgs, i.Message)
		}
	}
	return msgs
}

func (r *Report) addError(format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) addWarning(format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// Validate runs structural and integrity checks on generated output against
// the source tree it was produced from. Structural problems (unbalanced
// brackets) are errors; integrity and formatting findings are warnings,
// since the substring checks they rely on are heuristic.
func Validate(output string, original models.Value) *Report {
	report := &Report{}

	checkBrackets(output, report)
	checkIntegrity(output, original, report)
	checkEncoding(output, report)
	checkIndentation(output, report)

	return report
}

// Strict converts a failed report into a hard error for callers that want
// validation failures to abort the conversion.
func Strict(report *Report) error {
	if report.IsValid() {
		return nil
	}
	return errors.NewValidateError(
		"generated output failed validation",
		&errors.ValidationFailedError{Issues: report.ErrorMessages()},
	)
}

// checkBrackets verifies that braces and brackets balance, skipping over
// quoted regions so a "[" inside a string value does not count.
func checkBrackets(output string, report *Report) {
	braces, brackets := 0, 0
	inString, escaped := false, false

	for i, ch := range output {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\':
			escaped = true
			continue
		case ch == '"':
			inString = !inString
			continue
		case inString:
			continue
		}

		switch ch {
		case '{':
			braces++
		case '}':
			braces--
			if braces < 0 {
				report.addError("unmatched closing brace at offset %d", i)
				return
			}
		case '[':
			brackets++
		case ']':
			brackets--
			if brackets < 0 {
				report.addError("unmatched closing bracket at offset %d", i)
				return
			}
		}
	}

	if braces != 0 {
		report.addError("%d unclosed brace(s)", braces)
	}
	if brackets != 0 {
		report.addError("%d unclosed bracket(s)", brackets)
	}
	if inString {
		report.addError("unterminated quoted string")
	}
}

// checkIntegrity verifies that every leaf value and key from the source
// appears somewhere in the output. A plain substring scan cannot account
// for number canonicalization or escaping perfectly, so misses are reported
// as a single warning rather than per-value errors.
func checkIntegrity(output string, original models.Value, report *Report) {
	var leaves []string
	collectLeaves(original, &leaves)

	missing := 0
	for _, leaf := range leaves {
		if !leafPresent(output, leaf) {
			missing++
		}
	}
	if missing > 0 {
		report.addWarning("%d source value(s) not found verbatim in output", missing)
	}
}

func collectLeaves(v models.Value, out *[]string) {
	switch v.Kind {
	case models.String:
		*out = append(*out, v.Str)
	case models.Bool:
		if v.Bool {
			*out = append(*out, "true")
		} else {
			*out = append(*out, "false")
		}
	case models.Null:
		*out = append(*out, "null")
	case models.Number:
		*out = append(*out, v.Number.String())
	case models.Array:
		for _, it := range v.Items {
			collectLeaves(it, out)
		}
	case models.Object:
		for _, f := range v.Fields {
			*out = append(*out, f.Key)
			collectLeaves(f.Value, out)
		}
	}
}

func leafPresent(output, leaf string) bool {
	if strings.Contains(output, leaf) {
		return true
	}
	if strings.Contains(output, `"`+leaf+`"`) {
		return true
	}
	escaped := strings.NewReplacer(
		`"`, `\"`,
		"\\", `\\`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	).Replace(leaf)
	return strings.Contains(output, escaped)
}

// checkEncoding flags invalid UTF-8 and control characters that appear
// unescaped outside the generator's escape forms.
func checkEncoding(output string, report *Report) {
	if !utf8.ValidString(output) {
		report.addError("output contains invalid UTF-8")
		return
	}
	for i, ch := range output {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			continue
		}
		if unicode.IsControl(ch) {
			report.addWarning("unescaped control character at offset %d", i)
			return
		}
	}
}

// checkIndentation flags lines whose leading space count is not a multiple
// of a common indent width. List-element continuation lines legitimately
// sit at odd offsets when the dash prefix is involved, so this stays a
// warning.
func checkIndentation(output string, report *Report) {
	if !strings.Contains(output, "\n") {
		return
	}
	for n, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		spaces := 0
		for _, ch := range line {
			if ch != ' ' {
				break
			}
			spaces++
		}
		if spaces > 0 && spaces%2 != 0 && spaces%4 != 0 {
			report.addWarning("irregular indentation on line %d: %d space(s)", n+1, spaces)
			return
		}
	}
}

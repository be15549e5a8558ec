package generator

import (
	"fmt"
	"strings"
	"time"

	"toonconv/internal/analyzer"
	"toonconv/internal/errors"
	"toonconv/internal/models"
)

// Options controls how the generator renders a value tree.
type Options struct {
	// IndentWidth is the number of spaces per nesting level (pretty mode).
	IndentWidth int
	// Delimiter separates inline array values and tabular row cells.
	Delimiter rune
	// LengthMarker includes element counts in array headers ([3] vs []).
	LengthMarker bool
	// Quote selects the string quoting strategy.
	Quote QuoteMode
	// Pretty selects line-per-field layout; false packs objects onto one line.
	Pretty bool
	// Deadline aborts emission with a timeout error once passed. Zero means
	// no limit. Checked between array elements, where long inputs spend
	// their time.
	Deadline time.Time
	// TimeLimit is reported in the timeout error.
	TimeLimit time.Duration
}

// DefaultOptions match the converter's defaults: two-space indent, comma
// delimiter, length markers on, smart quoting, pretty layout.
func DefaultOptions() Options {
	return Options{
		IndentWidth:  2,
		Delimiter:    ',',
		LengthMarker: true,
		Quote:        QuoteSmart,
		Pretty:       true,
	}
}

// Generator renders a models.Value tree as TOON text. Nesting depth is
// threaded through every call as an explicit parameter rather than kept as
// mutable state, so a failed subtree can never leave the generator
// misaligned for the next one.
type Generator struct {
	opts    Options
	indents []string // cache of indent strings by depth
}

// New returns a generator for the given options.
func New(opts Options) *Generator {
	if opts.IndentWidth < 0 {
		opts.IndentWidth = 2
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &Generator{opts: opts}
}

// Emit renders the whole tree. The caller is expected to have run the guard
// pass first; Emit itself only enforces the deadline and number validity.
func (g *Generator) Emit(root models.Value) (string, error) {
	var b strings.Builder
	if err := g.writeValue(&b, root, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

// writeValue renders a value at the given depth. Scalars produce bare text;
// containers produce their full block form.
func (g *Generator) writeValue(b *strings.Builder, v models.Value, depth int) error {
	switch v.Kind {
	case models.Object:
		return g.writeObject(b, v.Fields, depth)
	case models.Array:
		return g.writeArray(b, v.Items, depth)
	default:
		s, err := g.scalar(v)
		if err != nil {
			return err
		}
		b.WriteString(s)
		return nil
	}
}

// scalar renders a leaf value.
func (g *Generator) scalar(v models.Value) (string, error) {
	switch v.Kind {
	case models.Null:
		return "null", nil
	case models.Bool:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	case models.Number:
		return CanonNumber(v.Number)
	case models.String:
		return renderString(v.Str, g.opts.Quote, g.opts.Delimiter), nil
	default:
		return "", errors.NewEncodeError(fmt.Sprintf("value of kind %s is not a scalar", v.Kind), nil)
	}
}

// writeObject renders an object's fields. An empty object renders as the
// empty string; the key line above it (if any) already ends in a colon.
func (g *Generator) writeObject(b *strings.Builder, fields []models.Field, depth int) error {
	if len(fields) == 0 {
		return nil
	}
	if !g.opts.Pretty {
		return g.writeCompactObject(b, fields)
	}

	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(g.indent(depth))
		b.WriteString(renderKey(f.Key))

		switch f.Value.Kind {
		case models.Array:
			if err := g.writeArray(b, f.Value.Items, depth); err != nil {
				return err
			}
		case models.Object:
			b.WriteByte(':')
			if len(f.Value.Fields) > 0 {
				b.WriteByte('\n')
				if err := g.writeObject(b, f.Value.Fields, depth+1); err != nil {
					return err
				}
			}
		default:
			b.WriteString(": ")
			s, err := g.scalar(f.Value)
			if err != nil {
				return err
			}
			b.WriteString(s)
		}
	}
	return nil
}

// writeCompactObject packs fields onto a single line: key:value key2:value2.
func (g *Generator) writeCompactObject(b *strings.Builder, fields []models.Field) error {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(renderKey(f.Key))
		b.WriteByte(':')
		switch f.Value.Kind {
		case models.Array:
			if err := g.writeArray(b, f.Value.Items, 0); err != nil {
				return err
			}
		case models.Object:
			if err := g.writeCompactObject(b, f.Value.Fields); err != nil {
				return err
			}
		default:
			s, err := g.scalar(f.Value)
			if err != nil {
				return err
			}
			b.WriteString(s)
		}
	}
	return nil
}

// writeArray renders an array's header and body. The header is appended
// directly to whatever precedes it (a key, a dash, or nothing at the root),
// so "users" becomes "users[2]{id,name}:". depth is the level of the header
// line; the body indents one deeper.
func (g *Generator) writeArray(b *strings.Builder, items []models.Value, depth int) error {
	if len(items) == 0 {
		b.WriteString(g.marker(0))
		b.WriteByte(':')
		return nil
	}

	switch analyzer.Classify(items) {
	case analyzer.LayoutTabular:
		return g.writeTabular(b, items, depth)
	case analyzer.LayoutInline:
		return g.writeInline(b, items)
	default:
		return g.writeList(b, items, depth)
	}
}

// writeInline renders a scalar array on one line: [3]: a,b,c.
func (g *Generator) writeInline(b *strings.Builder, items []models.Value) error {
	b.WriteString(g.marker(len(items)))
	b.WriteString(": ")
	for i, it := range items {
		if i > 0 {
			b.WriteRune(g.opts.Delimiter)
		}
		s, err := g.scalar(it)
		if err != nil {
			return err
		}
		b.WriteString(s)
	}
	return nil
}

// writeTabular renders uniform objects as a schema header plus one row per
// element: [2]{id,name}: then indented delimiter-joined rows. The column
// order is the first element's key order.
func (g *Generator) writeTabular(b *strings.Builder, items []models.Value, depth int) error {
	keys := items[0].Keys()

	b.WriteString(g.marker(len(items)))
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(renderKey(k))
	}
	b.WriteString("}:")

	for _, it := range items {
		if err := g.checkDeadline(); err != nil {
			return err
		}
		b.WriteByte('\n')
		b.WriteString(g.indent(depth + 1))
		for i, k := range keys {
			if i > 0 {
				b.WriteRune(g.opts.Delimiter)
			}
			cell, _ := it.Lookup(k)
			if err := g.writeCell(b, cell, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCell renders one tabular cell. Uniformity guarantees cells are
// scalars or equal-length arrays; nested arrays render in their inline or
// block form appended to the row.
func (g *Generator) writeCell(b *strings.Builder, v models.Value, depth int) error {
	switch v.Kind {
	case models.Array:
		return g.writeArray(b, v.Items, depth)
	case models.Object:
		return g.writeObject(b, v.Fields, depth)
	default:
		s, err := g.scalar(v)
		if err != nil {
			return err
		}
		b.WriteString(s)
		return nil
	}
}

// writeList renders a non-uniform array as dash-prefixed elements one level
// below the header. Scalars and nested arrays share the dash line; objects
// put a bare dash on its own line with their fields one level deeper, so
// multi-field elements stay visually grouped.
func (g *Generator) writeList(b *strings.Builder, items []models.Value, depth int) error {
	b.WriteString(g.marker(len(items)))
	b.WriteByte(':')

	for _, it := range items {
		if err := g.checkDeadline(); err != nil {
			return err
		}
		b.WriteByte('\n')
		b.WriteString(g.indent(depth + 1))

		switch it.Kind {
		case models.Object:
			b.WriteByte('-')
			if len(it.Fields) > 0 {
				b.WriteByte('\n')
				if err := g.writeObject(b, it.Fields, depth+2); err != nil {
					return err
				}
			}
		case models.Array:
			b.WriteString("- ")
			if err := g.writeArray(b, it.Items, depth+1); err != nil {
				return err
			}
		default:
			b.WriteString("- ")
			s, err := g.scalar(it)
			if err != nil {
				return err
			}
			b.WriteString(s)
		}
	}
	return nil
}

// marker renders an array header's bracket section, with or without the
// element count.
func (g *Generator) marker(n int) string {
	if g.opts.LengthMarker {
		return fmt.Sprintf("[%d]", n)
	}
	return "[]"
}

func (g *Generator) indent(depth int) string {
	if !g.opts.Pretty {
		return ""
	}
	for len(g.indents) <= depth {
		g.indents = append(g.indents, strings.Repeat(" ", len(g.indents)*g.opts.IndentWidth))
	}
	return g.indents[depth]
}

func (g *Generator) checkDeadline() error {
	if g.opts.Deadline.IsZero() {
		return nil
	}
	if time.Now().After(g.opts.Deadline) {
		return errors.NewEncodeError(
			"emission exceeded the time limit",
			&errors.TimeoutError{Limit: g.opts.TimeLimit},
		)
	}
	return nil
}

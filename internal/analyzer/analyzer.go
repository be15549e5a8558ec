package analyzer

import (
	"strings"

	"toonconv/internal/models"
)

// Layout classifies how an array will be rendered.
type Layout int

const (
	// LayoutTabular: uniform objects rendered as a schema header plus rows.
	LayoutTabular Layout = iota
	// LayoutInline: scalars only, rendered on one line.
	LayoutInline
	// LayoutList: everything else, rendered as dash-prefixed blocks.
	LayoutList
)

func (l Layout) String() string {
	switch l {
	case LayoutTabular:
		return "tabular"
	case LayoutInline:
		return "inline"
	case LayoutList:
		return "list"
	default:
		return "unknown"
	}
}

// Classify assigns one of the three layout classes to a non-empty array.
// Empty arrays are a zero-length case the emitter handles directly ([0]:),
// so callers must not pass them here; for symmetry an empty slice classifies
// as LayoutList.
//
// The tabular check runs first: an array must be rejected from tabular
// before the scalar check is considered, because an array of objects is
// never "inline primitives" no matter what the objects contain.
func Classify(items []models.Value) Layout {
	if len(items) == 0 {
		return LayoutList
	}
	if isUniformObjectArray(items) {
		return LayoutTabular
	}
	if models.AllScalars(items) {
		return LayoutInline
	}
	return LayoutList
}

// isUniformObjectArray reports whether every element is an object, all
// objects share an identical key set, and for every key whose value is an
// array, all elements agree on that array's length. The last condition
// keeps ragged columns out of tabular form, where they would be silently
// truncated or misaligned.
func isUniformObjectArray(items []models.Value) bool {
	if len(items) == 0 || !models.AllObjects(items) {
		return false
	}

	first := items[0]
	firstKeys := make(map[string]struct{}, len(first.Fields))
	for _, f := range first.Fields {
		firstKeys[f.Key] = struct{}{}
	}

	for _, it := range items[1:] {
		if len(it.Fields) != len(first.Fields) {
			return false
		}
		for _, f := range it.Fields {
			if _, ok := firstKeys[f.Key]; !ok {
				return false
			}
		}
	}

	for _, f := range first.Fields {
		if f.Value.Kind != models.Array {
			continue
		}
		want := len(f.Value.Items)
		for _, it := range items[1:] {
			v, ok := it.Lookup(f.Key)
			if !ok || v.Kind != models.Array || len(v.Items) != want {
				return false
			}
		}
	}

	return true
}

// FieldType is the inferred type tag for one tabular field, or for the
// element type of a uniform scalar array.
type FieldType int

const (
	TypeNull FieldType = iota
	TypeBoolean
	TypeInteger
	TypeFloat
	TypeString
	TypeArray
	TypeObject
	TypeMixed
)

func (t FieldType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "bool"
	case TypeInteger:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	case TypeMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// FieldSchema describes one field of a tabular array.
type FieldSchema struct {
	Name     string
	Type     FieldType
	Nullable bool
}

// String renders the type with the nullable marker, e.g. "int?".
func (f FieldSchema) TypeString() string {
	if f.Nullable {
		return f.Type.String() + "?"
	}
	return f.Type.String()
}

// ArraySchema is derived metadata for one array node. It is computed on
// demand while formatting and never cached across calls.
type ArraySchema struct {
	Layout       Layout
	ElementCount int
	Fields       []FieldSchema // tabular arrays only
	ElementType  FieldType     // inline arrays only
}

// FieldNames returns the tabular field names in header order.
func (s *ArraySchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// GenerateSchema derives the schema for a non-empty array. Field order is
// the first element's key order, the same order the emitted tabular header
// uses; type tags are inferred by scanning every element.
func GenerateSchema(items []models.Value) *ArraySchema {
	layout := Classify(items)
	schema := &ArraySchema{Layout: layout, ElementCount: len(items)}

	switch layout {
	case LayoutTabular:
		first := items[0]
		schema.Fields = make([]FieldSchema, 0, len(first.Fields))
		for _, f := range first.Fields {
			schema.Fields = append(schema.Fields, inferFieldType(items, f.Key))
		}
	case LayoutInline:
		schema.ElementType = inferElementType(items)
	}

	return schema
}

// inferFieldType scans every element's value for one field. Integer and
// Float merge to Float; any other co-occurrence is Mixed. Fields where more
// than 10% of elements are null are marked nullable.
func inferFieldType(items []models.Value, key string) FieldSchema {
	nullCount := 0
	var detected FieldType
	detectedAny := false

	for _, it := range items {
		v, ok := it.Lookup(key)
		if !ok || v.Kind == models.Null {
			nullCount++
			continue
		}
		vt := valueType(v)
		if !detectedAny {
			detected = vt
			detectedAny = true
			continue
		}
		if detected != vt {
			detected = mergeTypes(detected, vt)
		}
	}

	fs := FieldSchema{Name: key}
	if !detectedAny {
		fs.Type = TypeNull
	} else {
		fs.Type = detected
	}
	fs.Nullable = float64(nullCount)/float64(len(items)) > 0.1
	return fs
}

func inferElementType(items []models.Value) FieldType {
	var detected FieldType
	detectedAny := false
	for _, it := range items {
		if it.Kind == models.Null {
			continue
		}
		vt := valueType(it)
		if !detectedAny {
			detected = vt
			detectedAny = true
			continue
		}
		if detected != vt {
			detected = mergeTypes(detected, vt)
		}
	}
	if !detectedAny {
		return TypeNull
	}
	return detected
}

func valueType(v models.Value) FieldType {
	switch v.Kind {
	case models.Null:
		return TypeNull
	case models.Bool:
		return TypeBoolean
	case models.Number:
		if isIntegerLiteral(v.Number.String()) {
			return TypeInteger
		}
		return TypeFloat
	case models.String:
		return TypeString
	case models.Array:
		return TypeArray
	default:
		return TypeObject
	}
}

// mergeTypes combines two observed types: int and float are compatible and
// widen to float, everything else degrades to mixed.
func mergeTypes(a, b FieldType) FieldType {
	if a == b {
		return a
	}
	if (a == TypeInteger && b == TypeFloat) || (a == TypeFloat && b == TypeInteger) {
		return TypeFloat
	}
	return TypeMixed
}

// isIntegerLiteral reports whether a json.Number literal has no fractional
// or exponent part.
func isIntegerLiteral(s string) bool {
	return !strings.ContainsAny(s, ".eE")
}

// SchemaSummary aggregates array schema information across a whole tree,
// for result metadata and the --stats display.
type SchemaSummary struct {
	ArrayCount    int
	UniformArrays []*ArraySchema
}

// CollectSchemas walks the tree and gathers a summary of every array,
// recording full schemas for the uniform-object ones.
func CollectSchemas(root models.Value) *SchemaSummary {
	summary := &SchemaSummary{}
	collect(root, summary)
	if summary.ArrayCount == 0 {
		return nil
	}
	return summary
}

func collect(v models.Value, summary *SchemaSummary) {
	switch v.Kind {
	case models.Array:
		summary.ArrayCount++
		if len(v.Items) > 0 && Classify(v.Items) == LayoutTabular {
			summary.UniformArrays = append(summary.UniformArrays, GenerateSchema(v.Items))
		}
		for _, it := range v.Items {
			collect(it, summary)
		}
	case models.Object:
		for _, f := range v.Fields {
			collect(f.Value, summary)
		}
	}
}

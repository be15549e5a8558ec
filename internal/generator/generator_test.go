package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonconv/internal/errors"
	"toonconv/internal/models"
	"toonconv/internal/parser"
)

func emit(t *testing.T, src string, opts Options) string {
	t.Helper()
	root, err := parser.ParseString(src)
	require.NoError(t, err)
	out, err := New(opts).Emit(root)
	require.NoError(t, err)
	return out
}

func emitDefault(t *testing.T, src string) string {
	return emit(t, src, DefaultOptions())
}

func TestEmit_SimpleObject(t *testing.T) {
	out := emitDefault(t, `{"name": "Alice", "age": 30}`)
	assert.Equal(t, "name: Alice\nage: 30", out)
}

func TestEmit_NestedObject(t *testing.T) {
	out := emitDefault(t, `{"user": {"name": "Alice", "age": 30}, "active": true}`)
	assert.Equal(t, "user:\n  name: Alice\n  age: 30\nactive: true", out)
}

func TestEmit_TabularArray(t *testing.T) {
	out := emitDefault(t, `[{"id": 1, "name": "Alice"}, {"id": 2, "name": "Bob"}]`)
	assert.Equal(t, "[2]{id,name}:\n  1,Alice\n  2,Bob", out)
}

func TestEmit_TabularArrayUnderKey(t *testing.T) {
	out := emitDefault(t, `{"users": [{"id": 1, "name": "Alice"}, {"id": 2, "name": "Bob"}]}`)
	assert.Equal(t, "users[2]{id,name}:\n  1,Alice\n  2,Bob", out)
}

func TestEmit_InlinePrimitiveArray(t *testing.T) {
	out := emitDefault(t, `{"tags": ["rust", "programming", "cli"]}`)
	assert.Equal(t, "tags[3]: rust,programming,cli", out)
}

func TestEmit_RootInlineArray(t *testing.T) {
	out := emitDefault(t, `[1, 2, 3]`)
	assert.Equal(t, "[3]: 1,2,3", out)
}

func TestEmit_MixedArray(t *testing.T) {
	out := emitDefault(t, `{"items": [{"type": "A"}, "string", 123]}`)
	want := "items[3]:\n" +
		"  -\n" +
		"    type: A\n" +
		"  - string\n" +
		"  - 123"
	assert.Equal(t, want, out)
}

func TestEmit_NestedArrayInList(t *testing.T) {
	out := emitDefault(t, `{"items": [[1, 2], "x"]}`)
	want := "items[2]:\n" +
		"  - [2]: 1,2\n" +
		"  - x"
	assert.Equal(t, want, out)
}

func TestEmit_EmptyContainers(t *testing.T) {
	assert.Equal(t, "", emitDefault(t, `{}`))
	assert.Equal(t, "[0]:", emitDefault(t, `[]`))
	assert.Equal(t, "items[0]:", emitDefault(t, `{"items": []}`))
	assert.Equal(t, "meta:", emitDefault(t, `{"meta": {}}`))
}

func TestEmit_RootScalars(t *testing.T) {
	assert.Equal(t, "null", emitDefault(t, `null`))
	assert.Equal(t, "true", emitDefault(t, `true`))
	assert.Equal(t, "42", emitDefault(t, `42`))
	assert.Equal(t, "hello", emitDefault(t, `"hello"`))
}

func TestEmit_NumbersCanonical(t *testing.T) {
	out := emitDefault(t, `{"price": 120.0, "rate": 25.50, "exact": 9.99}`)
	assert.Equal(t, "price: 120\nrate: 25.5\nexact: 9.99", out)
}

func TestEmit_SmartQuoting(t *testing.T) {
	out := emitDefault(t, `{"normal": "hello", "empty": "", "keyword": "true", "numeric": "42", "spaced": " hi "}`)
	assert.Contains(t, out, "normal: hello")
	assert.Contains(t, out, `empty: ""`)
	assert.Contains(t, out, `keyword: "true"`)
	assert.Contains(t, out, `numeric: "42"`)
	assert.Contains(t, out, `spaced: " hi "`)
}

func TestEmit_NumericLiteralStringsQuoted(t *testing.T) {
	out := emitDefault(t, `{"a": "NaN", "b": "Infinity", "c": "-Infinity"}`)
	assert.Equal(t, "a: \"NaN\"\nb: \"Infinity\"\nc: \"-Infinity\"", out)
}

func TestEmit_ControlCharStringQuoted(t *testing.T) {
	out := emitDefault(t, `{"a": "one\u0001two"}`)
	assert.Equal(t, `a: "one\u0001two"`, out)
}

func TestEmit_CommaQuotedUnderPipeDelimiter(t *testing.T) {
	opts := DefaultOptions()
	opts.Delimiter = '|'
	out := emit(t, `{"vals": ["a,b", "c"]}`, opts)
	assert.Equal(t, `vals[2]: "a,b"|c`, out)
}

func TestEmit_KeyQuoting(t *testing.T) {
	out := emitDefault(t, `{"key:with:colons": "v", "key with spaces": "w", "123key": "x", "normalKey": "y"}`)
	assert.Contains(t, out, `"key:with:colons": v`)
	assert.Contains(t, out, `"key with spaces": w`)
	assert.Contains(t, out, `"123key": x`)
	assert.Contains(t, out, "normalKey: y")
	assert.NotContains(t, out, `"normalKey"`)
}

func TestEmit_DottedKeyStaysBare(t *testing.T) {
	out := emitDefault(t, `{"a.b": "v", "v+1": "w"}`)
	assert.Equal(t, "a.b: v\nv+1: w", out)
}

func TestEmit_QuoteAlways(t *testing.T) {
	opts := DefaultOptions()
	opts.Quote = QuoteAlways
	out := emit(t, `{"a": "hello"}`, opts)
	assert.Equal(t, `a: "hello"`, out)
}

func TestEmit_QuoteNever(t *testing.T) {
	opts := DefaultOptions()
	opts.Quote = QuoteNever
	out := emit(t, `{"a": "true"}`, opts)
	assert.Equal(t, "a: true", out)
}

func TestEmit_PipeDelimiter(t *testing.T) {
	opts := DefaultOptions()
	opts.Delimiter = '|'
	out := emit(t, `{"users": [{"id": 1, "name": "Alice"}, {"id": 2, "name": "Bob"}]}`, opts)
	assert.Equal(t, "users[2]{id,name}:\n  1|Alice\n  2|Bob", out)
}

func TestEmit_TabDelimiter(t *testing.T) {
	opts := DefaultOptions()
	opts.Delimiter = '\t'
	out := emit(t, `{"tags": ["a", "b"]}`, opts)
	assert.Equal(t, "tags[2]: a\tb", out)
}

func TestEmit_WideIndent(t *testing.T) {
	opts := DefaultOptions()
	opts.IndentWidth = 4
	out := emit(t, `{"user": {"name": "Alice"}}`, opts)
	assert.Equal(t, "user:\n    name: Alice", out)
}

func TestEmit_NoLengthMarker(t *testing.T) {
	opts := DefaultOptions()
	opts.LengthMarker = false
	out := emit(t, `{"tags": ["a", "b"]}`, opts)
	assert.Equal(t, "tags[]: a,b", out)
}

func TestEmit_CompactObject(t *testing.T) {
	opts := DefaultOptions()
	opts.Pretty = false
	out := emit(t, `{"name": "Alice", "age": 30}`, opts)
	assert.Equal(t, "name:Alice age:30", out)
}

func TestEmit_TabularFieldOrderFollowsFirstElement(t *testing.T) {
	out := emitDefault(t, `[{"name": "Alice", "id": 1}, {"id": 2, "name": "Bob"}]`)
	assert.Equal(t, "[2]{name,id}:\n  Alice,1\n  Bob,2", out)
}

func TestEmit_TabularWithNestedArrays(t *testing.T) {
	out := emitDefault(t, `[{"id": 1, "tags": ["a", "b"]}, {"id": 2, "tags": ["c", "d"]}]`)
	assert.Equal(t, "[2]{id,tags}:\n  1,[2]: a,b\n  2,[2]: c,d", out)
}

func TestEmit_InfinityRejected(t *testing.T) {
	root := models.ObjectValue([]models.Field{
		{Key: "bad", Value: models.NumberValue("Infinity")},
	})
	_, err := New(DefaultOptions()).Emit(root)
	require.Error(t, err)

	var invalid *errors.InvalidNumberError
	assert.ErrorAs(t, err, &invalid)
}

func TestEmit_DeadlineExceeded(t *testing.T) {
	opts := DefaultOptions()
	opts.Deadline = time.Now().Add(-time.Second)
	opts.TimeLimit = time.Nanosecond

	root, err := parser.ParseString(`[{"id": 1, "name": "a"}, {"id": 2, "name": "b"}]`)
	require.NoError(t, err)

	_, err = New(opts).Emit(root)
	require.Error(t, err)

	var timeout *errors.TimeoutError
	assert.ErrorAs(t, err, &timeout)
}

func TestEmit_DeepNesting(t *testing.T) {
	out := emitDefault(t, `{"a": {"b": {"c": {"d": "leaf"}}}}`)
	assert.Equal(t, "a:\n  b:\n    c:\n      d: leaf", out)
}

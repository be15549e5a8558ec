package e2e

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonconv/internal/config"
	"toonconv/internal/converter"
)

func testdata(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func TestEndToEnd_Users(t *testing.T) {
	res, err := converter.ConvertFile(testdata("users.json"), config.NewConfig())
	require.NoError(t, err)

	want := "users[3]{id,name,role}:\n" +
		"  1,Alice,admin\n" +
		"  2,Bob,editor\n" +
		"  3,Carol,viewer\n" +
		"total: 3"
	assert.Equal(t, want, res.Content)

	require.NotNil(t, res.Metadata.Validation)
	assert.True(t, res.Metadata.Validation.IsValid())
	assert.Greater(t, res.Metadata.TokenReduction, 0.0)
}

func TestEndToEnd_Catalog(t *testing.T) {
	res, err := converter.ConvertFile(testdata("catalog.json"), config.NewConfig())
	require.NoError(t, err)

	out := res.Content

	// Nested object block
	assert.Contains(t, out, "store:\n  name: North Books\n  open: true\n  rating: 4.5")
	// Inline primitive array
	assert.Contains(t, out, "tags[3]: books,coffee,wifi")
	// Tabular array with trimmed float and zero stock
	assert.Contains(t, out, "inventory[2]{sku,title,price,stock}:\n  bk-001,The Long Walk,12,4\n  bk-002,Night Trains,9.99,0")
	// Mixed list with an object, a string and a number
	assert.Contains(t, out, "events[3]:\n  -\n    kind: reading\n  - closed dec 25\n  - 2026")
	// Empty object keeps a bare key line
	assert.Contains(t, out, "notes:")

	require.NotNil(t, res.Metadata.Schema)
	assert.Equal(t, 3, res.Metadata.Schema.ArrayCount)
	require.Len(t, res.Metadata.Schema.UniformArrays, 1)
	assert.Equal(t, []string{"sku", "title", "price", "stock"}, res.Metadata.Schema.UniformArrays[0].FieldNames())
}

func TestEndToEnd_ConfigFileDrivesOutput(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "toonconv.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("delimiter: pipe\nindent: 4\n"), 0644))

	cfg, err := config.LoadConfig(cfgPath)
	require.NoError(t, err)

	res, err := converter.ConvertFile(testdata("users.json"), cfg)
	require.NoError(t, err)

	assert.Contains(t, res.Content, "users[3]{id,name,role}:\n    1|Alice|admin")
}

func TestEndToEnd_BatchRun(t *testing.T) {
	paths := []string{testdata("users.json"), testdata("catalog.json")}
	items, stats := converter.ConvertFiles(paths, config.NewConfig())

	require.Len(t, items, 2)
	for _, item := range items {
		assert.NoError(t, item.Err)
		assert.NotEmpty(t, item.Result.Content)
	}
	assert.Equal(t, 2, stats.OperationCount)
	assert.Equal(t, 0, stats.FailureCount)
	assert.NotEmpty(t, stats.ReportID)

	summary := stats.Summary()
	assert.Contains(t, summary, "2 operation(s)")
}

func TestEndToEnd_RoundTripSizes(t *testing.T) {
	data, err := os.ReadFile(testdata("users.json"))
	require.NoError(t, err)

	res, err := converter.ConvertString(string(data), config.NewConfig())
	require.NoError(t, err)

	assert.Equal(t, int64(len(data)), res.Metadata.InputSize)
	assert.Less(t, res.Metadata.OutputSize, res.Metadata.InputSize)
	assert.False(t, strings.HasSuffix(res.Content, "\n"))
}

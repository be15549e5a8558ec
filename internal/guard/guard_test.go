package guard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toonconv/internal/errors"
	"toonconv/internal/models"
	"toonconv/internal/parser"
)

// deeplyNested builds n arrays wrapped around a single string leaf.
func deeplyNested(n int) models.Value {
	v := models.StringValue("leaf")
	for i := 0; i < n; i++ {
		v = models.ArrayValue([]models.Value{v})
	}
	return v
}

func TestCheck_WithinLimit(t *testing.T) {
	root, err := parser.ParseString(`{"a": {"b": {"c": [1, 2, 3]}}}`)
	require.NoError(t, err)
	assert.NoError(t, Check(root, 1000))
}

func TestCheck_DepthExceeded(t *testing.T) {
	err := Check(deeplyNested(2000), 1000)
	require.Error(t, err)

	var depthErr *errors.MaxDepthError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, 1000, depthErr.Limit)
}

func TestCheck_DepthExactlyAtLimit(t *testing.T) {
	assert.NoError(t, Check(deeplyNested(10), 10))
	assert.Error(t, Check(deeplyNested(11), 10))
}

func TestCheck_CycleDetected(t *testing.T) {
	// Alias the same backing slice at two levels of the tree.
	inner := []models.Value{models.StringValue("x")}
	inner[0] = models.ArrayValue(inner)
	root := models.ArrayValue(inner)

	err := Check(root, 1000)
	require.Error(t, err)

	var circErr *errors.CircularRefError
	require.ErrorAs(t, err, &circErr)
	assert.NotEmpty(t, circErr.Path)
}

func TestCheck_SharedSiblingsAreNotACycle(t *testing.T) {
	// The same subtree used twice side by side is a DAG, not a cycle.
	shared := models.ObjectValue([]models.Field{
		{Key: "x", Value: models.NumberValue(json.Number("1"))},
	})
	root := models.ObjectValue([]models.Field{
		{Key: "a", Value: shared},
		{Key: "b", Value: shared},
	})

	assert.NoError(t, Check(root, 1000))
}

func TestCheck_ErrorPathNamesLocation(t *testing.T) {
	deep := models.ObjectValue([]models.Field{
		{Key: "users", Value: models.ArrayValue([]models.Value{
			models.ObjectValue([]models.Field{
				{Key: "profile", Value: deeplyNested(50)},
			}),
		})},
	})

	err := Check(deep, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users[0].profile")
}

func TestMaxObservedDepth(t *testing.T) {
	root, err := parser.ParseString(`{"a": {"b": [1]}}`)
	require.NoError(t, err)
	assert.Equal(t, 3, MaxObservedDepth(root))

	assert.Equal(t, 0, MaxObservedDepth(models.StringValue("x")))
}

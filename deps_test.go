package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasValueConstraints(t *testing.T) {
	assert.False(t, hasValueConstraints(&Schema{}))
	assert.True(t, hasValueConstraints(&Schema{Type: stringSchemaType("string")}))
	assert.True(t, hasValueConstraints(&Schema{MinLength: floatPtr(1)}))
	assert.True(t, hasValueConstraints(&Schema{Const: &ConstValue{Value: "x", IsSet: true}}))
	assert.True(t, hasValueConstraints(&Schema{Enum: []any{"a", "b"}}))
}

func TestExtractReferencedPathsDirectConstraint(t *testing.T) {
	schema := &Schema{Type: stringSchemaType("string"), MinLength: floatPtr(1)}
	paths := extractReferencedPaths(schema, "/name", 0)
	assert.Equal(t, []string{"/name"}, paths)
}

func TestExtractReferencedPathsRootHasNoDirectPath(t *testing.T) {
	schema := &Schema{Type: stringSchemaType("object")}
	paths := extractReferencedPaths(schema, "", 0)
	assert.Empty(t, paths, "root path is never self-added even when it has value constraints")
}

func TestExtractReferencedPathsRequired(t *testing.T) {
	schema := &Schema{Required: []string{"a", "b"}}
	paths := extractReferencedPaths(schema, "", 0)
	assert.ElementsMatch(t, []string{"/a", "/b"}, paths)
}

func TestExtractReferencedPathsProperties(t *testing.T) {
	props := SchemaMap{
		"name": {Type: stringSchemaType("string"), MinLength: floatPtr(1)},
		"age":  {Type: stringSchemaType("integer")},
	}
	schema := &Schema{Properties: &props}
	paths := extractReferencedPaths(schema, "", 0)
	assert.ElementsMatch(t, []string{"/name", "/age"}, paths)
}

func TestExtractReferencedPathsDependentSchemasAndRequired(t *testing.T) {
	schema := &Schema{
		DependentRequired: map[string][]string{"creditCard": {"billingAddress"}},
		DependentSchemas: map[string]*Schema{
			"shipping": {Required: []string{"address"}},
		},
	}
	paths := extractReferencedPaths(schema, "", 0)
	assert.Contains(t, paths, "/creditCard")
	assert.Contains(t, paths, "/shipping")
	assert.Contains(t, paths, "/address")
}

func TestExtractReferencedPathsIfThenElse(t *testing.T) {
	schema := &Schema{
		If:   &Schema{Required: []string{"kind"}},
		Then: &Schema{Required: []string{"extra"}},
		Else: &Schema{Required: []string{"other"}},
	}
	paths := extractReferencedPaths(schema, "", 0)
	assert.ElementsMatch(t, []string{"/kind", "/extra", "/other"}, paths)
}

func TestExtractReferencedPathsDeduplicates(t *testing.T) {
	schema := &Schema{
		Required:          []string{"a"},
		DependentRequired: map[string][]string{"a": {"b"}},
	}
	paths := extractReferencedPaths(schema, "", 0)
	count := 0
	for _, p := range paths {
		if p == "/a" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractReferencedPathsItemsAndPrefixItems(t *testing.T) {
	schema := &Schema{
		Items: &Schema{Required: []string{"value"}},
		PrefixItems: []*Schema{
			{Required: []string{"first"}},
		},
	}
	paths := extractReferencedPaths(schema, "/list", 0)
	assert.Contains(t, paths, "/list/value")
	assert.Contains(t, paths, "/list/0/first")
}

func TestExtractReferencedPathsNilSchema(t *testing.T) {
	assert.Empty(t, extractReferencedPaths(nil, "", 0))
}

func TestExportedExtractReferencedPathsNoTruncation(t *testing.T) {
	schema := &Schema{Required: []string{"a"}}
	paths, err := ExtractReferencedPaths(schema, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a"}, paths)
}

func TestExportedExtractReferencedPathsTruncatesDeepChains(t *testing.T) {
	current := &Schema{Required: []string{"leaf"}}
	for i := 0; i < maxExtractDepth+10; i++ {
		current = &Schema{If: current}
	}

	_, err := ExtractReferencedPaths(current, "")
	assert.ErrorIs(t, err, ErrMaxExtractDepthExceeded)
}

func TestCollectDependenciesRequired(t *testing.T) {
	schema := &Schema{Required: []string{"name"}}
	deps := collectDependencies(schema, "")
	assert.True(t, deps["/name"])
}

func TestCollectDependenciesNestedInstanceLocation(t *testing.T) {
	schema := &Schema{Required: []string{"name"}}
	deps := collectDependencies(schema, "/user")
	assert.True(t, deps["/user/name"])
}

func TestCollectDependenciesIfBranchPulls(t *testing.T) {
	schema := &Schema{
		If: &Schema{Required: []string{"kind"}},
		Then: &Schema{
			Required: []string{"extra"},
		},
	}
	deps := collectDependencies(schema, "")
	assert.True(t, deps["/kind"])
	assert.True(t, deps["/extra"])
}

func TestCollectDependenciesDependentSchemas(t *testing.T) {
	schema := &Schema{
		DependentSchemas: map[string]*Schema{
			"shipping": {Required: []string{"address"}},
		},
	}
	deps := collectDependencies(schema, "")
	assert.True(t, deps["/shipping"])
	assert.True(t, deps["/address"])
}

func TestCollectDependenciesOneOfAndAnyOf(t *testing.T) {
	schema := &Schema{
		OneOf: []*Schema{{Required: []string{"a"}}},
		AnyOf: []*Schema{{Required: []string{"b"}}},
	}
	deps := collectDependencies(schema, "")
	assert.True(t, deps["/a"])
	assert.True(t, deps["/b"])
}

func TestCollectDependenciesAllOfRecurses(t *testing.T) {
	schema := &Schema{
		AllOf: []*Schema{{Required: []string{"a"}}},
	}
	deps := collectDependencies(schema, "")
	assert.True(t, deps["/a"])
}

func TestDependencySetOperations(t *testing.T) {
	set := newDependencySet()
	set.add("/a")
	set.addAll([]string{"/b", "/c"})
	assert.ElementsMatch(t, []string{"/a", "/b", "/c"}, set.slice())
}

func TestResolveAbsolutePath(t *testing.T) {
	assert.Equal(t, "/user/name", resolveAbsolutePath("/user", "/name"))
	assert.Equal(t, "/name", resolveAbsolutePath("", "/name"))
	assert.Equal(t, "already-absolute", resolveAbsolutePath("/user", "already-absolute"))
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COMMERCE_BACKEND", "local")
	t.Setenv("CATALOG_FILE", "")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"storectl"}, args...))
	return out.String(), err
}

func TestSearch_ListsMatchesWithTerm(t *testing.T) {
	out, err := runCLI(t, "search", "bowl")
	require.NoError(t, err)

	assert.Contains(t, out, "bowl-chawan")
	assert.Contains(t, out, "bowls-set")
	assert.Contains(t, out, "terms: bowl")
}

func TestSearch_NoMatches(t *testing.T) {
	out, err := runCLI(t, "search", "teapot")
	require.NoError(t, err)
	assert.Contains(t, out, `no products match "teapot"`)
}

func TestSearch_RequiresQuery(t *testing.T) {
	_, err := runCLI(t, "search")
	require.EqualError(t, err, "search query required")
}

func TestQuickSearch_ShowsComingSoon(t *testing.T) {
	out, err := runCLI(t, "quick-search", "yuzu")
	require.NoError(t, err)

	assert.Contains(t, out, "yuzu-matcha")
	assert.Contains(t, out, "Coming soon")
	assert.NotContains(t, out, "bamboo-whisk")
}

func TestCollection_All(t *testing.T) {
	out, err := runCLI(t, "collection", "all", "--limit", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "All Products")
	assert.Contains(t, out, "ceremonial-matcha")
	assert.NotContains(t, out, "bamboo-whisk")
}

func TestCollection_Unknown(t *testing.T) {
	_, err := runCLI(t, "collection", "nope")
	require.Error(t, err)
}

func TestImport_CountsProducts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")
	csv := "Handle,Title,Variant Price\nhojicha,Hojicha,14.00\nsencha,Sencha,9.50\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	out, err := runCLI(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 products imported")
}

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techmaster-vietnam/blogcounter/models"
)

func TestParse(t *testing.T) {
	seeds, err := Parse([]byte(`
blogs:
  - id: 1
    title: Hello world
  - id: 2
ids: [3, 4]
`))
	require.NoError(t, err)
	assert.Equal(t, []models.BlogSeed{
		{ID: 1, Title: "Hello world"},
		{ID: 2},
		{ID: 3},
		{ID: 4},
	}, seeds)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("blogs: [id: x"))
	assert.Error(t, err)

	_, err = Parse([]byte("ids: [one]"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "blogs.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("ids: [9]\n"), 0o644))
	seeds, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []models.BlogSeed{{ID: 9}}, seeds)

	jsonPath := filepath.Join(dir, "blogs.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"blogs":[{"id":5,"title":"Five"}]}`), 0o644))
	seeds, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []models.BlogSeed{{ID: 5, Title: "Five"}}, seeds)

	seeds, err = Load("")
	require.NoError(t, err)
	assert.Empty(t, seeds)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

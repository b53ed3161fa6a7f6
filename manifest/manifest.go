// Package manifest reads the list of published posts whose counters should
// exist before the first visitor arrives.
//
// Format (YAML, or JSON for a .json file):
//
//	blogs:
//	  - id: 1
//	    title: Hello world
//	  - id: 2
//	ids: [3, 4]
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/techmaster-vietnam/blogcounter/models"
	yaml "gopkg.in/yaml.v3"
)

type fileEntry struct {
	ID    int64  `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
}

type fileManifest struct {
	Blogs []fileEntry `yaml:"blogs" json:"blogs"`
	IDs   []int64     `yaml:"ids" json:"ids"`
}

// Load reads the manifest at path. An empty path yields no seeds.
func Load(path string) ([]models.BlogSeed, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(b)
	}
	return Parse(b)
}

// Parse decodes a YAML manifest. Entries in blogs come first, then ids.
func Parse(data []byte) ([]models.BlogSeed, error) {
	var fm fileManifest
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return fm.seeds(), nil
}

// ParseJSON decodes a JSON manifest
func ParseJSON(data []byte) ([]models.BlogSeed, error) {
	var fm fileManifest
	if err := json.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return fm.seeds(), nil
}

func (fm fileManifest) seeds() []models.BlogSeed {
	seeds := make([]models.BlogSeed, 0, len(fm.Blogs)+len(fm.IDs))
	for _, e := range fm.Blogs {
		seeds = append(seeds, models.BlogSeed{ID: e.ID, Title: e.Title})
	}
	for _, id := range fm.IDs {
		seeds = append(seeds, models.BlogSeed{ID: id})
	}
	return seeds
}

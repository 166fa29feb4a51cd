// Package catalog reads the portfolio source file: the static set of
// (techstack, link) records the similarity index is built from.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coldreach-ai/coldreach/internal/domain"
)

// Loader reads portfolio entries from a file. YAML and CSV are supported;
// the format is chosen by extension.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given catalog file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and validates the catalog. Entries without a link or without
// any skill tag are rejected; an empty catalog is an error because the
// matcher cannot operate without it.
func (l *Loader) Load() ([]domain.PortfolioEntry, error) {
	f, err := os.Open(filepath.Clean(l.path))
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", l.path, err)
	}
	defer f.Close()

	var entries []domain.PortfolioEntry
	switch ext := strings.ToLower(filepath.Ext(l.path)); ext {
	case ".yaml", ".yml":
		entries, err = parseYAML(f)
	case ".csv":
		entries, err = parseCSV(f)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (want .yaml, .yml or .csv)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", l.path, err)
	}

	for i, e := range entries {
		if e.Link == "" {
			return nil, fmt.Errorf("catalog entry %d: link is required", i)
		}
		if len(e.Techstack) == 0 {
			return nil, fmt.Errorf("catalog entry %d (%s): techstack is required", i, e.Link)
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog %s has no entries", l.path)
	}

	return entries, nil
}

// yamlCatalog is the YAML catalog file shape.
type yamlCatalog struct {
	Entries []yamlEntry `yaml:"entries"`
}

type yamlEntry struct {
	Techstack []string `yaml:"techstack"`
	Link      string   `yaml:"link"`
}

func parseYAML(r io.Reader) ([]domain.PortfolioEntry, error) {
	var doc yamlCatalog
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	entries := make([]domain.PortfolioEntry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		entries = append(entries, domain.PortfolioEntry{
			Techstack: cleanTags(e.Techstack),
			Link:      strings.TrimSpace(e.Link),
		})
	}
	return entries, nil
}

// parseCSV reads a two-column CSV with a "Techstack,Links" header where the
// techstack cell is itself a comma-separated tag list.
func parseCSV(r io.Reader) ([]domain.PortfolioEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip the header row when present.
	if strings.EqualFold(strings.TrimSpace(records[0][0]), "techstack") {
		records = records[1:]
	}

	entries := make([]domain.PortfolioEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, domain.PortfolioEntry{
			Techstack: cleanTags(strings.Split(rec[0], ",")),
			Link:      strings.TrimSpace(rec[1]),
		})
	}
	return entries, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Package manifest parses YAML batch manifests for the batch command.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one file to store.
type Entry struct {
	Path        string `yaml:"path"`
	ContentType string `yaml:"content_type"`
	Note        string `yaml:"note"`
}

// Manifest describes a batch of files to store with a shared epoch count.
type Manifest struct {
	Epochs  int     `yaml:"epochs"`
	Entries []Entry `yaml:"entries"`
}

// Load reads and validates a manifest file. Relative entry paths are
// resolved against the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if len(m.Entries) == 0 {
		return nil, fmt.Errorf("manifest %s lists no entries", path)
	}

	base := filepath.Dir(path)
	for i := range m.Entries {
		entryPath := strings.TrimSpace(m.Entries[i].Path)
		if entryPath == "" {
			return nil, fmt.Errorf("manifest %s: entry %d has no path", path, i+1)
		}
		if !filepath.IsAbs(entryPath) {
			entryPath = filepath.Join(base, entryPath)
		}
		m.Entries[i].Path = entryPath
	}

	return &m, nil
}

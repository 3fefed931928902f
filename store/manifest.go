package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest lists the grammar files to seed into a Store at startup: a
// TOML document naming files on disk rather than carrying grammar
// source inline.
type Manifest struct {
	Grammar []ManifestEntry `toml:"grammar"`
}

// ManifestEntry is one manifest-listed grammar: the dotted name to
// register it under, which dialect parses it, and the file (resolved
// relative to the manifest's own directory) holding its source.
type ManifestEntry struct {
	Name    string `toml:"name"`
	Dialect string `toml:"dialect"`
	File    string `toml:"file"`
}

// LoadManifest reads and decodes the TOML manifest at path.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("store: decoding manifest %s: %w", path, err)
	}
	return m, nil
}

// Seed loads the manifest at manifestPath and Puts every entry it lists
// into s, resolving each entry's File relative to the manifest's own
// directory. It returns the number of grammars seeded.
func Seed(ctx context.Context, s *Store, manifestPath string) (int, error) {
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(manifestPath)

	for _, entry := range m.Grammar {
		if entry.Name == "" {
			return 0, fmt.Errorf("store: manifest %s: entry with empty name", manifestPath)
		}
		filePath := entry.File
		if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(dir, filePath)
		}
		source, err := os.ReadFile(filePath)
		if err != nil {
			return 0, fmt.Errorf("store: manifest %s: reading %s: %w", manifestPath, filePath, err)
		}
		dialectName := entry.Dialect
		if dialectName == "" {
			dialectName = DialectSurface
		}
		if err := s.Put(ctx, entry.Name, dialectName, string(source)); err != nil {
			return 0, fmt.Errorf("store: manifest %s: seeding %q: %w", manifestPath, entry.Name, err)
		}
	}
	return len(m.Grammar), nil
}

package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pmprep/internal/modules/exporter/domain"
	exporterout "pmprep/internal/modules/exporter/port/out"
)

// FileManifestStore reads the exporter registry from
// <data-dir>/exporters/exporters.json. Entries are validated on load so a
// broken registry surfaces here, not later when a plugin is launched.
type FileManifestStore struct {
	basePath string
	path     string
}

func NewFileManifestStore(basePath string) exporterout.ManifestStore {
	return &FileManifestStore{basePath: basePath, path: filepath.Join(basePath, "exporters", "exporters.json")}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read exporter registry: %w", err)
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	decoder.DisallowUnknownFields()
	var manifests []domain.Manifest
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode exporter registry: %w", err)
	}

	seen := make(map[string]struct{}, len(manifests))
	for i := range manifests {
		m := &manifests[i]
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("exporter registry entry %d (%q): %w", i, m.Name, err)
		}
		if _, dup := seen[m.Name]; dup {
			return nil, fmt.Errorf("exporter registry: duplicate name %q", m.Name)
		}
		seen[m.Name] = struct{}{}
		// Relative binaries resolve against the data dir so a registry can
		// be copied between machines together with its plugins.
		if !filepath.IsAbs(m.Binary) {
			m.Binary = filepath.Clean(filepath.Join(s.basePath, m.Binary))
		}
	}
	return manifests, nil
}

package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	exporterout "pmprep/internal/modules/exporter/adapter/out"
)

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := exporterout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	exportersDir := filepath.Join(base, "exporters")
	if err := os.MkdirAll(exportersDir, 0o755); err != nil {
		t.Fatalf("mkdir exporters: %v", err)
	}
	raw := `[
  {
    "name": "history-json",
    "version": "1.0.0",
    "binary": "exporters/history-json/history-json",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "formats": ["json"]
  }
]`
	if err := os.WriteFile(filepath.Join(exportersDir, "exporters.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write exporters.json: %v", err)
	}
	store := exporterout.NewFileManifestStore(base)
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if !filepath.IsAbs(manifests[0].Binary) {
		t.Fatalf("expected absolute binary path, got %s", manifests[0].Binary)
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	exportersDir := filepath.Join(base, "exporters")
	if err := os.MkdirAll(exportersDir, 0o755); err != nil {
		t.Fatalf("mkdir exporters: %v", err)
	}
	raw := `[
  {
    "name": "history-json",
    "version": "1.0.0",
    "binary": "/tmp/history-json",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "formats": ["json"],
    "unknown_field": true
  }
]`
	if err := os.WriteFile(filepath.Join(exportersDir, "exporters.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write exporters.json: %v", err)
	}
	store := exporterout.NewFileManifestStore(base)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestFileManifestStoreRejectsInvalidEntry(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	exportersDir := filepath.Join(base, "exporters")
	if err := os.MkdirAll(exportersDir, 0o755); err != nil {
		t.Fatalf("mkdir exporters: %v", err)
	}
	raw := `[
  {
    "name": "history-json",
    "version": "1.0.0",
    "binary": "/tmp/history-json",
    "sha256": "not-a-checksum",
    "enabled": true,
    "formats": ["json"]
  }
]`
	if err := os.WriteFile(filepath.Join(exportersDir, "exporters.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write exporters.json: %v", err)
	}
	store := exporterout.NewFileManifestStore(base)
	_, err := store.Load(context.Background())
	if err == nil {
		t.Fatal("expected validation error for malformed sha256")
	}
	if !strings.Contains(err.Error(), "history-json") {
		t.Fatalf("error %q does not name the offending exporter", err)
	}
}

func TestFileManifestStoreRejectsDuplicateName(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	exportersDir := filepath.Join(base, "exporters")
	if err := os.MkdirAll(exportersDir, 0o755); err != nil {
		t.Fatalf("mkdir exporters: %v", err)
	}
	entry := `{
    "name": "history-json",
    "version": "1.0.0",
    "binary": "/tmp/history-json",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "formats": ["json"]
  }`
	raw := "[" + entry + ",\n" + entry + "]"
	if err := os.WriteFile(filepath.Join(exportersDir, "exporters.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write exporters.json: %v", err)
	}
	store := exporterout.NewFileManifestStore(base)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

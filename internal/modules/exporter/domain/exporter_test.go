package domain_test

import (
	"testing"

	"pmprep/internal/modules/exporter/domain"
)

const validSum = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		manifest  domain.Manifest
		shouldErr bool
	}{
		{name: "valid", manifest: domain.Manifest{Name: "e", Version: "1", Binary: "/tmp/e", SHA256: validSum, Enabled: true, Formats: []domain.Format{domain.FormatJSON}}},
		{name: "missing name", manifest: domain.Manifest{Version: "1", Binary: "/tmp/e", SHA256: validSum, Formats: []domain.Format{domain.FormatJSON}}, shouldErr: true},
		{name: "missing binary", manifest: domain.Manifest{Name: "e", Version: "1", SHA256: validSum, Formats: []domain.Format{domain.FormatJSON}}, shouldErr: true},
		{name: "bad sha", manifest: domain.Manifest{Name: "e", Version: "1", Binary: "/tmp/e", SHA256: "XYZ", Formats: []domain.Format{domain.FormatJSON}}, shouldErr: true},
		{name: "no formats", manifest: domain.Manifest{Name: "e", Version: "1", Binary: "/tmp/e", SHA256: validSum}, shouldErr: true},
		{name: "duplicate format", manifest: domain.Manifest{Name: "e", Version: "1", Binary: "/tmp/e", SHA256: validSum, Formats: []domain.Format{domain.FormatJSON, domain.FormatJSON}}, shouldErr: true},
		{name: "unknown format", manifest: domain.Manifest{Name: "e", Version: "1", Binary: "/tmp/e", SHA256: validSum, Formats: []domain.Format{"xml"}}, shouldErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.manifest.Validate()
			if tc.shouldErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestExportRequestValidate(t *testing.T) {
	t.Parallel()

	valid := domain.ExportRequest{Format: domain.FormatCSV, PayloadJSON: "{}", OutputDir: "/tmp"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request: %v", err)
	}
	if err := (domain.ExportRequest{Format: domain.FormatCSV, OutputDir: "/tmp"}).Validate(); err == nil {
		t.Fatal("empty payload must be rejected")
	}
	if err := (domain.ExportRequest{Format: "pdf", PayloadJSON: "{}", OutputDir: "/tmp"}).Validate(); err == nil {
		t.Fatal("unknown format must be rejected")
	}
}

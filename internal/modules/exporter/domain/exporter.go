package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// Format is an output format an exporter can produce.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

var (
	ErrExporterDisabled  = errors.New("exporter is disabled")
	ErrExporterNotFound  = errors.New("exporter not found")
	ErrChecksumMismatch  = errors.New("exporter checksum mismatch")
	ErrFormatUnsupported = errors.New("exporter does not support format")
	ErrExporterTimeout   = errors.New("exporter timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one installed exporter binary.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Binary  string   `json:"binary"`
	SHA256  string   `json:"sha256"`
	Enabled bool     `json:"enabled"`
	Formats []Format `json:"formats"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("exporter name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("exporter version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("exporter binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("exporter sha256 must be lowercase 64-char hex")
	}
	if len(m.Formats) == 0 {
		return fmt.Errorf("exporter formats are required")
	}
	seen := map[Format]struct{}{}
	for _, format := range m.Formats {
		if err := format.Validate(); err != nil {
			return err
		}
		if _, ok := seen[format]; ok {
			return fmt.Errorf("duplicate format: %s", format)
		}
		seen[format] = struct{}{}
	}
	return nil
}

func (f Format) Validate() error {
	switch f {
	case FormatJSON, FormatCSV, FormatMarkdown:
		return nil
	default:
		return fmt.Errorf("unknown format: %s", f)
	}
}

func (m Manifest) Supports(format Format) bool {
	for _, f := range m.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Metadata is what a running exporter reports about itself.
type Metadata struct {
	Name    string
	Version string
	Formats []Format
}

// ExportRequest carries the serialized practice history to an exporter.
type ExportRequest struct {
	Format      Format
	PayloadJSON string
	OutputDir   string
}

func (r ExportRequest) Validate() error {
	if err := r.Format.Validate(); err != nil {
		return err
	}
	if r.PayloadJSON == "" {
		return fmt.Errorf("export payload is required")
	}
	if r.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

type ExportResult struct {
	OutputPath   string
	BytesWritten int
	Warning      string
}

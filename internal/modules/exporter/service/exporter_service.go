package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"pmprep/internal/modules/exporter/domain"
	"pmprep/internal/modules/exporter/dto"
	exporterout "pmprep/internal/modules/exporter/port/out"
	historyin "pmprep/internal/modules/history/port/in"
)

// ExporterService validates manifests and checksums before any exporter
// binary is started, then feeds it the serialized practice history.
type ExporterService struct {
	store   exporterout.ManifestStore
	host    exporterout.Host
	history historyin.Usecase
}

func NewExporterService(store exporterout.ManifestStore, host exporterout.Host, history historyin.Usecase) *ExporterService {
	return &ExporterService{store: store, host: host, history: history}
}

func (s *ExporterService) List(ctx context.Context) ([]dto.ExporterInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExporterInfo, 0, len(manifests))
	for _, m := range manifests {
		formats := make([]string, 0, len(m.Formats))
		for _, f := range m.Formats {
			formats = append(formats, string(f))
		}
		out = append(out, dto.ExporterInfo{
			Name:    m.Name,
			Version: m.Version,
			Enabled: m.Enabled,
			Binary:  m.Binary,
			Formats: formats,
		})
	}
	return out, nil
}

func (s *ExporterService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *ExporterService) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	format := domain.Format(input.Format)
	manifest, err := s.runnableManifest(ctx, input.Exporter, format)
	if err != nil {
		return dto.ExportOutput{}, err
	}

	payload, err := s.buildPayload(ctx)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	req := domain.ExportRequest{
		Format:      format,
		PayloadJSON: payload,
		OutputDir:   input.OutputDir,
	}
	if err := req.Validate(); err != nil {
		return dto.ExportOutput{}, err
	}

	result, err := s.host.Export(ctx, manifest, req)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{
		Exporter:     manifest.Name,
		Format:       input.Format,
		OutputPath:   result.OutputPath,
		BytesWritten: result.BytesWritten,
		Warning:      result.Warning,
	}, nil
}

// buildPayload serializes everything an exporter may render: the session
// list and the computed dashboard aggregates.
func (s *ExporterService) buildPayload(ctx context.Context) (string, error) {
	sessions, err := s.history.List(ctx)
	if err != nil {
		return "", fmt.Errorf("load sessions for export: %w", err)
	}
	dashboard, err := s.history.Dashboard(ctx)
	if err != nil {
		return "", fmt.Errorf("load dashboard for export: %w", err)
	}
	payload := struct {
		Sessions  any `json:"sessions"`
		Dashboard any `json:"dashboard"`
	}{Sessions: sessions, Dashboard: dashboard}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode export payload: %w", err)
	}
	return string(b), nil
}

func (s *ExporterService) runnableManifest(ctx context.Context, name string, format domain.Format) (domain.Manifest, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	for _, m := range manifests {
		if m.Name != name {
			continue
		}
		if !m.Enabled {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrExporterDisabled, name)
		}
		if !m.Supports(format) {
			return domain.Manifest{}, fmt.Errorf("%w: %s does not produce %s", domain.ErrFormatUnsupported, name, format)
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		return m, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrExporterNotFound, name)
}

func (s *ExporterService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range manifests {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("manifest %s: %w", m.Name, err)
		}
	}
	return manifests, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func checksumMatches(path, wantHex string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open exporter binary: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hash exporter binary: %w", err)
	}
	if hex.EncodeToString(h.Sum(nil)) != wantHex {
		return domain.ErrChecksumMismatch
	}
	return nil
}

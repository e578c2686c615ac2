package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pmprep/internal/modules/exporter/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// history-json writes the practice history payload to a pretty-printed JSON
// file. It doubles as the contract's reference implementation.
type server struct{}

func (s *server) Describe(_ context.Context, _ *rpc.Empty) (*rpc.Metadata, error) {
	return &rpc.Metadata{
		Name:    "history-json",
		Version: "1.0.0",
		Formats: []string{"json"},
	}, nil
}

func (s *server) Export(_ context.Context, in *rpc.ExportRequest) (*rpc.ExportResponse, error) {
	if in.Format != "json" {
		return nil, fmt.Errorf("unsupported format: %s", in.Format)
	}
	if strings.TrimSpace(in.PayloadJSON) == "" {
		return nil, fmt.Errorf("empty payload")
	}

	var payload any
	if err := json.Unmarshal([]byte(in.PayloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	name := fmt.Sprintf("practice-history-%s.json", time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(in.OutputDir, name)
	if err := os.WriteFile(path, pretty, 0o644); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}
	return &rpc.ExportResponse{
		OutputPath:   path,
		BytesWritten: int32(len(pretty)),
	}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: rpc.HandshakeConfig,
		Plugins:         rpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}

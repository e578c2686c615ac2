package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"pmprep/internal/modules/exporter/adapter/out/rpc"
	"pmprep/internal/modules/exporter/domain"
	exporterout "pmprep/internal/modules/exporter/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 30 * time.Second
)

type GRPCHost struct{}

func NewGRPCHost() exporterout.Host {
	return &GRPCHost{}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.Describe(callCtx); err != nil {
		return fmt.Errorf("describe exporter: %w", err)
	}
	return nil
}

func (h *GRPCHost) Describe(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.Describe(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("describe exporter: %w", err)
	}
	formats := make([]domain.Format, 0, len(meta.Formats))
	for _, f := range meta.Formats {
		formats = append(formats, domain.Format(f))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Formats: formats}, nil
}

func (h *GRPCHost) Export(ctx context.Context, manifest domain.Manifest, req domain.ExportRequest) (domain.ExportResult, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.ExportResult{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.Export(callCtx, &rpc.ExportRequest{
		Format:      string(req.Format),
		PayloadJSON: req.PayloadJSON,
		OutputDir:   req.OutputDir,
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.ExportResult{}, fmt.Errorf("%w: %s", domain.ErrExporterTimeout, manifest.Name)
		}
		return domain.ExportResult{}, fmt.Errorf("run exporter: %w", err)
	}
	return domain.ExportResult{
		OutputPath:   response.OutputPath,
		BytesWritten: int(response.BytesWritten),
		Warning:      response.Warning,
	}, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (rpc.ExporterClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start exporter client: %w", err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense exporter: %w", err)
	}
	typed, ok := raw.(rpc.ExporterClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("exporter rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

package out

import (
	"context"
	"fmt"
	"io"
	"net/http"

	voiceout "pmprep/internal/modules/voice/port/out"
	"pmprep/internal/platform/api"
)

type APIGateway struct {
	client *api.Client
}

func NewAPIGateway(client *api.Client) voiceout.Gateway {
	return &APIGateway{client: client}
}

func (g *APIGateway) Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error) {
	var wire struct {
		Text string `json:"text"`
	}
	err := g.client.DoMultipart(ctx, "/api/voice/transcribe", "audio", fileName, audio, nil, &wire)
	if err != nil {
		return "", err
	}
	if wire.Text == "" {
		return "", fmt.Errorf("transcription response carries no text")
	}
	return wire.Text, nil
}

func (g *APIGateway) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	body := map[string]string{"text": text}
	return g.client.DoBinary(ctx, http.MethodPost, "/api/voice/speak", body)
}

package out

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	authout "pmprep/internal/modules/auth/port/out"
	"pmprep/internal/platform/api"
)

type APIGateway struct {
	client *api.Client
}

func NewAPIGateway(client *api.Client) authout.Gateway {
	return &APIGateway{client: client}
}

type tokenWire struct {
	Token       string `json:"token"`
	JWT         string `json:"jwt"`
	AccessToken string `json:"accessToken"`
}

func (w tokenWire) value() string {
	for _, t := range []string{w.Token, w.JWT, w.AccessToken} {
		if strings.TrimSpace(t) != "" {
			return t
		}
	}
	return ""
}

func (g *APIGateway) Login(ctx context.Context, email, password string) (string, error) {
	return g.authenticate(ctx, "/api/auth/login", email, password)
}

func (g *APIGateway) Register(ctx context.Context, email, password string) (string, error) {
	return g.authenticate(ctx, "/api/auth/register", email, password)
}

func (g *APIGateway) authenticate(ctx context.Context, path, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var wire tokenWire
	if err := g.client.Do(ctx, http.MethodPost, path, body, &wire); err != nil {
		return "", err
	}
	token := wire.value()
	if token == "" {
		return "", fmt.Errorf("auth response carries no token")
	}
	return token, nil
}

func (g *APIGateway) GoogleURL(ctx context.Context) (string, error) {
	var wire struct {
		URL         string `json:"url"`
		RedirectURL string `json:"redirectUrl"`
	}
	if err := g.client.Do(ctx, http.MethodGet, "/api/auth/google", nil, &wire); err != nil {
		return "", err
	}
	if wire.URL != "" {
		return wire.URL, nil
	}
	if wire.RedirectURL != "" {
		return wire.RedirectURL, nil
	}
	return "", fmt.Errorf("google auth response carries no url")
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Error carries the HTTP status and raw response body of a failed call so the
// presentation layer can normalize backend payload shapes in one place.
type Error struct {
	Status int
	Body   []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("api http %d: %s", e.Status, string(e.Body))
}

func (e *Error) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.Status
}

func (e *Error) ResponseBody() []byte {
	if e == nil {
		return nil
	}
	return e.Body
}

// TokenSource returns the current bearer token, or "" when logged out.
type TokenSource func() string

// Client is the single point of HTTP egress. Every backend endpoint wrapper in
// the adapter layer goes through Do/DoMultipart; no other component builds
// HTTP requests. On any 401 response the onUnauthorized hook fires exactly
// once per response, before the error is returned, so forced logout is handled
// globally rather than at each call site.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	token          TokenSource
	onUnauthorized func()
}

func New(baseURL string, timeout time.Duration, token TokenSource, onUnauthorized func()) *Client {
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{Timeout: timeout},
		token:          token,
		onUnauthorized: onUnauthorized,
	}
}

// Do sends a JSON request and decodes the JSON response into out (out may be
// nil when the caller only needs the status).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.attachAuth(req)

	raw, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// DoMultipart uploads a single file field plus optional string fields and
// decodes the JSON response into out.
func (c *Client) DoMultipart(ctx context.Context, path, fieldName, fileName string, file io.Reader, fields map[string]string, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy upload body: %w", err)
	}
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.attachAuth(req)

	raw, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// DoBinary sends a JSON request and returns the raw response bytes plus the
// content type; used for text-to-speech audio.
func (c *Client) DoBinary(ctx context.Context, method, path string, body any) ([]byte, string, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, "", err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	c.attachAuth(req)

	raw, contentType, err := c.sendRaw(req)
	if err != nil {
		return nil, "", err
	}
	return raw, contentType, nil
}

func (c *Client) attachAuth(req *http.Request) {
	if c.token == nil {
		return
	}
	if tok := strings.TrimSpace(c.token()); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	raw, _, err := c.sendRaw(req)
	return raw, err
}

func (c *Client) sendRaw(req *http.Request) ([]byte, string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, "", readErr
	}

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &Error{Status: resp.StatusCode, Body: raw}
	}
	return raw, strings.TrimSpace(resp.Header.Get("Content-Type")), nil
}

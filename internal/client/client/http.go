package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/secondbrain/internal/client/models"
	"github.com/dmitrijs2005/secondbrain/internal/common"
)

var _ Client = (*HTTPClient)(nil)

type HTTPClient struct {
	serverURL string
	http      *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the server rooted at serverURL
// (scheme and host, e.g. "http://127.0.0.1:5000").
func NewHTTPClient(serverURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) api(path string) string {
	return c.serverURL + common.APIPrefix + path
}

// do sends a JSON request and decodes a 2xx body into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, target string, query url.Values, in, out any) error {
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.bearer(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil && len(data) > 0 {
		body.Message = strings.TrimSpace(string(data))
	}
	return &APIError{Status: resp.StatusCode, Message: body.Message}
}

func (c *HTTPClient) Signup(ctx context.Context, userName, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	in := map[string]string{"username": userName, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, c.api("/signup"), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, c.api("/login"), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.ProfileResponse, error) {
	var out models.ProfileResponse
	if err := c.do(ctx, http.MethodGet, c.api("/user/profile"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, u models.ProfileUpdate) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, c.api("/user/profile"), nil, u, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) ListContents(ctx context.Context, f models.ContentFilter) ([]models.Content, error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}

	var out []models.Content
	if err := c.do(ctx, http.MethodGet, c.api("/content"), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetContent(ctx context.Context, id string) (*models.Content, error) {
	var out models.Content
	if err := c.do(ctx, http.MethodGet, c.api("/content/")+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type contentEnvelope struct {
	Message string         `json:"message"`
	Content models.Content `json:"content"`
}

func (c *HTTPClient) CreateContent(ctx context.Context, p models.ContentPayload) (*models.Content, error) {
	var out contentEnvelope
	if err := c.do(ctx, http.MethodPost, c.api("/content"), nil, p, &out); err != nil {
		return nil, err
	}
	return &out.Content, nil
}

func (c *HTTPClient) UpdateContent(ctx context.Context, id string, p models.ContentPayload) (*models.Content, error) {
	var out contentEnvelope
	if err := c.do(ctx, http.MethodPut, c.api("/content/")+url.PathEscape(id), nil, p, &out); err != nil {
		return nil, err
	}
	return &out.Content, nil
}

func (c *HTTPClient) DeleteContent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.api("/content/")+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) Tags(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, c.api("/tags"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Share(ctx context.Context, r models.ShareRequest) (*models.ShareResponse, error) {
	var out models.ShareResponse
	if err := c.do(ctx, http.MethodPost, c.api("/brain/share"), nil, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SharedBrain(ctx context.Context, shareID string) (*models.SharedBrain, error) {
	var out models.SharedBrain
	if err := c.do(ctx, http.MethodGet, c.api("/brain/")+url.PathEscape(shareID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Export(ctx context.Context) (*models.ExportResult, error) {
	var out models.ExportResult
	if err := c.do(ctx, http.MethodPost, c.api("/export"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping probes the unauthenticated health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, c.serverURL+"/healthz", nil, nil, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s", ErrUnavailable, apiErr.Error())
	}
	return err
}

package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/daybook/daybook/internal/apperr"
	"github.com/daybook/daybook/internal/models"
)

// Identity is an authenticated user as seen by the client.
type Identity struct {
	UserID   string
	Username string
	// Token is sent as a bearer token; servers with auth disabled ignore it.
	Token string
}

// Client talks to the Daybook REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Register creates an account and returns its identity.
func (c *Client) Register(ctx context.Context, username, password string) (Identity, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", credentials{username, password}, &out); err != nil {
		return Identity{}, err
	}
	return Identity{UserID: out.UserID, Username: strings.TrimSpace(username), Token: out.Token}, nil
}

// Login returns apperr.ErrInvalidCredentials on a bad username or password.
func (c *Client) Login(ctx context.Context, username, password string) (Identity, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", credentials{username, password}, &out); err != nil {
		return Identity{}, err
	}
	return Identity{UserID: out.UserID, Username: out.Username, Token: out.Token}, nil
}

func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	path := "/api/auth/check-username/" + url.PathEscape(username)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

// Fetch pulls the user's whole document.
func (c *Client) Fetch(ctx context.Context, id Identity) (models.Snapshot, error) {
	var out models.Snapshot
	if err := c.do(ctx, http.MethodGet, dataPath(id), id.Token, nil, &out); err != nil {
		return models.Snapshot{}, err
	}
	return out.Clone(), nil
}

// Replace pushes both complete mappings; the server overwrites its copy.
func (c *Client) Replace(ctx context.Context, id Identity, snap models.Snapshot) error {
	return c.do(ctx, http.MethodPost, dataPath(id), id.Token, snap.Clone(), nil)
}

// Summarize asks the server for one reply to the joined entries.
func (c *Client) Summarize(ctx context.Context, messages string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/summary", "", map[string]string{"messages": messages}, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

type ExportResult struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn string `json:"expiresIn"`
}

func (c *Client) Export(ctx context.Context, id Identity) (ExportResult, error) {
	var out ExportResult
	err := c.do(ctx, http.MethodPost, dataPath(id)+"/export", id.Token, nil, &out)
	return out, err
}

func dataPath(id Identity) string {
	return "/api/data/" + url.PathEscape(id.UserID)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Upstream("Server unreachable", err)
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
		return apperr.Upstream("Invalid server response", err)
	}
	return nil
}

// decodeError rebuilds the server's classified error from its JSON envelope.
func decodeError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload)

	kind := apperr.Kind(payload.Error)
	if kind == "" {
		kind = kindForStatus(resp.StatusCode)
	}
	msg := payload.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return apperr.New(kind, msg)
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case http.StatusBadRequest:
		return apperr.KindValidation
	case http.StatusUnauthorized:
		return apperr.KindUnauthorized
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusMethodNotAllowed:
		return apperr.KindMethodNotAllowed
	case http.StatusServiceUnavailable:
		return apperr.KindUnavailable
	default:
		return apperr.KindUpstream
	}
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/client/models"
)

const msgSessionExpired = "Session expired"

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	session *models.Session
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Session returns a copy of the current bundle.
func (c *HTTPClient) Session() (models.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return models.Session{}, false
	}
	return *c.session, true
}

func (c *HTTPClient) setSession(s *models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// SessionToken returns the current session token, or "" when logged out.
func (c *HTTPClient) SessionToken() string {
	s, _ := c.Session()
	return s.SessionToken
}

func (c *HTTPClient) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
			payload.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// authed runs a gated call with the session token. An expired session is
// renewed once with the update token and the call is retried.
func (c *HTTPClient) authed(ctx context.Context, method, path string, in, out any) error {
	s, ok := c.Session()
	if !ok {
		return ErrNotLoggedIn
	}

	err := c.do(ctx, method, path, s.SessionToken, in, out)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Message != msgSessionExpired {
		return err
	}
	if s.UpdateToken == "" {
		return err
	}

	if err := c.Refresh(ctx); err != nil {
		return err
	}
	return c.do(ctx, method, path, c.SessionToken(), in, out)
}

func (c *HTTPClient) openSession(ctx context.Context, path, bearer string, in any) error {
	var s models.Session
	if err := c.do(ctx, http.MethodPost, path, bearer, in, &s); err != nil {
		return err
	}
	c.setSession(&s)
	return nil
}

// Register creates an account and keeps the returned session. imageData may
// be empty.
func (c *HTTPClient) Register(ctx context.Context, email, displayName string, password []byte, imageData string) error {
	req := map[string]string{
		"email":        email,
		"display_name": displayName,
		"password":     string(password),
	}
	if imageData != "" {
		req["image_data"] = imageData
	}
	return c.openSession(ctx, "/register/", "", req)
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) error {
	return c.openSession(ctx, "/login/", "", map[string]string{
		"email":    email,
		"password": string(password),
	})
}

// Refresh trades the update token for a new bundle.
func (c *HTTPClient) Refresh(ctx context.Context) error {
	s, ok := c.Session()
	if !ok || s.UpdateToken == "" {
		return ErrNotLoggedIn
	}
	return c.openSession(ctx, "/session/", s.UpdateToken, nil)
}

// Logout revokes the session on the server and forgets it locally.
func (c *HTTPClient) Logout(ctx context.Context) error {
	if err := c.authed(ctx, http.MethodPost, "/logout/", nil, nil); err != nil {
		return err
	}
	c.setSession(nil)
	return nil
}

func (c *HTTPClient) Secret(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.authed(ctx, http.MethodGet, "/secret/", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.authed(ctx, http.MethodGet, "/user/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) AddInterests(ctx context.Context, titles []string) (*models.Profile, error) {
	var p models.Profile
	if err := c.authed(ctx, http.MethodPost, "/user/categories/", map[string][]string{"categories": titles}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories/", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Search(ctx context.Context, prefix string) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, http.MethodPost, "/category/search/", "", map[string]string{"search": prefix}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Upload(ctx context.Context, imageData string) (*models.Asset, error) {
	var a models.Asset
	if err := c.do(ctx, http.MethodPost, "/upload/", "", map[string]string{"image_data": imageData}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Ping checks that the HTTP API answers.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", "", nil, nil)
}

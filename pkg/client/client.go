// Package client talks to the portfolio API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/folio-labs/portfolio-backend/pkg/orderlist"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status    int
	Message   string
	Retryable bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Project is the subset of project fields the client reads.
type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Thumbnail    string   `json:"thumbnail"`
	Category     string   `json:"category"`
	Featured     bool     `json:"featured"`
	DisplayOrder int      `json:"displayOrder"`
	TechStack    []string `json:"techStack"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SetToken(token string) { c.token = token }

// Login exchanges admin credentials for a token and keeps it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	var out struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &out); err != nil {
		return "", time.Time{}, err
	}
	c.token = out.Token
	return out.Token, out.ExpiresAt, nil
}

// ListProjects returns projects in display order. limit <= 0 means all.
func (c *Client) ListProjects(ctx context.Context, limit int) ([]Project, error) {
	q := url.Values{"orderBy": {"displayOrder"}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// SaveOrder submits a full reorder batch.
func (c *Client) SaveOrder(ctx context.Context, positions []orderlist.Position) error {
	body := map[string]any{"projects": positions}
	return c.do(ctx, http.MethodPut, "/api/v1/projects/reorder", body, nil)
}

// Items converts projects to orderable list items.
func Items(projects []Project) []orderlist.Item {
	out := make([]orderlist.Item, len(projects))
	for i, p := range projects {
		out[i] = orderlist.Item{ID: p.ID, Title: p.Title, Slug: p.Slug, Thumbnail: p.Thumbnail}
	}
	return out
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var env struct {
			Error     string `json:"error"`
			Retryable bool   `json:"retryable"`
		}
		if json.Unmarshal(raw, &env) == nil && env.Error != "" {
			apiErr.Message = env.Error
			apiErr.Retryable = env.Retryable
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Package identity talks to the external user directory (a Clerk-compatible
// Backend API). Each call is one HTTP round trip; nothing is cached.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taskflow/taskboard/internal/api/metrics"
	"github.com/taskflow/taskboard/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// maxBodyBytes bounds how much of a directory response is read.
const maxBodyBytes = 4 << 20

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implements ports.UserDirectory over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// directoryUser is the wire shape of a user in the directory API.
type directoryUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	ImageURL  string `json:"image_url"`
	CreatedAt int64  `json:"created_at"` // unix millis
}

func (u directoryUser) profile() domain.UserProfile {
	p := domain.UserProfile{
		ID:          u.ID,
		DisplayName: strings.TrimSpace(u.FirstName + " " + u.LastName),
		AvatarURL:   u.ImageURL,
	}
	if len(u.EmailAddresses) > 0 {
		p.Email = u.EmailAddresses[0].EmailAddress
	}
	if u.CreatedAt > 0 {
		p.CreatedAt = time.UnixMilli(u.CreatedAt).UTC()
	}
	return p
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id string) (*domain.UserProfile, error) {
	var u directoryUser
	if err := c.get(ctx, "get_user", "/users/"+url.PathEscape(id), "failed to fetch user", &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrUpstreamData)
	}
	p := u.profile()
	return &p, nil
}

// ListUsers returns the first page the directory yields.
func (c *Client) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	var users []directoryUser
	if err := c.get(ctx, "list_users", "/users", "failed to fetch users", &users); err != nil {
		return nil, err
	}
	out := make([]domain.UserProfile, 0, len(users))
	for _, u := range users {
		out = append(out, u.profile())
	}
	return out, nil
}

// get issues an authenticated GET and decodes a 2xx body into dst. Non-2xx
// responses become *domain.UpstreamError carrying the upstream status.
func (c *Client) get(ctx context.Context, op, path, failMsg string, dst any) error {
	start := time.Now()
	defer func() {
		metrics.IdentityRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request (identity): %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IdentityRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		return fmt.Errorf("%s (identity): %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IdentityRequestsTotal.WithLabelValues(op, "upstream_error").Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &domain.UpstreamError{
			Status:  resp.StatusCode,
			Message: failMsg + ": " + http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.IdentityRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		return fmt.Errorf("read response body (identity): %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		metrics.IdentityRequestsTotal.WithLabelValues(op, "bad_payload").Inc()
		return errors.Join(domain.ErrUpstreamData, err)
	}

	metrics.IdentityRequestsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}

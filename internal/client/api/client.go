// Package api implements the HTTP client for the locksmith server. Methods
// mirror the server endpoints one to one and translate HTTP statuses back
// into the shared error sentinels.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/common"
)

// Client talks to the server. Token, when set, is sent as a bearer header on
// every request.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New constructs a Client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken attaches a bearer token to subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// User is the account projection returned by the server.
type User struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	HasPaid             bool      `json:"has_paid"`
	SecretQuota         int       `json:"secret_quota"`
	RequestQuota        int       `json:"request_quota"`
	SubscriptionExpires time.Time `json:"subscription_expires"`
	CreatedAt           time.Time `json:"created_at"`
}

// Secret is a vault entry as returned by single-secret endpoints; Value is
// plaintext there and empty in listings.
type Secret struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, env.Error)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}
	return nil
}

func statusError(code int, msg string) error {
	var sentinel error
	switch code {
	case http.StatusUnauthorized:
		sentinel = common.ErrorUnauthorized
	case http.StatusNotFound:
		sentinel = common.ErrorNotFound
	case http.StatusConflict:
		sentinel = common.ErrorConflict
	case http.StatusTooManyRequests:
		sentinel = common.ErrorQuotaExhausted
	case http.StatusServiceUnavailable:
		sentinel = common.ErrorUnavailable
	default:
		sentinel = common.ErrorInternal
	}
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/setup",
		map[string]string{"email": email, "password": password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token and attaches it to the
// client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/login",
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

// Logout revokes the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// GetUser fetches the account record for email (self only).
func (c *Client) GetUser(ctx context.Context, email string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+email, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes the account's email and password.
func (c *Client) UpdateUser(ctx context.Context, id, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPut, "/api/update/"+id,
		map[string]string{"email": email, "password": password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the account and returns how many secrets were deleted
// with it.
func (c *Client) DeleteUser(ctx context.Context, id string) (int64, error) {
	var out struct {
		DeletedSecrets int64 `json:"deleted_secrets"`
	}
	if err := c.do(ctx, http.MethodDelete, "/api/delete/user/"+id, nil, &out); err != nil {
		return 0, err
	}
	return out.DeletedSecrets, nil
}

// CreateSecret stores a new secret and returns its metadata.
func (c *Client) CreateSecret(ctx context.Context, key, value string) (*Secret, error) {
	var secret Secret
	err := c.do(ctx, http.MethodPost, "/api/create/vault/entry",
		map[string]string{"key": key, "value": value}, &secret)
	if err != nil {
		return nil, err
	}
	return &secret, nil
}

// GetSecretByID fetches one secret with its plaintext value.
func (c *Client) GetSecretByID(ctx context.Context, id string) (*Secret, error) {
	var secret Secret
	if err := c.do(ctx, http.MethodGet, "/api/retrieve/vault/entries/"+id, nil, &secret); err != nil {
		return nil, err
	}
	return &secret, nil
}

// GetSecretByKey fetches the newest secret stored under key.
func (c *Client) GetSecretByKey(ctx context.Context, key string) (*Secret, error) {
	var secret Secret
	if err := c.do(ctx, http.MethodGet, "/api/retrieve/vault/entry/key/"+key, nil, &secret); err != nil {
		return nil, err
	}
	return &secret, nil
}

// ListSecrets fetches metadata for every secret in the vault.
func (c *Client) ListSecrets(ctx context.Context) ([]Secret, error) {
	var items []Secret
	if err := c.do(ctx, http.MethodGet, "/api/retrieve/vault/entries", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteSecret removes a secret and returns it with the plaintext value as
// confirmation of what was destroyed.
func (c *Client) DeleteSecret(ctx context.Context, id string) (*Secret, error) {
	var secret Secret
	if err := c.do(ctx, http.MethodDelete, "/api/delete/"+id, nil, &secret); err != nil {
		return nil, err
	}
	return &secret, nil
}

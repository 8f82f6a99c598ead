package httpapi

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/dmitrijs2005/locksmith/internal/logging"
	"github.com/dmitrijs2005/locksmith/internal/server/auth"
	"github.com/dmitrijs2005/locksmith/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeUserService struct {
	registerOut *models.User
	registerErr error
	loginToken  string
	loginErr    error
	user        *models.User
	userErr     error
	updateOut   *models.User
	updateErr   error
	deleteCount int64
	deleteErr   error
}

func (f *fakeUserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerOut, nil
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.loginToken, nil
}

func (f *fakeUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if f.user == nil {
		return nil, common.ErrorNotFound
	}
	return f.user, nil
}

func (f *fakeUserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	if f.user == nil || f.user.Email != email {
		return nil, common.ErrorNotFound
	}
	return f.user, nil
}

func (f *fakeUserService) UpdateUser(ctx context.Context, id, email, password string) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakeUserService) DeleteUser(ctx context.Context, id string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.deleteCount, nil
}

type fakeVaultService struct {
	secret  *models.Secret
	list    []*models.SecretMetadata
	err     error
	lastKey string
}

func (f *fakeVaultService) CreateSecret(ctx context.Context, user *models.User, key, value string) (*models.Secret, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastKey = key
	return f.secret, nil
}

func (f *fakeVaultService) GetSecretByID(ctx context.Context, user *models.User, id string) (*models.Secret, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.secret, nil
}

func (f *fakeVaultService) GetSecretByKey(ctx context.Context, user *models.User, key string) (*models.Secret, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastKey = key
	return f.secret, nil
}

func (f *fakeVaultService) ListSecrets(ctx context.Context, user *models.User) ([]*models.SecretMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeVaultService) GetSecretsByAuthor(ctx context.Context, user *models.User, authorID string) ([]*models.SecretMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	if authorID != user.ID {
		return nil, common.ErrorNotFound
	}
	return f.list, nil
}

func (f *fakeVaultService) DeleteSecret(ctx context.Context, user *models.User, id string) (*models.Secret, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.secret, nil
}

type fakeRevokeList struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevokeList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]bool{}
	}
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeRevokeList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[tokenID], nil
}

// --- helpers ---

type env struct {
	server  *httptest.Server
	issuer  *auth.Issuer
	users   *fakeUserService
	vault   *fakeVaultService
	revoked *fakeRevokeList
}

func newEnv(t *testing.T) *env {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	users := &fakeUserService{user: &models.User{ID: "u1", Email: "a@b.c"}}
	vault := &fakeVaultService{}
	revoked := &fakeRevokeList{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	s := NewServer(users, vault, auth.NewAuthenticator(pub), revoked,
		time.Hour, 1000, 1000, logger)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	return &env{
		server:  ts,
		issuer:  auth.NewIssuer(priv, time.Hour),
		users:   users,
		vault:   vault,
		revoked: revoked,
	}
}

func (e *env) token(t *testing.T) string {
	t.Helper()
	token, err := e.issuer.Issue("a@b.c")
	require.NoError(t, err)
	return token
}

func (e *env) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) Response {
	t.Helper()
	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// --- auth middleware ---

func TestAuthMissingToken(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/api/retrieve/vault/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMalformedToken(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/api/retrieve/vault/entries", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHeaderToken(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/api/retrieve/vault/entries", e.token(t), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthCookieToken(t *testing.T) {
	e := newEnv(t)
	req, err := http.NewRequest(http.MethodGet, e.server.URL+"/api/retrieve/vault/entries", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: common.AuthCookieName, Value: e.token(t)})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthHeaderWinsOverCookie(t *testing.T) {
	e := newEnv(t)
	req, err := http.NewRequest(http.MethodGet, e.server.URL+"/api/retrieve/vault/entries", nil)
	require.NoError(t, err)
	// a garbage header must not fall back to the valid cookie
	req.Header.Set("Authorization", "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: common.AuthCookieName, Value: e.token(t)})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRevokedToken(t *testing.T) {
	e := newEnv(t)
	token := e.token(t)

	// revoke via the logout endpoint, then reuse the same token
	resp := e.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/retrieve/vault/entries", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRevocationStoreDown(t *testing.T) {
	e := newEnv(t)
	e.revoked.err = common.ErrorUnavailable
	resp := e.do(t, http.MethodGet, "/api/retrieve/vault/entries", e.token(t), nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthUserStoreDown(t *testing.T) {
	e := newEnv(t)
	// a store outage during subject resolution is not an auth failure
	e.users.userErr = common.ErrorUnavailable
	resp := e.do(t, http.MethodGet, "/api/retrieve/vault/entries", e.token(t), nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthUnknownSubject(t *testing.T) {
	e := newEnv(t)
	token, err := e.issuer.Issue("ghost@b.c")
	require.NoError(t, err)
	resp := e.do(t, http.MethodGet, "/api/retrieve/vault/entries", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// --- user endpoints ---

func TestRegister(t *testing.T) {
	e := newEnv(t)
	e.users.registerOut = &models.User{ID: "u2", Email: "new@b.c", SecretQuota: 5, RequestQuota: 200}
	resp := e.do(t, http.MethodPost, "/api/setup", "",
		map[string]string{"email": "new@b.c", "password": "password1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeResponse(t, resp)
	assert.Equal(t, StatusOK, out.Status)
}

func TestRegisterInvalidBody(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodPost, "/api/setup", "",
		map[string]string{"email": "not-an-email", "password": "password1"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRegisterDuplicate(t *testing.T) {
	e := newEnv(t)
	e.users.registerErr = common.ErrorConflict
	resp := e.do(t, http.MethodPost, "/api/setup", "",
		map[string]string{"email": "a@b.c", "password": "password1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginSetsCookie(t *testing.T) {
	e := newEnv(t)
	e.users.loginToken = e.token(t)
	resp := e.do(t, http.MethodPost, "/api/login", "",
		map[string]string{"email": "a@b.c", "password": "password1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == common.AuthCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, e.users.loginToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestLoginBadCredentials(t *testing.T) {
	e := newEnv(t)
	e.users.loginErr = common.ErrorUnauthorized
	resp := e.do(t, http.MethodPost, "/api/login", "",
		map[string]string{"email": "a@b.c", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutClearsCookie(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodPost, "/api/logout", e.token(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == common.AuthCookieName {
			assert.Empty(t, c.Value)
			assert.Negative(t, c.MaxAge)
		}
	}
	assert.Len(t, e.revoked.revoked, 1)
}

func TestGetUserSelf(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/api/users/a@b.c", e.token(t), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetUserOther(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/api/users/other@b.c", e.token(t), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUserOther(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodDelete, "/api/delete/user/u2", e.token(t), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUserSelf(t *testing.T) {
	e := newEnv(t)
	e.users.deleteCount = 2
	resp := e.do(t, http.MethodDelete, "/api/delete/user/u1", e.token(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeResponse(t, resp)
	assert.Equal(t, StatusOK, out.Status)
}

// --- secret endpoints ---

func TestCreateSecret(t *testing.T) {
	e := newEnv(t)
	e.vault.secret = &models.Secret{ID: "s1", Key: "api-key", Value: "ciphertext", UserID: "u1"}
	resp := e.do(t, http.MethodPost, "/api/create/vault/entry", e.token(t),
		map[string]string{"key": "api-key", "value": "hunter2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	data, err := json.Marshal(out.Data)
	require.NoError(t, err)
	// the creation response never echoes a value
	assert.NotContains(t, string(data), "ciphertext")
	assert.NotContains(t, string(data), "hunter2")
}

func TestCreateSecretQuotaExceeded(t *testing.T) {
	e := newEnv(t)
	e.vault.err = common.ErrorQuotaExceeded
	resp := e.do(t, http.MethodPost, "/api/create/vault/entry", e.token(t),
		map[string]string{"key": "api-key", "value": "hunter2"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestGetSecretByID(t *testing.T) {
	e := newEnv(t)
	e.vault.secret = &models.Secret{ID: "s1", Key: "api-key", Value: "hunter2", UserID: "u1"}
	resp := e.do(t, http.MethodGet, "/api/retrieve/vault/entries/s1", e.token(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeResponse(t, resp)
	data, err := json.Marshal(out.Data)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hunter2")
}

func TestGetSecretByIDRequestQuotaExhausted(t *testing.T) {
	e := newEnv(t)
	e.vault.err = common.ErrorQuotaExhausted
	resp := e.do(t, http.MethodGet, "/api/retrieve/vault/entries/s1", e.token(t), nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestGetSecretByKeyRoute(t *testing.T) {
	e := newEnv(t)
	e.vault.secret = &models.Secret{ID: "s1", Key: "api-key", Value: "hunter2", UserID: "u1"}
	resp := e.do(t, http.MethodGet, "/api/retrieve/vault/entry/key/api-key", e.token(t), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "api-key", e.vault.lastKey)
}

func TestGetSecretsByAuthorOther(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/api/retrieve/vault/entry/u2", e.token(t), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteSecretNotFound(t *testing.T) {
	e := newEnv(t)
	e.vault.err = common.ErrorNotFound
	resp := e.do(t, http.MethodDelete, "/api/delete/s1", e.token(t), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// --- plumbing ---

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

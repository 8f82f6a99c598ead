// Package httpapi exposes the vault over an HTTP JSON API: a chi router,
// the bearer-token middleware, and thin handlers delegating to the services.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/logging"
	"github.com/dmitrijs2005/locksmith/internal/server/auth"
	"github.com/dmitrijs2005/locksmith/internal/server/models"
	"github.com/dmitrijs2005/locksmith/internal/server/revoke"
	"github.com/go-playground/validator"
	"golang.org/x/time/rate"
)

// UserService is the slice of the user service the handlers consume.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id, email, password string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) (int64, error)
}

// VaultService is the slice of the vault service the handlers consume.
type VaultService interface {
	CreateSecret(ctx context.Context, user *models.User, key, value string) (*models.Secret, error)
	GetSecretByID(ctx context.Context, user *models.User, id string) (*models.Secret, error)
	GetSecretByKey(ctx context.Context, user *models.User, key string) (*models.Secret, error)
	ListSecrets(ctx context.Context, user *models.User) ([]*models.SecretMetadata, error)
	GetSecretsByAuthor(ctx context.Context, user *models.User, authorID string) ([]*models.SecretMetadata, error)
	DeleteSecret(ctx context.Context, user *models.User, id string) (*models.Secret, error)
}

// Server wires the HTTP surface together. Construct with NewServer and
// mount Router on an http.Server.
type Server struct {
	users         UserService
	vault         VaultService
	authenticator *auth.Authenticator
	revoked       revoke.List
	tokenValidity time.Duration
	limiter       *rate.Limiter
	validate      *validator.Validate
	logger        logging.Logger
}

// NewServer constructs the HTTP API. tokenValidity bounds the auth cookie
// lifetime; rps/burst parameterize the global rate limiter.
func NewServer(users UserService, vault VaultService, authenticator *auth.Authenticator,
	revoked revoke.List, tokenValidity time.Duration, rps float64, burst int,
	logger logging.Logger) *Server {
	return &Server{
		users:         users,
		vault:         vault,
		authenticator: authenticator,
		revoked:       revoked,
		tokenValidity: tokenValidity,
		limiter:       rate.NewLimiter(rate.Limit(rps), burst),
		validate:      validator.New(),
		logger:        logger.With("module", "httpapi"),
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

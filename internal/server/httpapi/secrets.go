package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/server/models"
	"github.com/go-chi/chi"
	"github.com/go-chi/render"
)

type createSecretRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// secretView is the full projection returned by single-secret reads and
// deletes; Value is plaintext there. Creation responses omit the value.
type secretView struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleCreateSecret(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	var req createSecretRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	secret, err := s.vault.CreateSecret(r.Context(), user, req.Key, req.Value)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "secret created", "user_id", user.ID, "secret_id", secret.ID)
	render.JSON(w, r, OKWithData(secretView{
		ID:        secret.ID,
		Key:       secret.Key,
		CreatedAt: secret.CreatedAt,
	}))
}

func (s *Server) handleListSecrets(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	items, err := s.vault.ListSecrets(r.Context(), user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, OKWithData(items))
}

func (s *Server) handleGetSecretByID(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	secret, err := s.vault.GetSecretByID(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, OKWithData(toSecretView(secret)))
}

func (s *Server) handleGetSecretByKey(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	secret, err := s.vault.GetSecretByKey(r.Context(), user, chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, OKWithData(toSecretView(secret)))
}

func (s *Server) handleGetSecretsByAuthor(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	items, err := s.vault.GetSecretsByAuthor(r.Context(), user, chi.URLParam(r, "createdBy"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, OKWithData(items))
}

func (s *Server) handleDeleteSecret(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	secret, err := s.vault.DeleteSecret(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "secret deleted", "user_id", user.ID, "secret_id", secret.ID)
	render.JSON(w, r, OKWithData(toSecretView(secret)))
}

func toSecretView(secret *models.Secret) secretView {
	return secretView{
		ID:        secret.ID,
		Key:       secret.Key,
		Value:     secret.Value,
		CreatedAt: secret.CreatedAt,
	}
}

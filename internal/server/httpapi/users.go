package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/dmitrijs2005/locksmith/internal/server/models"
	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type userView struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	HasPaid             bool      `json:"has_paid"`
	SecretQuota         int       `json:"secret_quota"`
	RequestQuota        int       `json:"request_quota"`
	SubscriptionExpires time.Time `json:"subscription_expires"`
	CreatedAt           time.Time `json:"created_at"`
}

func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, Error("invalid request body"))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, ValidationError(err.(validator.ValidationErrors)))
		return false
	}
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	user, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	render.JSON(w, r, OKWithData(toUserView(user)))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     common.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokenValidity.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	render.JSON(w, r, OKWithData(map[string]any{"token": token}))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}
	if tokenID, ok := claims.TokenID(); ok {
		if err := s.revoked.Revoke(r.Context(), tokenID, claims.Remaining(time.Now())); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     common.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	render.JSON(w, r, OK())
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	email := chi.URLParam(r, "email")
	// only your own record exists as far as you can tell
	if email != user.Email {
		s.writeError(w, r, common.ErrorNotFound)
		return
	}
	render.JSON(w, r, OKWithData(toUserView(user)))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	if chi.URLParam(r, "id") != user.ID {
		s.writeError(w, r, common.ErrorNotFound)
		return
	}
	var req credentialsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	updated, err := s.users.UpdateUser(r.Context(), user.ID, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, OKWithData(toUserView(updated)))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	if chi.URLParam(r, "id") != user.ID {
		s.writeError(w, r, common.ErrorNotFound)
		return
	}
	deleted, err := s.users.DeleteUser(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "user deleted", "user_id", user.ID, "secrets_deleted", deleted)
	render.JSON(w, r, OKWithData(map[string]any{"deleted_secrets": deleted}))
}

func toUserView(u *models.User) userView {
	return userView{
		ID:                  u.ID,
		Email:               u.Email,
		HasPaid:             u.HasPaid,
		SecretQuota:         u.SecretQuota,
		RequestQuota:        u.RequestQuota,
		SubscriptionExpires: u.SubscriptionExpires,
		CreatedAt:           u.CreatedAt,
	}
}

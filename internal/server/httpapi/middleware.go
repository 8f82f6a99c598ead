package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/dmitrijs2005/locksmith/internal/server/metrics"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

// extractToken pulls the bearer string from the Authorization header or,
// failing that, the auth cookie. The header wins when both are present.
func extractToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		token, found := strings.CutPrefix(h, "Bearer ")
		if found && token != "" {
			return token, true
		}
		return "", false
	}
	if c, err := r.Cookie(common.AuthCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// authMiddleware authenticates the request: token extraction, signature
// verification, revocation check, then subject resolution to a user record
// stashed in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractToken(r)
		if !ok {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}
		claims, err := s.authenticator.Verify(token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		tokenID, ok := claims.TokenID()
		if !ok {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}
		revoked, err := s.revoked.IsRevoked(r.Context(), tokenID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if revoked {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}
		subject, ok := claims.Subject()
		if !ok {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}
		user, err := s.users.GetUserByEmail(r.Context(), subject)
		if err != nil {
			// a token for a user that no longer exists is just invalid;
			// anything else (say, the store being down) keeps its own status
			if errors.Is(err, common.ErrorNotFound) {
				err = common.ErrorUnauthorized
			}
			s.writeError(w, r, err)
			return
		}
		ctx := withClaims(withUser(r.Context(), user), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// rateLimitMiddleware rejects requests above the configured global rate.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, Error("too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records the request counter and latency histogram,
// labelled by the chi route pattern rather than the raw path.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

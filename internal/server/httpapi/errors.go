package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/locksmith/internal/common"
	"github.com/go-chi/render"
)

// writeError maps a service error onto the HTTP taxonomy. Internal detail
// (including decryption failures) is logged and never surfaced to callers.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorConflict):
		status, msg = http.StatusConflict, "already exists"
	case errors.Is(err, common.ErrorQuotaExceeded):
		status, msg = http.StatusTooManyRequests, "secret quota reached"
	case errors.Is(err, common.ErrorQuotaExhausted):
		status, msg = http.StatusTooManyRequests, "request quota exhausted"
	case errors.Is(err, common.ErrorUnavailable):
		status, msg = http.StatusServiceUnavailable, "service unavailable"
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	w.WriteHeader(status)
	render.JSON(w, r, Error(msg))
}

package httpapi

import (
	"net/http"
	"time"

	"github.com/gymbuddy/gymbuddy/internal/models"
	"github.com/gymbuddy/gymbuddy/internal/services/identity"
)

// userHandlerFunc is a handler that runs on behalf of a resolved user. The
// acting user is always passed in explicitly; handlers never read it from
// shared state.
type userHandlerFunc func(w http.ResponseWriter, r *http.Request, user *models.User)

// requireUser resolves the bearer token to a user and refuses the request
// when it cannot
func (h *Handler) requireUser(next userHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		user, err := h.identityService.CurrentUser(r.Context(), &identity.CurrentUserInput{
			Token: token,
		})
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next(w, r, user)
	}
}

// optionalUser resolves the bearer token when one is present; anonymous
// requests simply get no user
func (h *Handler) optionalUser(r *http.Request) *models.User {
	token := bearerToken(r)
	if token == "" {
		return nil
	}

	user, err := h.identityService.CurrentUser(r.Context(), &identity.CurrentUserInput{
		Token: token,
	})
	if err != nil {
		return nil
	}

	return user
}

// statusRecorder captures the status code a handler writes
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// logRequests logs one line per request
func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		h.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

package middleware

import (
	"net/http"

	"github.com/hongminglow/brewerybook/internal/apperror"
	"github.com/hongminglow/brewerybook/internal/auth"
	"github.com/hongminglow/brewerybook/internal/http/respond"
	"github.com/hongminglow/brewerybook/internal/logging"
)

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's Identity in the request context for the next handler.
func RequireAuth(gate Authenticator, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := gate.Authenticate(r)
			if err != nil {
				appErr := apperror.FromError(err)
				if appErr.Kind == apperror.Internal {
					log.Error(r.Context(), "authenticate request", "path", r.URL.Path, "error", err)
				} else {
					log.Info(r.Context(), "request rejected", "path", r.URL.Path, "reason", appErr.Code())
				}
				respond.AppError(w, appErr)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), id)))
		})
	}
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/brewerybook/internal/apperror"
	"github.com/hongminglow/brewerybook/internal/auth"
	"github.com/hongminglow/brewerybook/internal/logging"
	"github.com/hongminglow/brewerybook/internal/models"
)

type gateFunc func(r *http.Request) (auth.Identity, error)

func (f gateFunc) Authenticate(r *http.Request) (auth.Identity, error) { return f(r) }

func TestRequireAuth_PassesIdentity(t *testing.T) {
	gate := gateFunc(func(*http.Request) (auth.Identity, error) {
		return auth.Identity{User: models.User{ID: "u-1", Username: "alice"}}, nil
	})

	var got auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		got, ok = auth.IdentityFromContext(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	RequireAuth(gate, logging.Nop())(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/breweries", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "alice", got.User.Username)
}

func TestRequireAuth_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "auth error",
			err:    apperror.NewAuthError(apperror.UnsupportedScheme, "Invalid token prefix", nil),
			status: http.StatusUnauthorized,
			body:   `{"error":"Invalid token prefix","code":"unsupported_scheme"}`,
		},
		{
			name:   "store fault",
			err:    errors.New("connection reset"),
			status: http.StatusInternalServerError,
			body:   `{"error":"An unexpected error occurred","code":"internal_error"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gate := gateFunc(func(*http.Request) (auth.Identity, error) { return auth.Identity{}, tc.err })
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

			rec := httptest.NewRecorder()
			RequireAuth(gate, logging.Nop())(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/breweries", nil))

			assert.False(t, called)
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

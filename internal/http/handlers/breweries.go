package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/brewerybook/internal/apperror"
	"github.com/hongminglow/brewerybook/internal/auth"
	"github.com/hongminglow/brewerybook/internal/directory"
	"github.com/hongminglow/brewerybook/internal/http/respond"
	"github.com/hongminglow/brewerybook/internal/logging"
)

// Directory looks breweries up in the external directory service.
type Directory interface {
	Lookup(ctx context.Context, params []directory.Param) (directory.Response, error)
}

// BreweriesHandler relays brewery lookups for authenticated callers.
type BreweriesHandler struct {
	dir Directory
	log logging.Logger
}

func NewBreweriesHandler(dir Directory, log logging.Logger) *BreweriesHandler {
	return &BreweriesHandler{dir: dir, log: log}
}

// Register mounts GET /breweries. The router must already require authentication.
func (h *BreweriesHandler) Register(r chi.Router) {
	r.Get("/breweries", h.handleList)
}

func (h *BreweriesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	params, err := directory.ParseQuery(r.URL.RawQuery)
	if err != nil {
		writeError(w, r, h.log, apperror.NewValidationError("Invalid query string", err))
		return
	}

	resp, err := h.dir.Lookup(r.Context(), params)
	if err != nil {
		writeError(w, r, h.log, apperror.NewUpstreamUnavailableError("Brewery directory is unavailable", err))
		return
	}

	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		h.log.Info(r.Context(), "brewery lookup", "user_id", id.User.ID, "params", len(params), "upstream_status", resp.StatusCode)
	}
	respond.Raw(w, resp.StatusCode, resp.Body)
}

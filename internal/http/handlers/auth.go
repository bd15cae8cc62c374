package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hongminglow/brewerybook/internal/apperror"
	"github.com/hongminglow/brewerybook/internal/http/respond"
	"github.com/hongminglow/brewerybook/internal/logging"
	"github.com/hongminglow/brewerybook/internal/models"
	"github.com/hongminglow/brewerybook/internal/models/dto"
)

const maxRequestBody = 1 << 20

// Accounts is the registration and login service behind AuthHandler.
type Accounts interface {
	Register(ctx context.Context, username, password string) (models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler owns the register/login endpoints.
type AuthHandler struct {
	accounts Accounts
	validate *validator.Validate
	log      logging.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(accounts Accounts, log logging.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, validate: validator.New(), log: log}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.log.Info(r.Context(), "user registered", "user_id", user.ID)
	respond.JSON(w, http.StatusCreated, dto.SuccessResponse{Success: "User created successfully"})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token})
}

// decode reads a JSON body into dst and checks its validate tags.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.NewValidationError("Invalid JSON payload", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperror.NewValidationError("Please provide both username and password", err)
	}
	return nil
}

// writeError converts err to an HTTP response. Causes are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	appErr := apperror.FromError(err)
	switch appErr.Kind {
	case apperror.Internal:
		log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	case apperror.UpstreamUnavailable:
		log.Warn(r.Context(), "directory unavailable", "path", r.URL.Path, "error", err)
	}
	respond.AppError(w, appErr)
}

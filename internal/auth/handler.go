package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atlas-lms/atlas-lms/internal/platform/httpx"
	"github.com/atlas-lms/atlas-lms/internal/session"
	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// Mailer enqueues transactional email dispatch. Delivery happens in the
// worker; enqueue failures never fail the request.
type Mailer interface {
	EnqueueWelcomeEmail(ctx context.Context, to, name string) error
	EnqueuePasswordResetEmail(ctx context.Context, to string) error
}

// LoginMetrics counts login outcomes for the dashboard.
type LoginMetrics interface {
	RecordLogin(outcome string)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	issuer    *session.Issuer
	mailer    Mailer
	metrics   LoginMetrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. mailer and metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, issuer *session.Issuer, mailer Mailer, metrics LoginMetrics) *Handler {
	v := validator.New()
	// Report field errors under their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		logger:    logger,
		service:   service,
		issuer:    issuer,
		mailer:    mailer,
		metrics:   metrics,
		validator: v,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.handleSession)
	r.Post("/forgot-password", h.handleForgotPassword)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	TenantID string `json:"tenantId"`
}

type sessionResponse struct {
	User shared.Principal `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	if fields := h.validateStruct(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	principal, err := h.service.Authenticate(r.Context(), req.Email, req.Password, req.TenantID)
	if err != nil {
		// Uniform response regardless of cause; low-severity log only.
		h.log().Debug("login rejected", slog.String("email", req.Email))
		h.recordLogin("failure")
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}

	token, err := h.issuer.Issue(principal)
	if err != nil {
		h.log().Error("issue session", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	http.SetCookie(w, h.issuer.Cookie(token))
	h.recordLogin("success")
	httpx.JSON(w, http.StatusOK, sessionResponse{User: principal})
}

func (h *Handler) recordLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(outcome)
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2"`
	TenantID string `json:"tenantId" validate:"required"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	if fields := h.validateStruct(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	principal, err := h.service.Register(r.Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		TenantID: req.TenantID,
	})
	if err != nil {
		if errors.Is(err, shared.ErrTenantUnavailable) {
			httpx.ValidationProblem(w, map[string]string{"tenantId": "unknown or inactive tenant"})
			return
		}
		httpx.RespondError(w, err)
		return
	}

	if h.mailer != nil {
		if err := h.mailer.EnqueueWelcomeEmail(r.Context(), principal.Email, principal.Name); err != nil {
			h.log().Warn("enqueue welcome email", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusCreated, sessionResponse{User: principal})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.issuer.ClearCookie())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{User: principal})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// handleForgotPassword accepts the request and hands delivery to the
// reset capability. The response never reveals whether the account
// exists; token issuance and validation live outside this core.
func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed request body")
		return
	}
	if fields := h.validateStruct(req); len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}
	if h.mailer != nil {
		if err := h.mailer.EnqueuePasswordResetEmail(r.Context(), req.Email); err != nil {
			h.log().Warn("enqueue password reset email", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handler) validateStruct(v any) map[string]string {
	err := h.validator.Struct(v)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = "failed " + fe.Tag() + " validation"
		}
	} else {
		fields["general"] = "invalid payload"
	}
	return fields
}

func (h *Handler) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

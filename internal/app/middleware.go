package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/atlas-lms/atlas-lms/internal/observability"
	"github.com/atlas-lms/atlas-lms/internal/session"
	"github.com/atlas-lms/atlas-lms/internal/shared"
)

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger      *slog.Logger
	Config      *Config
	Issuer      *session.Issuer
	CSRFManager *shared.CSRFManager
	Metrics     *observability.Metrics
}

// MiddlewareStack installs the Atlas middleware chain. Session
// resolution runs early so every later stage sees the principal; the
// access gate itself is applied by the router after this stack.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		FeaturePolicy:         "none",
		ContentSecurityPolicy: "default-src 'self'",
		SSLRedirect:           cfg.Config != nil && cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	timeout := 30 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}

	globalLimit, loginLimit := 60, 5
	if cfg.Config != nil {
		if cfg.Config.RateLimitPerMinute > 0 {
			globalLimit = cfg.Config.RateLimitPerMinute
		}
		if cfg.Config.LoginRateLimitPerMinute > 0 {
			loginLimit = cfg.Config.LoginRateLimitPerMinute
		}
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
	}
	// Metrics wrap everything below so rate-limited and CSRF-rejected
	// requests still land in the request counters.
	if cfg.Metrics != nil {
		middlewares = append(middlewares, cfg.Metrics.Middleware)
	}
	middlewares = append(middlewares,
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					cfg.Logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(globalLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
		loginRateLimit(loginLimit),
		session.Middleware(cfg.Issuer, cfg.Logger),
		csrfMiddleware(cfg),
	)
	return middlewares
}

// loginPath is the credential-accepting endpoint covered by the
// stricter limiter.
const loginPath = "/api/auth/login"

// loginRateLimit applies a per-IP budget to the login endpoint on top
// of the global limit, throttling online password guessing.
func loginRateLimit(perMinute int) func(http.Handler) http.Handler {
	limiter := httprate.Limit(perMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))
	return func(next http.Handler) http.Handler {
		limited := limiter(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == loginPath {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// csrfMiddleware verifies the double-submit token on unsafe methods for
// requests riding an authenticated session cookie. Anonymous requests
// (login, registration) carry no ambient credential worth forging.
func csrfMiddleware(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				ensureCSRFCookie(cfg, w, r)
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := shared.PrincipalFromContext(r.Context()); !ok {
				next.ServeHTTP(w, r)
				return
			}
			cookie, err := r.Cookie(shared.CSRFCookieName)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			token := r.Header.Get(shared.CSRFHeaderName)
			if token == "" {
				token = r.PostFormValue(shared.CSRFFormField)
			}
			if err := cfg.CSRFManager.VerifyToken(cookie.Value, token); err != nil {
				cfg.Logger.Warn("csrf validation failed", slog.String("path", r.URL.Path))
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ensureCSRFCookie(cfg MiddlewareConfig, w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(shared.CSRFCookieName); err == nil {
		return
	}
	token, err := cfg.CSRFManager.IssueToken()
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     shared.CSRFCookieName,
		Value:    token,
		Path:     "/",
		Secure:   cfg.Config != nil && cfg.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

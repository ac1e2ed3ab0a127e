package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rizkypratama/maintenance-portal/internal/session"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// SessionResolver yields the caller's claims from a request, or an error
// when no valid session resolves.
type SessionResolver interface {
	FromRequest(r *http.Request) (*session.Claims, error)
}

// isPublicPath mirrors the navigation policy: only dashboard pages are
// gated; the login page, the landing page, forgot-password and the login
// API stay reachable without a session.
func isPublicPath(path string) bool {
	return path == loginPath ||
		path == "/" ||
		strings.HasPrefix(path, "/forgot-password") ||
		strings.HasPrefix(path, "/api/auth/login") ||
		!strings.HasPrefix(path, dashboardPath)
}

// RouteGuard gates page navigation before any handler runs. Unauthenticated
// access to protected paths redirects to the login page; authenticated
// access to the login or forgot-password pages redirects to the dashboard.
// If session evaluation panics, protected paths fail closed and public
// paths fail open.
func RouteGuard(resolver SessionResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			public := isPublicPath(path)

			claims, err := resolveSession(resolver, r, logger)
			if err != nil {
				if !public {
					http.Redirect(w, r, loginPath, http.StatusFound)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if !public && claims == nil {
				logger.Info("redirecting to login", "path", path)
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			if claims != nil && (path == loginPath || strings.HasPrefix(path, "/forgot-password")) {
				logger.Info("already logged in, redirecting to dashboard", "path", path)
				http.Redirect(w, r, dashboardPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resolveSession evaluates the session cookie, converting panics into an
// error so the guard can apply its fail-closed/fail-open policy. A missing
// or invalid session is not an error here, just a nil claim set.
func resolveSession(resolver SessionResolver, r *http.Request, logger *slog.Logger) (claims *session.Claims, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("session evaluation panicked", "panic", rec)
			claims = nil
			err = session.ErrInvalidToken
		}
	}()

	c, verr := resolver.FromRequest(r)
	if verr != nil {
		if verr == session.ErrTokenExpired {
			logger.Info("session expired", "path", r.URL.Path)
		}
		return nil, nil
	}
	return c, nil
}

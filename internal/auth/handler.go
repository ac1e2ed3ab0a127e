package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	internal "github.com/rizkypratama/maintenance-portal/internal"
	"github.com/rizkypratama/maintenance-portal/internal/session"
	"github.com/rizkypratama/maintenance-portal/internal/transport"
	"github.com/rizkypratama/maintenance-portal/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Codec   *session.Codec
	Cookies *session.CookieWriter
}

func NewHandler(svc ServiceAPI, codec *session.Codec, cookies *session.CookieWriter) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Codec:       codec,
		Cookies:     cookies,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Permintaan tidak valid")
		return
	}

	token, user, err := h.Service.Authenticate(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Cookies.Set(w, token)
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user.ToResponse(),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.Clear(w)
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Permintaan tidak valid")
		return
	}

	user, err := h.Service.Register(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user.ToResponse(),
	})
}

// Me returns the session's user, re-resolved against the credential
// store so a deleted account invalidates the session immediately.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.ClaimsFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Sesi tidak valid")
		return
	}

	user, err := h.Service.CurrentUser(claims.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user.ToResponse()})
}

// RequireSession is the auth gate for protected endpoints: cookie →
// verify → claims in context, else 401.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.Codec.FromRequest(r)
		if err != nil {
			if err == session.ErrTokenExpired {
				h.Logger.Info("rejected expired session", "path", r.URL.Path)
			}
			h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := session.ContextWithClaims(r.Context(), claims)
		ctx = internal.ContextWithUserID(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalSession attaches claims when a valid cookie is present but
// never blocks: endpoints like file download treat a failed verification
// as an anonymous caller.
func (h *Handler) OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := h.Codec.FromRequest(r); err == nil {
			ctx := session.ContextWithClaims(r.Context(), claims)
			ctx = internal.ContextWithUserID(ctx, claims.UserID)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

package session

import (
	"net/http"
	"time"
)

// CookieName is the cookie that carries the signed session token.
const CookieName = "auth-token"

// CookieWriter attaches and clears the session cookie with a fixed
// attribute profile: HTTP-only, SameSite=Lax, path "/", Secure only in
// production.
type CookieWriter struct {
	Secure bool
	MaxAge time.Duration
}

func NewCookieWriter(secure bool, maxAge time.Duration) *CookieWriter {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &CookieWriter{Secure: secure, MaxAge: maxAge}
}

func (cw *CookieWriter) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cw.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cw.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear writes an empty value with Max-Age=0 using the same attribute
// profile so the browser overwrites the cookie rather than keeping a
// second variant alive.
func (cw *CookieWriter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cw.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest resolves the caller's identity from the inbound cookie.
// Any failure, including a decoded claim set without a user id, yields
// ErrNoSession.
func (c *Codec) FromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	claims, err := c.Verify(cookie.Value)
	if err != nil {
		return nil, err
	}

	if claims.UserID == "" {
		return nil, ErrNoSession
	}
	return claims, nil
}

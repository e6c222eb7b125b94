package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/sessions"
)

// The session cookie holds the {user, token} bundle as URL-encoded JSON.

func (s *Server) setSessionCookie(w http.ResponseWriter, bundle *sessions.Bundle) error {
	value, err := EncodeSessionCookie(bundle)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.config.GetCookieMaxAge().Seconds()),
	})
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.GetCookieSecure(),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1, // Max-Age=0
	})
}

// readSessionCookie fails with ErrUnauthenticated when the cookie is absent or unreadable.
func readSessionCookie(r *http.Request) (*sessions.Bundle, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("%w: no session cookie", errors.ErrUnauthenticated)
	}
	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: session cookie encoding: %w", errors.ErrUnauthenticated, err)
	}
	var bundle sessions.Bundle
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		return nil, fmt.Errorf("%w: session cookie payload: %w", errors.ErrUnauthenticated, err)
	}
	return &bundle, nil
}

// EncodeSessionCookie renders a bundle as the value of the token cookie.
func EncodeSessionCookie(bundle *sessions.Bundle) (string, error) {
	raw, err := json.Marshal(bundle)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(raw)), nil
}

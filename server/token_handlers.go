package server

import (
	"net/http"

	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/sessions"
)

var sessionReadRules = []statusRule{
	{errors.ErrUnauthenticated, http.StatusUnauthorized, "No token found"},
	{errors.ErrSessionRecordMissing, http.StatusNotFound, "Refresh Token not found in Token database"},
	{errors.ErrStorage, http.StatusInternalServerError, "Token data API internal server error"},
	{errors.ErrInvalidCredential, http.StatusUnauthorized, "Token is not valid"},
	{errors.ErrExpired, http.StatusUnauthorized, "Token is not valid"},
	{errors.ErrMalformedPayload, http.StatusUnauthorized, "Token is not valid"},
}

// Order matters: verifier failures are wrapped in ErrInvalidRefreshToken and
// must not fall through to the minting rules.
var sessionRefreshRules = []statusRule{
	{errors.ErrUnauthenticated, http.StatusUnauthorized, "No token found"},
	{errors.ErrSessionRevoked, http.StatusNotFound, "Refresh Token not found in database"},
	{errors.ErrInvalidRefreshToken, http.StatusUnauthorized, "Refresh token is not valid"},
	{errors.ErrRefreshTokenExpired, http.StatusBadRequest, "Failed to refresh access token"},
	{errors.ErrSigning, http.StatusBadRequest, "Failed to refresh access token"},
	{errors.ErrMalformedPayload, http.StatusBadRequest, "Failed to refresh access token"},
	{errors.ErrSessionRecordMissing, http.StatusNotFound, "Token not found or update failed in database"},
	{errors.ErrStorage, http.StatusInternalServerError, "Token update failed in database"},
}

type sessionReadResponse struct {
	Success bool             `json:"success"`
	Data    *sessions.Bundle `json:"data"`
}

type sessionRefreshResponse struct {
	Message string           `json:"message"`
	Data    *sessions.Bundle `json:"data"`
}

// SessionReadHandler returns the cookie bundle once its access token and stored record check out.
func (s *Server) SessionReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bundle, err := readSessionCookie(r)
		if err != nil {
			s.fail(w, r, err, sessionReadRules, "Token data API internal server error")
			return
		}
		bundle, err = s.deps.Sessions.Read(r.Context(), bundle)
		if err != nil {
			s.fail(w, r, err, sessionReadRules, "Token data API internal server error")
			return
		}
		writeJSON(w, http.StatusOK, sessionReadResponse{Success: true, Data: bundle})
	}
}

// SessionRefreshHandler mints a new access token. The cookie is only rewritten on success.
func (s *Server) SessionRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bundle, err := readSessionCookie(r)
		if err != nil {
			s.fail(w, r, err, sessionRefreshRules, "Token refresh API internal server error")
			return
		}
		refreshed, err := s.deps.Sessions.Refresh(r.Context(), bundle)
		if err != nil {
			s.fail(w, r, err, sessionRefreshRules, "Token refresh API internal server error")
			return
		}
		if err := s.setSessionCookie(w, refreshed); err != nil {
			writeError(w, r, http.StatusInternalServerError, "Token refresh API internal server error", err)
			return
		}
		writeJSON(w, http.StatusOK, sessionRefreshResponse{Message: "Token updated successfully", Data: refreshed})
	}
}

package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/internal/utils"
	"github.com/youyuhsuan/designare/token"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type issuanceResponse struct {
	Success bool            `json:"success"`
	Token   token.TokenPair `json:"token"`
}

var loginRules = []statusRule{
	{errors.ErrInvalidRequest, http.StatusBadRequest, "Invalid input"},
	{errors.ErrInvalidPassword, http.StatusBadRequest, "Invalid email or password"},
	{errors.ErrAccountDisabled, http.StatusForbidden, "This account has been disabled"},
	{errors.ErrUserNotFound, http.StatusNotFound, "User not found"},
}

var signupRules = []statusRule{
	{errors.ErrInvalidRequest, http.StatusBadRequest, "Invalid input"},
	{errors.ErrEmailInUse, http.StatusBadRequest, "Email already in use"},
	{errors.ErrInvalidEmail, http.StatusBadRequest, "Invalid email format"},
	{errors.ErrWeakPassword, http.StatusBadRequest, "Password is too weak"},
}

var forgotPasswordRules = []statusRule{
	{errors.ErrInvalidRequest, http.StatusBadRequest, "Invalid input"},
	{errors.ErrInvalidEmail, http.StatusBadRequest, "Invalid email format"},
	{errors.ErrUserNotFound, http.StatusBadRequest, "No account uses this email"},
	{errors.ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests, try again later"},
}

var thirdPartyRules = []statusRule{
	{errors.ErrMissingIDToken, http.StatusUnauthorized, "No token provided"},
	{errors.ErrInvalidIDToken, http.StatusForbidden, "Invalid token"},
	{errors.ErrAccountDisabled, http.StatusForbidden, "This account has been disabled"},
	{errors.ErrEmailInUse, http.StatusConflict, "Email is already registered with another sign-in method"},
	{errors.ErrUserNotFound, http.StatusNotFound, "User not found"},
}

// startSession issues tokens for a verified user, persists the session and sets the cookie.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user token.UserIdentity) (token.TokenPair, bool) {
	bundle, err := s.deps.Sessions.Start(r.Context(), user)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to start session", err)
		return token.TokenPair{}, false
	}
	if err := s.setSessionCookie(w, bundle); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to start session", err)
		return token.TokenPair{}, false
	}
	return bundle.Token, true
}

// LoginHandler verifies email and password and starts a session.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			s.fail(w, r, err, loginRules, "Login failed")
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			s.fail(w, r, errors.ErrInvalidRequest, loginRules, "Login failed")
			return
		}

		user, err := s.deps.Identity.SignInWithPassword(r.Context(), req.Email, req.Password)
		if err != nil {
			s.fail(w, r, err, loginRules, "Login failed")
			return
		}
		pair, ok := s.startSession(w, r, user)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, issuanceResponse{Success: true, Token: pair})
	}
}

// SignupHandler creates an account and signs the new user in.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := decodeJSON(r, &req); err != nil {
			s.fail(w, r, err, signupRules, "Failed to create account")
			return
		}
		if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Username) == "" || req.Password == "" {
			s.fail(w, r, errors.ErrInvalidRequest, signupRules, "Failed to create account")
			return
		}

		user, err := s.deps.Identity.SignUp(r.Context(), req.Email, strings.TrimSpace(req.Username), req.Password)
		if err != nil {
			s.fail(w, r, err, signupRules, "Failed to create account")
			return
		}
		pair, ok := s.startSession(w, r, user)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Signup successful",
			"user": map[string]any{
				"id":       user.SubjectID,
				"username": utils.Value(user.DisplayName),
				"email":    user.Email,
			},
			"token": pair,
		})
	}
}

func (s *Server) ForgotPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordRequest
		if err := decodeJSON(r, &req); err != nil {
			s.fail(w, r, err, forgotPasswordRules, "Failed to send password reset email")
			return
		}
		if err := s.deps.Identity.SendPasswordReset(r.Context(), req.Email); err != nil {
			s.fail(w, r, err, forgotPasswordRules, "Failed to send password reset email")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
	}
}

// ThirdPartyAuthHandler exchanges an ID token from the Authorization header for a session.
func (s *Server) ThirdPartyAuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.IDTokens == nil {
			writeError(w, r, http.StatusNotImplemented, "Third-party sign-in is not configured", nil)
			return
		}
		rawIDToken, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || strings.TrimSpace(rawIDToken) == "" {
			s.fail(w, r, errors.ErrMissingIDToken, thirdPartyRules, "Third-party sign-in failed")
			return
		}

		user, err := s.deps.IDTokens.VerifyIDToken(r.Context(), strings.TrimSpace(rawIDToken))
		if err != nil {
			s.fail(w, r, err, thirdPartyRules, "Third-party sign-in failed")
			return
		}
		pair, ok := s.startSession(w, r, user)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, issuanceResponse{Success: true, Token: pair})
	}
}

// LogoutHandler always clears the cookie. The stored record is revoked only when
// the session manager is configured to do so.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if bundle, err := readSessionCookie(r); err == nil {
			if err := s.deps.Sessions.End(r.Context(), bundle); err != nil {
				writeError(w, r, http.StatusInternalServerError, "Logout failed", err)
				return
			}
		} else {
			log.Debug().Err(err).Msg("logout without a readable session cookie")
		}
		s.clearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Logged out successfully",
			"success": true,
		})
	}
}

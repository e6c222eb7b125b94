package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/internal/utils"
	"github.com/youyuhsuan/designare/token"
)

// DefaultIdentityToolkitURL is the Firebase Auth REST endpoint.
const DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

var _ Provider = (*FirebaseProvider)(nil)

// FirebaseProvider signs users in through the Firebase Auth REST API.
type FirebaseProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type FirebaseOption func(*FirebaseProvider)

// WithIdentityToolkitURL points the provider at another endpoint, such as the
// Auth emulator or a test server.
func WithIdentityToolkitURL(baseURL string) FirebaseOption {
	return func(p *FirebaseProvider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(c *http.Client) FirebaseOption {
	return func(p *FirebaseProvider) {
		p.httpClient = c
	}
}

func NewFirebaseProvider(apiKey string, options ...FirebaseOption) *FirebaseProvider {
	p := &FirebaseProvider{
		apiKey:     apiKey,
		baseURL:    DefaultIdentityToolkitURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

type firebaseAccount struct {
	LocalID        string `json:"localId"`
	Email          string `json:"email"`
	DisplayName    string `json:"displayName"`
	ProfilePicture string `json:"profilePicture"`
	IDToken        string `json:"idToken"`
}

func (a firebaseAccount) identity() token.UserIdentity {
	return token.UserIdentity{
		SubjectID:   a.LocalID,
		Email:       a.Email,
		DisplayName: utils.OptionalString(a.DisplayName),
		AvatarURL:   utils.OptionalString(a.ProfilePicture),
	}
}

type firebaseErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseProvider) SignInWithPassword(ctx context.Context, email, password string) (token.UserIdentity, error) {
	var account firebaseAccount
	err := p.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &account)
	if err != nil {
		return token.UserIdentity{}, err
	}
	return account.identity(), nil
}

func (p *FirebaseProvider) SignUp(ctx context.Context, email, username, password string) (token.UserIdentity, error) {
	var account firebaseAccount
	err := p.call(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &account)
	if err != nil {
		return token.UserIdentity{}, err
	}

	if username != "" {
		err = p.call(ctx, "accounts:update", map[string]any{
			"idToken":           account.IDToken,
			"displayName":       username,
			"returnSecureToken": false,
		}, nil)
		if err != nil {
			return token.UserIdentity{}, err
		}
		account.DisplayName = username
	}
	if account.Email == "" {
		account.Email = email
	}
	return account.identity(), nil
}

func (p *FirebaseProvider) SendPasswordReset(ctx context.Context, email string) error {
	return p.call(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

func (p *FirebaseProvider) call(ctx context.Context, method string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", errors.ErrProviderFailure, method, err)
	}
	endpoint := fmt.Sprintf("%s/%s?key=%s", p.baseURL, method, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errors.ErrProviderFailure, method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errors.ErrProviderFailure, method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var fe firebaseErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&fe); err != nil {
			return fmt.Errorf("%w: %s: status %d", errors.ErrProviderFailure, method, resp.StatusCode)
		}
		return mapFirebaseError(fe.Error.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", errors.ErrProviderFailure, method, err)
	}
	return nil
}

// mapFirebaseError translates Identity Toolkit error messages such as
// "WEAK_PASSWORD : Password should be at least 6 characters".
func mapFirebaseError(message string) error {
	code, _, _ := strings.Cut(message, " ")
	switch code {
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return fmt.Errorf("%w: %s", errors.ErrUserNotFound, message)
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return errors.ErrInvalidPassword
	case "USER_DISABLED":
		return fmt.Errorf("%w: %s", errors.ErrAccountDisabled, message)
	case "EMAIL_EXISTS":
		return fmt.Errorf("%w: %s", errors.ErrEmailInUse, message)
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return fmt.Errorf("%w: %s", errors.ErrInvalidEmail, message)
	case "WEAK_PASSWORD", "MISSING_PASSWORD":
		return fmt.Errorf("%w: %s", errors.ErrWeakPassword, message)
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return fmt.Errorf("%w: %s", errors.ErrTooManyRequests, message)
	default:
		return fmt.Errorf("%w: %s", errors.ErrProviderFailure, message)
	}
}

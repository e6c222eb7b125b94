package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/token"
)

// TokenIssuer mints the tokens handed out by the Manager.
type TokenIssuer interface {
	Issue(user token.UserIdentity, clientID string) (token.TokenPair, error)
	IssueAccess(user token.UserIdentity, clientID string) (string, error)
	AccessTTL() time.Duration
}

// TokenVerifier checks tokens presented back by clients.
type TokenVerifier interface {
	VerifyAccess(raw string) (*token.AccessClaims, error)
	VerifyRefresh(raw string) (*token.RefreshClaims, error)
}

var (
	_ TokenIssuer   = (*token.Issuer)(nil)
	_ TokenVerifier = (*token.Verifier)(nil)
)

// Manager runs the session lifecycle: start at login, read, refresh and end.
type Manager struct {
	store       Store
	issuer      TokenIssuer
	verifier    TokenVerifier
	metrics     *Metrics
	revokeOnEnd bool
	newClientID func() string
	nowFunc     func() time.Time
}

type ManagerOption func(*Manager)

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithMetrics(metrics *Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithRevokeOnEnd makes End delete the stored record as well as the cookie.
func WithRevokeOnEnd(revoke bool) ManagerOption {
	return func(m *Manager) {
		m.revokeOnEnd = revoke
	}
}

func WithClientIDFunc(f func() string) ManagerOption {
	return func(m *Manager) {
		m.newClientID = f
	}
}

func NewManager(store Store, issuer TokenIssuer, verifier TokenVerifier, options ...ManagerOption) *Manager {
	m := &Manager{
		store:       store,
		issuer:      issuer,
		verifier:    verifier,
		newClientID: uuid.NewString,
		nowFunc:     time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Start issues a token pair for a verified user under a fresh client id and
// persists the matching record.
func (m *Manager) Start(ctx context.Context, user token.UserIdentity) (*Bundle, error) {
	clientID := m.newClientID()
	pair, err := m.issuer.Issue(user, clientID)
	if err != nil {
		m.metrics.observe("start", "signing_error")
		return nil, err
	}

	record := &StoredSessionRecord{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       user.SubjectID,
		ClientID:     clientID,
		Scope:        append([]string(nil), DefaultScope...),
		ExpiresAt:    m.nowFunc().Add(m.issuer.AccessTTL()).UnixMilli(),
	}
	if _, err := m.store.Insert(ctx, record); err != nil {
		m.metrics.observe("start", "storage_error")
		return nil, err
	}

	m.metrics.observe("start", "ok")
	log.Debug().Str("userId", user.SubjectID).Str("clientId", clientID).Msg("session started")
	return &Bundle{User: user, Token: pair}, nil
}

// Read checks the access token of a bundle and that its session record still exists.
func (m *Manager) Read(ctx context.Context, bundle *Bundle) (*Bundle, error) {
	if bundle == nil || bundle.Token.AccessToken == "" {
		return nil, errors.ErrUnauthenticated
	}
	claims, err := m.verifier.VerifyAccess(bundle.Token.AccessToken)
	if err != nil {
		return nil, err
	}
	record, err := m.store.FindByRefreshToken(ctx, bundle.Token.RefreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.ErrSessionRecordMissing
	}
	if record.UserID != claims.Subject || record.ClientID != claims.ClientID {
		return nil, fmt.Errorf("%w: access token does not belong to the stored session", errors.ErrInvalidCredential)
	}
	return bundle, nil
}

// Refresh mints a new access token for a bundle. The steps run strictly in order:
// store lookup, refresh token verification, minting, then the record update. The
// refresh token itself is never rotated and a failed verification leaves the
// stored record untouched.
func (m *Manager) Refresh(ctx context.Context, bundle *Bundle) (*Bundle, error) {
	out, err := m.refresh(ctx, bundle)
	if err != nil {
		m.metrics.observe("refresh", outcomeOf(err))
		return nil, err
	}
	m.metrics.observe("refresh", "ok")
	return out, nil
}

func (m *Manager) refresh(ctx context.Context, bundle *Bundle) (*Bundle, error) {
	if bundle == nil || bundle.Token.RefreshToken == "" {
		return nil, errors.ErrUnauthenticated
	}
	refreshToken := bundle.Token.RefreshToken

	record, err := m.store.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.ErrSessionRevoked
	}

	claims, err := m.verifier.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidRefreshToken, err)
	}
	if record.UserID != claims.Subject || record.ClientID != claims.ClientID {
		return nil, fmt.Errorf("%w: token does not belong to the stored session", errors.ErrInvalidRefreshToken)
	}

	now := m.nowFunc()
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(now) {
		return nil, errors.ErrRefreshTokenExpired
	}

	// Identity fields come from the cookie; only the subject is taken from the token.
	user := bundle.User
	user.SubjectID = claims.Subject
	accessToken, err := m.issuer.IssueAccess(user, claims.ClientID)
	if err != nil {
		return nil, err
	}

	ttl := m.issuer.AccessTTL()
	updated, err := m.store.Update(ctx, refreshToken, accessToken, now.Add(ttl).UnixMilli())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, errors.ErrSessionRecordMissing
	}

	return &Bundle{
		User: user,
		Token: token.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    token.TokenTypeBearer,
			ExpiresAt:    int64(ttl / time.Second),
		},
	}, nil
}

// End finishes a session. The cookie is always cleared by the caller; the stored
// record is only revoked when the manager was built WithRevokeOnEnd(true).
func (m *Manager) End(ctx context.Context, bundle *Bundle) error {
	if !m.revokeOnEnd || bundle == nil || bundle.Token.RefreshToken == "" {
		m.metrics.observe("end", "ok")
		return nil
	}
	record, err := m.store.FindByRefreshToken(ctx, bundle.Token.RefreshToken)
	if err != nil {
		m.metrics.observe("end", "storage_error")
		return err
	}
	if record == nil {
		m.metrics.observe("end", "ok")
		return nil
	}
	if _, err := m.store.Revoke(ctx, record.ClientID); err != nil {
		m.metrics.observe("end", "storage_error")
		return err
	}
	m.metrics.observe("end", "revoked")
	return nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, errors.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, errors.ErrSessionRevoked):
		return "revoked"
	case errors.Is(err, errors.ErrInvalidRefreshToken):
		return "invalid"
	case errors.Is(err, errors.ErrRefreshTokenExpired):
		return "expired"
	case errors.Is(err, errors.ErrSessionRecordMissing):
		return "missing"
	case errors.Is(err, errors.ErrStorage):
		return "storage_error"
	default:
		return "error"
	}
}

package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/youyuhsuan/designare/internal/config"
	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/sessions"
	"github.com/youyuhsuan/designare/token"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// countingIssuer records how often the manager asks for new tokens.
type countingIssuer struct {
	*token.Issuer
	issued      int
	accessCalls int
}

func (c *countingIssuer) Issue(user token.UserIdentity, clientID string) (token.TokenPair, error) {
	c.issued++
	return c.Issuer.Issue(user, clientID)
}

func (c *countingIssuer) IssueAccess(user token.UserIdentity, clientID string) (string, error) {
	c.accessCalls++
	return c.Issuer.IssueAccess(user, clientID)
}

// failingBackend wraps a backend and fails selected operations.
type failingBackend struct {
	sessions.Backend
	failSetAccess bool
	dropOnSet     bool
}

func (f *failingBackend) SetAccess(ctx context.Context, clientID, accessToken string, expiresAtMs int64) (bool, error) {
	if f.failSetAccess {
		return false, errors.Storagef(errors.New("connection reset"), "set access %s", clientID)
	}
	if f.dropOnSet {
		_, _ = f.Backend.Remove(ctx, clientID)
	}
	return f.Backend.SetAccess(ctx, clientID, accessToken, expiresAtMs)
}

type testFixture struct {
	clock    *testClock
	cfg      config.Tokens
	issuer   *countingIssuer
	verifier *token.Verifier
	backend  *failingBackend
	store    *sessions.KeyedStore
	metrics  *sessions.Metrics
	manager  *sessions.Manager
}

func setupTestFixture(t *testing.T, options ...sessions.ManagerOption) *testFixture {
	t.Helper()
	cfg, err := config.NewTokens("HS256", []byte("manager-test-secret"), time.Hour, 30*24*time.Hour, 30*time.Second)
	require.NoError(t, err)

	f := &testFixture{
		clock:   &testClock{now: time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)},
		cfg:     cfg,
		backend: &failingBackend{Backend: sessions.NewMemoryBackend()},
		metrics: sessions.NewMetrics(nil),
	}
	f.issuer = &countingIssuer{Issuer: token.NewIssuer(cfg, token.WithIssuerNowFunc(f.clock.Now))}
	f.verifier = token.NewVerifier(cfg, token.WithVerifierNowFunc(f.clock.Now))
	f.store = sessions.NewKeyedStore(f.backend)

	options = append([]sessions.ManagerOption{
		sessions.WithNowFunc(f.clock.Now),
		sessions.WithMetrics(f.metrics),
	}, options...)
	f.manager = sessions.NewManager(f.store, f.issuer, f.verifier, options...)
	return f
}

func testUser() token.UserIdentity {
	name := "grace"
	avatar := "https://example.com/grace.png"
	return token.UserIdentity{SubjectID: "u-42", Email: "grace@example.com", DisplayName: &name, AvatarURL: &avatar}
}

func TestStart(t *testing.T) {
	f := setupTestFixture(t, sessions.WithClientIDFunc(func() string { return "client-1" }))
	ctx := context.Background()

	bundle, err := f.manager.Start(ctx, testUser())
	require.NoError(t, err)
	require.Equal(t, testUser(), bundle.User)
	require.Equal(t, int64(3600), bundle.Token.ExpiresAt)
	require.Equal(t, token.TokenTypeBearer, bundle.Token.TokenType)

	record, err := f.store.FindByRefreshToken(ctx, bundle.Token.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, "u-42", record.UserID)
	require.Equal(t, "client-1", record.ClientID)
	require.Equal(t, []string{"read", "write"}, record.Scope)
	require.Equal(t, bundle.Token.AccessToken, record.AccessToken)
	require.Equal(t, f.clock.now.Add(time.Hour).UnixMilli(), record.ExpiresAt)

	t.Run("client id collision", func(t *testing.T) {
		_, err := f.manager.Start(ctx, testUser())
		require.ErrorIs(t, err, errors.ErrSessionExists)
	})

	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Counter("start", "ok")))
}

func TestRead(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	bundle, err := f.manager.Start(ctx, testUser())
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		got, err := f.manager.Read(ctx, bundle)
		require.NoError(t, err)
		require.Equal(t, "grace@example.com", got.User.Email)
	})

	t.Run("no bundle", func(t *testing.T) {
		_, err := f.manager.Read(ctx, nil)
		require.ErrorIs(t, err, errors.ErrUnauthenticated)
	})

	t.Run("expired access token", func(t *testing.T) {
		saved := f.clock.now
		f.clock.now = saved.Add(2 * time.Hour)
		defer func() { f.clock.now = saved }()
		_, err := f.manager.Read(ctx, bundle)
		require.ErrorIs(t, err, errors.ErrExpired)
	})

	t.Run("access token from another session", func(t *testing.T) {
		other, err := f.manager.Start(ctx, testUser())
		require.NoError(t, err)
		mixed := &sessions.Bundle{
			User: bundle.User,
			Token: token.TokenPair{
				AccessToken:  other.Token.AccessToken,
				RefreshToken: bundle.Token.RefreshToken,
				TokenType:    token.TokenTypeBearer,
				ExpiresAt:    bundle.Token.ExpiresAt,
			},
		}
		_, err = f.manager.Read(ctx, mixed)
		require.ErrorIs(t, err, errors.ErrInvalidCredential)
	})

	t.Run("refresh token in place of the access token", func(t *testing.T) {
		swapped := *bundle
		swapped.Token.AccessToken = bundle.Token.RefreshToken
		_, err := f.manager.Read(ctx, &swapped)
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})

	t.Run("record missing", func(t *testing.T) {
		other, err := f.manager.Start(ctx, testUser())
		require.NoError(t, err)
		ok, err := f.store.Delete(ctx, other.Token.RefreshToken)
		require.NoError(t, err)
		require.True(t, ok)
		_, err = f.manager.Read(ctx, other)
		require.ErrorIs(t, err, errors.ErrSessionRecordMissing)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a later access token and keeps the refresh token", func(t *testing.T) {
		f := setupTestFixture(t)
		bundle, err := f.manager.Start(ctx, testUser())
		require.NoError(t, err)
		oldClaims, err := f.verifier.VerifyAccess(bundle.Token.AccessToken)
		require.NoError(t, err)

		f.clock.now = f.clock.now.Add(10 * time.Minute)
		refreshed, err := f.manager.Refresh(ctx, bundle)
		require.NoError(t, err)
		require.Equal(t, bundle.Token.RefreshToken, refreshed.Token.RefreshToken)
		require.NotEqual(t, bundle.Token.AccessToken, refreshed.Token.AccessToken)
		require.Equal(t, int64(3600), refreshed.Token.ExpiresAt)
		require.Equal(t, bundle.User, refreshed.User)

		newClaims, err := f.verifier.VerifyAccess(refreshed.Token.AccessToken)
		require.NoError(t, err)
		require.True(t, newClaims.ExpiresAt.After(oldClaims.ExpiresAt.Time))
		require.Equal(t, oldClaims.ClientID, newClaims.ClientID)

		record, err := f.store.FindByRefreshToken(ctx, bundle.Token.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, refreshed.Token.AccessToken, record.AccessToken)
		require.Equal(t, f.clock.now.Add(time.Hour).UnixMilli(), record.ExpiresAt)
		require.Equal(t, 1, f.backendLen())
		require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Counter("refresh", "ok")))
	})

	t.Run("no cookie", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.manager.Refresh(ctx, nil)
		require.ErrorIs(t, err, errors.ErrUnauthenticated)
		_, err = f.manager.Refresh(ctx, &sessions.Bundle{})
		require.ErrorIs(t, err, errors.ErrUnauthenticated)
	})

	t.Run("unknown refresh token is revoked without minting", func(t *testing.T) {
		f := setupTestFixture(t)
		pair, err := f.issuer.Issuer.Issue(testUser(), "never-stored")
		require.NoError(t, err)

		_, err = f.manager.Refresh(ctx, &sessions.Bundle{User: testUser(), Token: pair})
		require.ErrorIs(t, err, errors.ErrSessionRevoked)
		require.Zero(t, f.issuer.accessCalls)
		require.Zero(t, f.issuer.issued)
		require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Counter("refresh", "revoked")))
	})

	t.Run("failed verification leaves the record untouched", func(t *testing.T) {
		f := setupTestFixture(t)
		bundle, err := f.manager.Start(ctx, testUser())
		require.NoError(t, err)
		before, err := f.store.FindByRefreshToken(ctx, bundle.Token.RefreshToken)
		require.NoError(t, err)

		f.clock.now = f.clock.now.Add(31 * 24 * time.Hour)
		_, err = f.manager.Refresh(ctx, bundle)
		require.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
		require.ErrorIs(t, err, errors.ErrExpired)
		require.Zero(t, f.issuer.accessCalls)

		after, err := f.store.FindByRefreshToken(ctx, bundle.Token.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, before, after)
	})

	t.Run("refresh token inside the skew window", func(t *testing.T) {
		f := setupTestFixture(t)
		bundle, err := f.manager.Start(ctx, testUser())
		require.NoError(t, err)

		f.clock.now = f.clock.now.Add(30*24*time.Hour + 10*time.Second)
		_, err = f.manager.Refresh(ctx, bundle)
		require.ErrorIs(t, err, errors.ErrRefreshTokenExpired)
		require.Zero(t, f.issuer.accessCalls)
	})

	t.Run("record deleted before update", func(t *testing.T) {
		f := setupTestFixture(t)
		bundle, err := f.manager.Start(ctx, testUser())
		require.NoError(t, err)

		f.backend.dropOnSet = true
		_, err = f.manager.Refresh(ctx, bundle)
		require.ErrorIs(t, err, errors.ErrSessionRecordMissing)
	})

	t.Run("storage failure on update", func(t *testing.T) {
		f := setupTestFixture(t)
		bundle, err := f.manager.Start(ctx, testUser())
		require.NoError(t, err)

		f.backend.failSetAccess = true
		_, err = f.manager.Refresh(ctx, bundle)
		require.ErrorIs(t, err, errors.ErrStorage)
		require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Counter("refresh", "storage_error")))
	})
}

func TestEnd(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps the record by default", func(t *testing.T) {
		f := setupTestFixture(t)
		bundle, err := f.manager.Start(ctx, testUser())
		require.NoError(t, err)

		require.NoError(t, f.manager.End(ctx, bundle))
		record, err := f.store.FindByRefreshToken(ctx, bundle.Token.RefreshToken)
		require.NoError(t, err)
		require.NotNil(t, record)
	})

	t.Run("revokes when configured", func(t *testing.T) {
		f := setupTestFixture(t, sessions.WithRevokeOnEnd(true))
		bundle, err := f.manager.Start(ctx, testUser())
		require.NoError(t, err)

		require.NoError(t, f.manager.End(ctx, bundle))
		record, err := f.store.FindByRefreshToken(ctx, bundle.Token.RefreshToken)
		require.NoError(t, err)
		require.Nil(t, record)

		_, err = f.manager.Refresh(ctx, bundle)
		require.ErrorIs(t, err, errors.ErrSessionRevoked)
		require.NoError(t, f.manager.End(ctx, bundle))
		require.NoError(t, f.manager.End(ctx, nil))
	})
}

func (f *testFixture) backendLen() int {
	return f.backend.Backend.(*sessions.MemoryBackend).Len()
}

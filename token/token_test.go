package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/youyuhsuan/designare/internal/config"
	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func setupTestFixture(t *testing.T) (*token.Issuer, *token.Verifier, *testClock) {
	t.Helper()
	cfg, err := config.NewTokens("HS256", testSecret, time.Hour, 30*24*time.Hour, 30*time.Second)
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	issuer := token.NewIssuer(cfg, token.WithIssuerNowFunc(clock.Now))
	verifier := token.NewVerifier(cfg, token.WithVerifierNowFunc(clock.Now))
	return issuer, verifier, clock
}

func testUser() token.UserIdentity {
	name := "ada"
	return token.UserIdentity{SubjectID: "u1", Email: "ada@example.com", DisplayName: &name}
}

func TestIssueAndVerify(t *testing.T) {
	issuer, verifier, _ := setupTestFixture(t)

	pair, err := issuer.Issue(testUser(), "c1")
	require.NoError(t, err)
	require.Equal(t, token.TokenTypeBearer, pair.TokenType)
	require.Equal(t, int64(3600), pair.ExpiresAt)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	t.Run("access claims round trip", func(t *testing.T) {
		claims, err := verifier.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "u1", claims.Subject)
		require.Equal(t, "ada@example.com", claims.Email)
		require.Equal(t, "c1", claims.ClientID)
		require.Equal(t, token.KindAccess, claims.Kind)
		require.Equal(t, token.ClaimsVersion, claims.Version)
		require.NotNil(t, claims.Username)
		require.Equal(t, "ada", *claims.Username)
		require.Nil(t, claims.AvatarURL)
		require.Equal(t, testUser(), claims.User())
	})

	t.Run("refresh claims round trip", func(t *testing.T) {
		claims, err := verifier.VerifyRefresh(pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, "u1", claims.Subject)
		require.Equal(t, "c1", claims.ClientID)
		require.Equal(t, token.KindRefresh, claims.Kind)
	})

	t.Run("peek client id", func(t *testing.T) {
		clientID, err := token.PeekClientID(pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, "c1", clientID)

		_, err = token.PeekClientID("not-a-jwt")
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})
}

func TestClockSkew(t *testing.T) {
	issuer, verifier, clock := setupTestFixture(t)
	pair, err := issuer.Issue(testUser(), "c1")
	require.NoError(t, err)
	issuedAt := clock.now

	t.Run("within skew", func(t *testing.T) {
		clock.now = issuedAt.Add(time.Hour + 29*time.Second)
		_, err := verifier.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
	})

	t.Run("past skew", func(t *testing.T) {
		clock.now = issuedAt.Add(time.Hour + 31*time.Second)
		_, err := verifier.VerifyAccess(pair.AccessToken)
		require.ErrorIs(t, err, errors.ErrExpired)
	})

	t.Run("refresh still valid after access expiry", func(t *testing.T) {
		clock.now = issuedAt.Add(2 * time.Hour)
		_, err := verifier.VerifyRefresh(pair.RefreshToken)
		require.NoError(t, err)
	})
}

func TestVerifyRejects(t *testing.T) {
	issuer, verifier, clock := setupTestFixture(t)
	pair, err := issuer.Issue(testUser(), "c1")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		cfg, err := config.NewTokens("HS256", []byte("another-secret"), time.Hour, 2*time.Hour, 0)
		require.NoError(t, err)
		other := token.NewVerifier(cfg, token.WithVerifierNowFunc(clock.Now))
		_, err = other.VerifyAccess(pair.AccessToken)
		require.ErrorIs(t, err, errors.ErrInvalidSignature)
		require.ErrorIs(t, err, errors.ErrInvalidCredential)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub":      "u1",
			"clientId": "c1",
			"ver":      token.ClaimsVersion,
			"iat":      clock.now.Unix(),
			"exp":      clock.now.Add(time.Hour).Unix(),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
		require.NoError(t, err)
		_, err = verifier.VerifyAccess(raw)
		require.ErrorIs(t, err, errors.ErrInvalidSignature)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": "u1", "clientId": "c1", "ver": 1, "exp": clock.now.Add(time.Hour).Unix()}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = verifier.VerifyAccess(raw)
		require.ErrorIs(t, err, errors.ErrInvalidCredential)
	})

	t.Run("missing client id", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "u1",
			"ver": token.ClaimsVersion,
			"iat": clock.now.Unix(),
			"exp": clock.now.Add(time.Hour).Unix(),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)
		_, err = verifier.VerifyAccess(raw)
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": "u1", "clientId": "c1", "ver": token.ClaimsVersion}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)
		_, err = verifier.VerifyAccess(raw)
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := verifier.VerifyAccess(pair.RefreshToken)
		require.ErrorIs(t, err, errors.ErrMalformedPayload)

		// Still refused once the access lifetime is long gone.
		clock.now = clock.now.Add(10 * 24 * time.Hour)
		defer func() { clock.now = clock.now.Add(-10 * 24 * time.Hour) }()
		_, err = verifier.VerifyRefresh(pair.RefreshToken)
		require.NoError(t, err)
		_, err = verifier.VerifyAccess(pair.RefreshToken)
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := verifier.VerifyRefresh(pair.AccessToken)
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})

	t.Run("missing token kind", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub":      "u1",
			"email":    "ada@example.com",
			"clientId": "c1",
			"ver":      token.ClaimsVersion,
			"iat":      clock.now.Unix(),
			"exp":      clock.now.Add(time.Hour).Unix(),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)
		_, err = verifier.VerifyAccess(raw)
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
		_, err = verifier.VerifyRefresh(raw)
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})

	t.Run("access token without email", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub":      "u1",
			"clientId": "c1",
			"typ":      token.KindAccess,
			"ver":      token.ClaimsVersion,
			"iat":      clock.now.Unix(),
			"exp":      clock.now.Add(time.Hour).Unix(),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)
		_, err = verifier.VerifyAccess(raw)
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.VerifyAccess("abc.def.ghi")
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
		_, err = verifier.VerifyRefresh("")
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})
}

func TestIssueErrors(t *testing.T) {
	cfg, err := config.NewTokens("HS256", testSecret, time.Hour, 2*time.Hour, 0)
	require.NoError(t, err)

	t.Run("empty signing key", func(t *testing.T) {
		issuer := token.NewIssuer(cfg, token.WithSigner(token.NewHMACSigner(jwt.SigningMethodHS256, nil)))
		_, err := issuer.Issue(testUser(), "c1")
		require.ErrorIs(t, err, errors.ErrSigning)
	})

	t.Run("missing subject", func(t *testing.T) {
		issuer := token.NewIssuer(cfg)
		_, err := issuer.Issue(token.UserIdentity{Email: "x@example.com"}, "c1")
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})

	t.Run("missing email", func(t *testing.T) {
		issuer := token.NewIssuer(cfg)
		_, err := issuer.Issue(token.UserIdentity{SubjectID: "u1"}, "c1")
		require.ErrorIs(t, err, errors.ErrMalformedPayload)
	})

	t.Run("issue access only", func(t *testing.T) {
		issuer := token.NewIssuer(cfg)
		raw, err := issuer.IssueAccess(testUser(), "c1")
		require.NoError(t, err)
		claims, err := token.NewVerifier(cfg).VerifyAccess(raw)
		require.NoError(t, err)
		require.Equal(t, "c1", claims.ClientID)
	})
}

package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/token"
	"github.com/youyuhsuan/designare/users"
)

// DefaultResetInterval is the minimum gap between two reset requests for one account.
const DefaultResetInterval = time.Minute

// ResetNotifier delivers a password reset to the account owner.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, user *users.User) error
}

// logNotifier only records the request. It is the default until a mailer is configured.
type logNotifier struct{}

func (logNotifier) NotifyPasswordReset(_ context.Context, user *users.User) error {
	log.Info().Str("userId", user.ID).Msg("password reset requested")
	return nil
}

var _ Provider = (*LocalProvider)(nil)

// LocalProvider authenticates against bcrypt hashed passwords held in a users.UserRepo.
type LocalProvider struct {
	repo          users.UserRepo
	notifier      ResetNotifier
	resetInterval time.Duration
	nowFunc       func() time.Time
}

type LocalOption func(*LocalProvider)

func WithResetNotifier(n ResetNotifier) LocalOption {
	return func(p *LocalProvider) {
		p.notifier = n
	}
}

func WithResetInterval(d time.Duration) LocalOption {
	return func(p *LocalProvider) {
		p.resetInterval = d
	}
}

func WithLocalNowFunc(now func() time.Time) LocalOption {
	return func(p *LocalProvider) {
		p.nowFunc = now
	}
}

func NewLocalProvider(repo users.UserRepo, options ...LocalOption) *LocalProvider {
	p := &LocalProvider{
		repo:          repo,
		notifier:      logNotifier{},
		resetInterval: DefaultResetInterval,
		nowFunc:       time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) (token.UserIdentity, error) {
	email = users.NormalizeEmail(email)
	if err := users.ValidateEmail(email); err != nil {
		return token.UserIdentity{}, fmt.Errorf("%w: %w", errors.ErrInvalidPassword, err)
	}
	user, err := p.repo.GetByEmail(ctx, email)
	if err != nil {
		return token.UserIdentity{}, err
	}
	if user == nil {
		return token.UserIdentity{}, fmt.Errorf("%w: %s", errors.ErrUserNotFound, email)
	}
	if user.PasswordHash == "" || !user.CheckPassword(password) {
		return token.UserIdentity{}, errors.ErrInvalidPassword
	}
	if user.Disabled {
		return token.UserIdentity{}, fmt.Errorf("%w: %s", errors.ErrAccountDisabled, email)
	}

	user.LastLogin = p.nowFunc()
	if err := p.repo.Update(ctx, user); err != nil {
		log.Warn().Err(err).Str("userId", user.ID).Msg("failed to record last login")
	}
	return user.Identity(), nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, username, password string) (token.UserIdentity, error) {
	email = users.NormalizeEmail(email)
	if err := users.ValidateEmail(email); err != nil {
		return token.UserIdentity{}, err
	}
	if err := users.ValidatePasswordStrength(password); err != nil {
		return token.UserIdentity{}, err
	}
	hash, err := users.HashPassword(password)
	if err != nil {
		return token.UserIdentity{}, fmt.Errorf("%w: hash password: %w", errors.ErrProviderFailure, err)
	}

	user := &users.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		DateJoined:   p.nowFunc(),
		Provider:     "password",
	}
	if err := p.repo.Create(ctx, user); err != nil {
		return token.UserIdentity{}, err
	}
	return user.Identity(), nil
}

func (p *LocalProvider) SendPasswordReset(ctx context.Context, email string) error {
	email = users.NormalizeEmail(email)
	if err := users.ValidateEmail(email); err != nil {
		return err
	}
	user, err := p.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: %s", errors.ErrUserNotFound, email)
	}

	now := p.nowFunc()
	if !user.ResetSentAt.IsZero() && now.Sub(user.ResetSentAt) < p.resetInterval {
		return errors.ErrTooManyRequests
	}
	if err := p.notifier.NotifyPasswordReset(ctx, user); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrProviderFailure, err)
	}
	user.ResetSentAt = now
	return p.repo.Update(ctx, user)
}

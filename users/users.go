package users

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/youyuhsuan/designare/internal/errors"
	"github.com/youyuhsuan/designare/internal/utils"
	"github.com/youyuhsuan/designare/token"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches the sign-up form rules.
const MinPasswordLength = 6

// User is an account held by the local identity provider.
type User struct {
	ID           string    `json:"id,omitempty" firestore:"id"`                       // Unique identifier for the user
	Email        string    `json:"email,omitempty" firestore:"email"`                 // Login email, stored lower-cased
	Username     string    `json:"username,omitempty" firestore:"username"`           // Display name
	AvatarURL    string    `json:"avatarUrl,omitempty" firestore:"avatar_url"`        // Optional avatar url
	PasswordHash string    `json:"-" firestore:"password_hash"`                       // bcrypt hash - never serialize to clients
	DateJoined   time.Time `json:"date_joined,omitempty" firestore:"date_joined"`     // Date and time when the user registered
	LastLogin    time.Time `json:"last_login,omitempty" firestore:"last_login"`       // Last time the user logged in
	Disabled     bool      `json:"disabled,omitempty" firestore:"disabled"`           // Disabled accounts cannot sign in
	ResetSentAt  time.Time `json:"reset_sent_at,omitempty" firestore:"reset_sent_at"` // Last password reset request
	Provider     string    `json:"provider,omitempty" firestore:"provider"`           // "password" or the third-party issuer
}

// Identity is the canonical identity carried in session tokens.
func (u *User) Identity() token.UserIdentity {
	return token.UserIdentity{
		SubjectID:   u.ID,
		Email:       u.Email,
		DisplayName: utils.OptionalString(u.Username),
		AvatarURL:   utils.OptionalString(u.AvatarURL),
	}
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail accepts a bare address such as "ada@example.com".
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: %q", errors.ErrInvalidEmail, email)
	}
	return nil
}

// ValidatePasswordStrength checks the password is at least MinPasswordLength characters.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", errors.ErrWeakPassword, MinPasswordLength)
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

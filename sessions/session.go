package sessions

import (
	"github.com/youyuhsuan/designare/token"
)

// DefaultScope is granted to every session created at login.
var DefaultScope = []string{"read", "write"}

// Bundle is the client-held half of a session. It travels as JSON in the
// session cookie and in the session read and refresh responses.
type Bundle struct {
	User  token.UserIdentity `json:"user"`
	Token token.TokenPair    `json:"token"`
}

// StoredSessionRecord is the server-held half of a session. Exactly one record
// exists per (UserID, ClientID); refresh mutates AccessToken and ExpiresAt only.
type StoredSessionRecord struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	UserID       string   `json:"userId"`
	ClientID     string   `json:"clientId"`
	Scope        []string `json:"scope"`
	ExpiresAt    int64    `json:"expiresAt"` // Absolute epoch milliseconds of the access token expiry
}

func (r *StoredSessionRecord) clone() *StoredSessionRecord {
	c := *r
	c.Scope = append([]string(nil), r.Scope...)
	return &c
}

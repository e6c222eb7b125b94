package config

import "time"

const DefaultCookieMaxAge = 7 * 24 * time.Hour

type Cookies struct {
	maxAge         time.Duration
	secure         bool
	revokeOnLogout bool
}

var _ CookieConfig = Cookies{}

// NewCookies is used by tests and by Load.
func NewCookies(maxAge time.Duration, secure, revokeOnLogout bool) Cookies {
	if maxAge <= 0 {
		maxAge = DefaultCookieMaxAge
	}
	return Cookies{maxAge: maxAge, secure: secure, revokeOnLogout: revokeOnLogout}
}

func loadCookies() Cookies {
	maxAge, err := GetEnvSeconds("COOKIE_MAX_AGE", DefaultCookieMaxAge)
	if err != nil {
		maxAge = DefaultCookieMaxAge
	}
	return NewCookies(maxAge, GetEnvBool("COOKIE_SECURE", false), GetEnvBool("REVOKE_ON_LOGOUT", false))
}

func (c Cookies) GetCookieMaxAge() time.Duration {
	return c.maxAge
}

// GetCookieSecure is always true in production.
func (c Cookies) GetCookieSecure() bool {
	return c.secure
}

// GetRevokeOnLogout reports whether logout deletes the stored session record
// in addition to clearing the cookie.
func (c Cookies) GetRevokeOnLogout() bool {
	return c.revokeOnLogout
}

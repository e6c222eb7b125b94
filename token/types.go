package token

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "Bearer"

// UserIdentity is the canonical user record produced by the identity provider.
// The json names match the user object carried in the session cookie.
type UserIdentity struct {
	SubjectID   string  `json:"sub"`                 // Provider-assigned stable id
	Email       string  `json:"email"`               // Primary email
	DisplayName *string `json:"username"`            // Display name, may be null
	AvatarURL   *string `json:"avatarUrl,omitempty"` // Avatar url, may be null
}

// TokenPair is returned to the client after login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType"`
	// ExpiresAt is the access token lifetime in seconds counted from issue.
	ExpiresAt int64 `json:"expiresAt"`
}

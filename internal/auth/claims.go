package auth

import "time"

// AccessClaims represents the claims embedded in an access token.
type AccessClaims struct {
	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`

	// Custom claims
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
}

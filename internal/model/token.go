package model

import "time"

// TokenType is the "typ" claim that separates access from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPayload is a decoded token.
type TokenPayload struct {
	Subject   string
	Type      TokenType
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenManager encodes and decodes signed, expiring tokens.
type TokenManager interface {
	IssueAccess(userID string) (string, error)
	// IssueRefresh signs a refresh token. An empty jti is replaced with a new random UUID.
	IssueRefresh(userID string, jti string) (token string, tokenID string, expiresAt time.Time, err error)
	// Decode verifies signature and expiry and checks the token type.
	Decode(token string, expected TokenType) (TokenPayload, error)
}

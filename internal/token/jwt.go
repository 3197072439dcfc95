package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/model"
)

var _ model.TokenManager = (*JWT)(nil)

// Config holds immutable signing parameters.
type Config struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims represents JWT claims with token type.
type Claims struct {
	jwt.RegisteredClaims
	TokenType model.TokenType `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey  []byte
	method     *jwt.SigningMethodHMAC
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option configures JWT.
type Option func(*JWT)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// NewJWT creates a new JWT token manager from cfg.
func NewJWT(cfg Config, opts ...Option) (*JWT, error) {
	var method *jwt.SigningMethodHMAC
	switch cfg.Algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.Secret == "" {
		return nil, errors.New("signing secret is empty")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	j := &JWT{
		secretKey:  []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	return j, nil
}

// IssueAccess creates a short-lived access token for userID.
func (j *JWT) IssueAccess(userID string) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(j.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
		},
		TokenType: model.TokenTypeAccess,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// IssueRefresh creates a long-lived refresh token and returns its JTI and expiry.
func (j *JWT) IssueRefresh(userID string, jti string) (string, string, time.Time, error) {
	if jti == "" {
		jti = uuid.NewString()
	}

	now := j.now()
	expiresAt := jwt.NewNumericDate(now.Add(j.refreshTTL))
	token := jwt.NewWithClaims(j.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expiresAt,
		},
		TokenType: model.TokenTypeRefresh,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, jti, expiresAt.Time, nil
}

// Decode verifies the signature and expiry of tokenString and checks its type.
func (j *JWT) Decode(tokenString string, expected model.TokenType) (model.TokenPayload, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenPayload{}, fmt.Errorf("failed to parse %s token: %w", expected, model.ErrTokenExpired)
		}
		return model.TokenPayload{}, fmt.Errorf("failed to parse %s token: %w: %v", expected, model.ErrTokenInvalid, err)
	}

	if claims.TokenType != expected {
		return model.TokenPayload{}, fmt.Errorf("%w: got %q, want %q", model.ErrWrongTokenType, claims.TokenType, expected)
	}

	payload := model.TokenPayload{
		Subject: claims.Subject,
		Type:    claims.TokenType,
		JTI:     claims.ID,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		payload.ExpiresAt = claims.ExpiresAt.Time
	}

	return payload, nil
}

// Package auth verifies the bearer tokens minted by the identity provider.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"coursegate/internal/domain/entitlement"
)

// ViewerClaims is the session token payload. The subject is the user ID.
type ViewerClaims struct {
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	jwt.RegisteredClaims
}

func (c *ViewerClaims) Viewer() entitlement.Viewer {
	return entitlement.Viewer{
		ID:          c.Subject,
		Email:       c.Email,
		Roles:       c.Roles,
		PhoneNumber: c.PhoneNumber,
	}
}

// JWTService checks HS256 tokens against the shared secret. Issue exists for
// tooling and tests; production tokens come from the identity provider.
type JWTService struct {
	secret []byte
	issuer string
}

func NewJWTService(secret, issuer string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

func (s *JWTService) Verify(tokenString string) (*ViewerClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &ViewerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*ViewerClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

func (s *JWTService) Issue(viewer entitlement.Viewer, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &ViewerClaims{
		Email:       viewer.Email,
		Roles:       viewer.Roles,
		PhoneNumber: viewer.PhoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   viewer.ID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

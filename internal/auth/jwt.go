package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is the token payload the identity provider issues.
type UserClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 tokens issued by the identity provider.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier builds a verifier for the shared signing secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: claims.Subject, Email: claims.Email}, nil
}

// IssueToken signs a token for an identity. Exposed for local development and
// integration tests; a production deployment uses the provider's own issuer.
func (v *JWTVerifier) IssueToken(identity Identity, expiresIn time.Duration) (string, error) {
	claims := UserClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

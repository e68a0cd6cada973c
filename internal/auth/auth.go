// Package auth defines the boundary to the external identity provider. The
// engine never implements sign-up or sign-in; it only verifies presented
// credentials and carries the resulting identity through request context.
package auth

import (
	"context"
	"errors"
)

// Identity is the authenticated principal a token resolves to. The ID is the
// opaque stable identifier every stored record is scoped to.
type Identity struct {
	ID    string
	Email string
}

// ErrInvalidToken is returned when a credential cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// Verifier resolves a bearer credential to an identity. Implementations are
// injected at construction so tests can substitute fakes; there is no
// process-wide singleton.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

package auth

import "context"

// StaticVerifier maps fixed tokens to identities. Used in tests and local
// development where no identity provider is running.
type StaticVerifier struct {
	tokens map[string]Identity
}

// NewStaticVerifier builds a verifier from a token→identity table.
func NewStaticVerifier(tokens map[string]Identity) *StaticVerifier {
	return &StaticVerifier{tokens: tokens}
}

func (v *StaticVerifier) Verify(_ context.Context, token string) (Identity, error) {
	identity, ok := v.tokens[token]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return identity, nil
}

// Package auth verifies the bearer tokens attached to feedback submissions.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SigningKeySource supplies the HMAC key used to verify feedback tokens.
// Implemented by secrets.Manager.
type SigningKeySource interface {
	GetSigningKey(ctx context.Context, secretName string) ([]byte, error)
}

// Verifier validates HS256 bearer tokens and extracts the subject
type Verifier struct {
	keys       SigningKeySource
	secretName string
}

// NewVerifier creates a new token verifier instance
func NewVerifier(keys SigningKeySource, secretName string) *Verifier {
	return &Verifier{
		keys:       keys,
		secretName: secretName,
	}
}

// Verify checks the token signature and expiry and returns the subject claim
func (v *Verifier) Verify(ctx context.Context, tokenString string) (string, error) {
	key, err := v.keys.GetSigningKey(ctx, v.secretName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve signing key: %w", err)
	}

	token, err := jwt.Parse(tokenString,
		func(*jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("token has no subject claim")
	}

	return subject, nil
}

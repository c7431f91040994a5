package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type staticKeySource struct {
	key []byte
	err error
}

func (s *staticKeySource) GetSigningKey(context.Context, string) ([]byte, error) {
	return s.key, s.err
}

func signToken(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerify(t *testing.T) {
	key := []byte("test-signing-key")
	verifier := NewVerifier(&staticKeySource{key: key}, "secret-name")

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, key, jwt.MapClaims{
			"sub": "user-42",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		subject, err := verifier.Verify(context.Background(), token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if subject != "user-42" {
			t.Errorf("subject = %q, want user-42", subject)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, key, jwt.MapClaims{
			"sub": "user-42",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		if _, err := verifier.Verify(context.Background(), token); err == nil {
			t.Error("Verify() accepted an expired token")
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		token := signToken(t, []byte("other-key"), jwt.MapClaims{"sub": "user-42"})

		if _, err := verifier.Verify(context.Background(), token); err == nil {
			t.Error("Verify() accepted a token signed with the wrong key")
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		token := signToken(t, key, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		if _, err := verifier.Verify(context.Background(), token); err == nil {
			t.Error("Verify() accepted a token without a subject")
		}
	})

	t.Run("alg none is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-42"})
		unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign token: %v", err)
		}

		if _, err := verifier.Verify(context.Background(), unsigned); err == nil {
			t.Error("Verify() accepted an unsigned token")
		}
	})
}

func TestVerify_KeySourceFailure(t *testing.T) {
	verifier := NewVerifier(&staticKeySource{err: fmt.Errorf("secret unavailable")}, "secret-name")

	if _, err := verifier.Verify(context.Background(), "whatever"); err == nil {
		t.Error("Verify() error = nil, want key resolution failure")
	}
}

package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

var testNow = time.Date(2026, 6, 14, 12, 0, 0, 0, time.UTC)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, c claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, c).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestVerify(t *testing.T) {
	t.Parallel()

	verifier := NewVerifier(testSecret, func() time.Time { return testNow })
	token := signToken(t, testSecret, jwt.SigningMethodHS256, claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
		},
	})

	principal, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if principal.UserID != "u1" || principal.Username != "alice" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
}

func TestVerifyRejections(t *testing.T) {
	t.Parallel()

	verifier := NewVerifier(testSecret, func() time.Time { return testNow })
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()
		if _, err := verifier.Verify(ctx, "  "); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, "other-secret", jwt.SigningMethodHS256, claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
			},
		})
		if _, err := verifier.Verify(ctx, token); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, testSecret, jwt.SigningMethodHS256, claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				ExpiresAt: jwt.NewNumericDate(testNow.Add(-time.Minute)),
			},
		})
		if _, err := verifier.Verify(ctx, token); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, testSecret, jwt.SigningMethodHS256, claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
			},
		})
		if _, err := verifier.Verify(ctx, token); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, testSecret, jwt.SigningMethodHS384, claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u1",
				ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
			},
		})
		if _, err := verifier.Verify(ctx, token); err == nil {
			t.Fatal("expected error")
		}
	})
}

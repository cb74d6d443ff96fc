package jwtauth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kickpredict/api/internal/domain/user"
)

// Verifier validates HS256 bearer tokens and extracts the caller identity.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string, now func() time.Time) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{
		secret: []byte(secret),
		now:    now,
	}
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (v *Verifier) Verify(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("empty token")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)

	var parsed claims
	if _, err := parser.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}); err != nil {
		return user.Principal{}, fmt.Errorf("parse token: %w", err)
	}

	userID := strings.TrimSpace(parsed.Subject)
	if userID == "" {
		return user.Principal{}, fmt.Errorf("token has no subject")
	}

	return user.Principal{
		UserID:   userID,
		Username: parsed.Username,
	}, nil
}

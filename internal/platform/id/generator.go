package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs for rows the platform hands out to clients.
type Generator interface {
	NewID() (string, error)
}

const (
	// idPrefix separates platform-issued IDs from feed-derived match IDs
	// ("fd-...") in logs and URLs.
	idPrefix      = "kp_"
	idRandomBytes = 12
)

// RandomGenerator issues prefixed random IDs, 96 bits of entropy each.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, idRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return idPrefix + hex.EncodeToString(buf), nil
}

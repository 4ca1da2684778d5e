package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Random produces verification codes and reset tokens.
type Random interface {
	// Digits returns n decimal digits, leading zeros allowed.
	Digits(n int) (string, error)
	// Token returns nBytes of randomness, hex encoded.
	Token(nBytes int) (string, error)
}

// CryptoRandom draws from crypto/rand.
type CryptoRandom struct{}

func (CryptoRandom) Digits(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to read random digits: %w", err)
	}
	return fmt.Sprintf("%0*d", n, v), nil
}

func (CryptoRandom) Token(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

package rpc

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for admin token hashing.
const (
	argon2Time        = 3
	argon2Memory      = 64 * 1024 // 64 MB
	argon2Parallelism = 4
	argon2KeyLen      = 32

	tokenSaltLen = 16
)

// TokenAuth verifies admin bearer tokens against a stored argon2id digest.
// The token itself is never kept; only hash and salt live in config.
type TokenAuth struct {
	hash []byte
	salt []byte
}

// NewTokenAuth builds a TokenAuth from the hex hash and salt pair in the
// daemon configuration.
func NewTokenAuth(hashHex, saltHex string) (*TokenAuth, error) {
	hash, err := hex.DecodeString(hashHex)
	if err != nil {
		return nil, fmt.Errorf("rpc: decode token hash: %w", err)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("rpc: decode token salt: %w", err)
	}
	if len(hash) != argon2KeyLen {
		return nil, fmt.Errorf("rpc: token hash must be %d bytes, got %d", argon2KeyLen, len(hash))
	}
	return &TokenAuth{hash: hash, salt: salt}, nil
}

// HashToken derives the argon2id digest of token under salt.
func HashToken(token string, salt []byte) []byte {
	return argon2.IDKey([]byte(token), salt, argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)
}

// NewTokenSalt returns a fresh random salt for token hashing.
func NewTokenSalt() ([]byte, error) {
	salt := make([]byte, tokenSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("rpc: generate salt: %w", err)
	}
	return salt, nil
}

// Verify reports whether the presented token matches the stored digest,
// in constant time.
func (a *TokenAuth) Verify(token string) bool {
	got := HashToken(token, a.salt)
	return subtle.ConstantTimeCompare(got, a.hash) == 1
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	return strings.TrimPrefix(h, prefix), true
}

package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. N, r and p match Node's crypto.scrypt defaults so
// hashes are interchangeable with the previous deployment.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltBytes    = 16
)

// HashPassword derives a key with a fresh random salt and returns "saltHex:keyHex".
// The hex-encoded salt string itself is the KDF salt.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	_, err := rand.Read(salt)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	key, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return saltHex + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether password matches a HashPassword result.
// Malformed stored values never match.
func VerifyPassword(password, stored string) bool {
	saltHex, keyHex, ok := strings.Cut(stored, ":")
	if !ok || saltHex == "" || keyHex == "" {
		return false
	}

	want, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}

	got, err := scrypt.Key([]byte(password), []byte(saltHex), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil || len(got) != len(want) {
		return false
	}

	return subtle.ConstantTimeCompare(got, want) == 1
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

package identity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

const (
	HasherSHA256 = "sha256"
	HasherBcrypt = "bcrypt"

	legacyPrefix = "fallback_"
)

// Hasher produces password hashes for new or upgraded accounts.
type Hasher interface {
	Hash(password string) (string, error)
}

// NewHasher returns the hasher registered under name. An unknown name is an error so a
// misconfigured deployment fails at startup instead of storing weak hashes.
func NewHasher(name string, bcryptCost int) (Hasher, error) {
	switch name {
	case HasherSHA256, "":
		return SHA256Hasher{}, nil
	case HasherBcrypt:
		if bcryptCost == 0 {
			bcryptCost = bcrypt.DefaultCost
		}

		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}

		return BcryptHasher{Cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// SHA256Hasher hex-encodes the SHA-256 digest of the UTF-8 password bytes.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}

// verifyPassword checks password against any stored hash format. weak reports that the stored
// hash uses the legacy rolling-hash scheme and must be replaced.
func verifyPassword(stored, password string) (ok, weak bool) {
	switch {
	case strings.HasPrefix(stored, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	case strings.HasPrefix(stored, legacyPrefix):
		return constantTimeEqual(stored, legacyHash(password)), true
	default:
		candidate, _ := SHA256Hasher{}.Hash(password)
		return constantTimeEqual(stored, candidate), false
	}
}

// legacyHash reproduces the non-cryptographic fallback older clients stored when no digest
// primitive was available: a 31-multiplier rolling hash over UTF-16 code units plus the length.
// It is only ever used to verify existing accounts.
func legacyHash(password string) string {
	units := utf16.Encode([]rune(password))

	var h int32
	for _, u := range units {
		h = 31*h + int32(u)
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}

	return legacyPrefix + strconv.FormatInt(abs, 16) + "_" + strconv.Itoa(len(units))
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

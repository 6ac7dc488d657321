// Package identity registers and authenticates local users and keeps the active session record.
package identity

import (
	"strings"
	"unicode/utf16"
)

const (
	UsersKey   = "stash_users"
	SessionKey = "stash_session"
)

// MinPasswordLength is counted in UTF-16 code units, so a character outside the BMP counts twice.
const MinPasswordLength = 6

// User is a registered account. Email is the normalized, unique key.
type User struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash"`
}

// Session identifies the active user.
type Session struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NormalizeEmail trims and lowercases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PasswordLength returns the length of password in UTF-16 code units.
func PasswordLength(password string) int {
	return len(utf16.Encode([]rune(password)))
}

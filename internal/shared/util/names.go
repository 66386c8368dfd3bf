package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// SanitizeFileName reduces a client-supplied filename to a storage-safe
// form: any character outside [A-Za-z0-9._-] becomes an underscore. Path
// separators and other hostile characters therefore cannot survive into a
// storage key.
func SanitizeFileName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "file"
	}
	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if strings.Trim(out, "._-") == "" {
		return "file"
	}
	return out
}

// HashUserKey returns a stable, filesystem- and URL-safe namespace for a
// user ID. Raw IDs can contain separators (e.g. "guest:abc") that must not
// leak into storage paths.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}

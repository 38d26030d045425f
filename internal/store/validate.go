package store

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest record name accepted, in characters.
const MaxNameLength = 100

var (
	ErrNameEmpty   = errors.New("name must not be empty")
	ErrNameBlocked = errors.New("name contains blocked words")
	ErrNameTooLong = fmt.Errorf("name limit is %d characters", MaxNameLength)

	// blockedTokens would let a record be triggered as a broadcast mention.
	blockedTokens = []string{"@everyone", "@here"}
)

// NormalizeName trims surrounding whitespace and lowercases name. Every
// lookup and write goes through it, so names are case-insensitive.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateName checks a normalized name before it is created.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	for _, tok := range blockedTokens {
		if strings.Contains(name, tok) {
			return fmt.Errorf("%w: %q", ErrNameBlocked, tok)
		}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

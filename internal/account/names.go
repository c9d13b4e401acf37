// internal/account/names.go
//
// Screen name and password rules.
//
// Screen names: 2-20 characters, no profanity, no character repeated three
// times in a row, letters/digits/spaces/.-_ only. Checked in that order.

package account

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	goaway "github.com/TwiN/go-away"
)

// Screen name and password rule violations. The messages are shown to players.
var (
	ErrNameTooShort   = errors.New("Screen name must be at least 2 characters long.")
	ErrNameTooLong    = errors.New("Screen name cannot be longer than 20 characters.")
	ErrNameProfane    = errors.New("Please choose an appropriate screen name.")
	ErrNameRepeats    = errors.New("Screen name contains too many repeated characters.")
	ErrNameCharacters = errors.New("Screen name can only contain letters, numbers, spaces, and basic punctuation.")
	ErrPasswordLength = errors.New("Password must be 8-100 characters.")
)

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateScreenName applies the screen name rules in order:
// length, profanity, repeated characters, allowed characters.
func ValidateScreenName(name string) error {
	switch n := utf8.RuneCountInString(name); {
	case n < 2 || utf8.RuneCountInString(strings.TrimSpace(name)) < 2:
		return ErrNameTooShort
	case n > 20:
		return ErrNameTooLong
	}
	if goaway.IsProfane(name) {
		return ErrNameProfane
	}
	if hasTripleRun(name) {
		return ErrNameRepeats
	}
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune(".-_", r)) {
			return ErrNameCharacters
		}
	}
	return nil
}

// ValidatePassword enforces the password length bounds.
func ValidatePassword(p string) error {
	if len(p) < 8 || len(p) > 100 {
		return ErrPasswordLength
	}
	return nil
}

// hasTripleRun reports three identical characters in a row.
func hasTripleRun(s string) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= 3 {
			return true
		}
	}
	return false
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ident

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// NewSessionID creates an opaque session identifier. UUIDv7 keys the id to
// wall-clock milliseconds and fills the remaining bits randomly, so ids sort
// roughly by creation time and the collision probability is negligible.
func NewSessionID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return id.String(), nil
}

// SanitizeName maps a participant name to a filename-safe form. Unicode
// letters and digits are kept (participant names may be CJK); every other
// rune becomes an underscore.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"unicode"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidVoterKey = errors.New("invalid voter key")
	ErrInvalidIdentity = errors.New("invalid identity")
)

// MaxIdentityLen bounds the length of an administrator or voter identity.
const MaxIdentityLen = 128

// GenerateAdminKey creates an HMAC-based admin key for a session
// This is deterministic and verifiable
func GenerateAdminKey(sessionID, salt string) string {
	return sign(salt, sessionID)
}

// ValidateAdminKey checks if the provided admin key is valid for the session
func ValidateAdminKey(sessionID, adminKey, salt string) error {
	if !hmac.Equal([]byte(adminKey), []byte(GenerateAdminKey(sessionID, salt))) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateVoterKey creates the key a registered voter presents with its
// identity. Keys are bound to both the session and the identity.
func GenerateVoterKey(sessionID, identity, salt string) string {
	return sign(salt, sessionID+"\x00"+identity)
}

// ValidateVoterKey checks if the provided voter key matches the identity
func ValidateVoterKey(sessionID, identity, voterKey, salt string) error {
	if identity == "" || !hmac.Equal([]byte(voterKey), []byte(GenerateVoterKey(sessionID, identity, salt))) {
		return ErrInvalidVoterKey
	}
	return nil
}

// ValidateIdentity accepts 1 to MaxIdentityLen printable characters
// without whitespace.
func ValidateIdentity(identity string) error {
	if identity == "" || len(identity) > MaxIdentityLen {
		return ErrInvalidIdentity
	}
	for _, r := range identity {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return ErrInvalidIdentity
		}
	}
	return nil
}

func sign(salt, message string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(message))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

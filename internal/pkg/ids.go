package pkg

import (
	"crypto/rand"

	"github.com/google/uuid"
)

const (
	inviteCodeLength   = 6
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateGameID returns an opaque unique session id.
func GenerateGameID() string {
	return "game_" + uuid.NewString()
}

// GenerateInviteCode returns a short upper-case token suitable for sharing
// out of band. Ambiguous characters (0/O, 1/I) are left out of the alphabet.
func GenerateInviteCode() string {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// uuid-derived code rather than return an error nobody can act on.
		id := uuid.NewString()
		return id[:inviteCodeLength]
	}

	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}

	return string(buf)
}

package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// inviteAlphabet leaves out 0/O, 1/I/L so codes survive being read aloud.
const inviteAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateInviteCode returns a shareable join code such as "7KQX-M2RT-9FHB".
func GenerateInviteCode() (string, error) {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	var code strings.Builder
	for i, b := range raw {
		if i > 0 && i%4 == 0 {
			code.WriteByte('-')
		}
		code.WriteByte(inviteAlphabet[int(b)%len(inviteAlphabet)])
	}
	return code.String(), nil
}

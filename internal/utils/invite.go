package utils

import "crypto/rand"

const inviteCodeLength = 6

// Unambiguous upper-case alphanumerics (no O/0, I/1)
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInviteCode returns a random 6-character group invite code.
// Uniqueness is enforced by the invite_code unique index; callers retry on
// conflict.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(buf), nil
}

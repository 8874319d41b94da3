package utils

import (
	"strings"
	"testing"
)

func TestGenerateInviteCode_Length(t *testing.T) {
	code, err := GenerateInviteCode()
	if err != nil {
		t.Fatalf("GenerateInviteCode() error = %v", err)
	}

	if len(code) != 6 {
		t.Errorf("code length = %d, expected 6", len(code))
	}
}

func TestGenerateInviteCode_Alphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateInviteCode()
		if err != nil {
			t.Fatalf("GenerateInviteCode() error = %v", err)
		}
		for _, ch := range code {
			if !strings.ContainsRune(inviteCodeAlphabet, ch) {
				t.Errorf("code %q contains character %q outside the alphabet", code, ch)
			}
		}
	}
}

func TestGenerateInviteCode_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, _ := GenerateInviteCode()
		seen[code] = true
	}

	// 50 draws from a 32^6 space colliding down to a single value would
	// indicate a broken RNG.
	if len(seen) < 2 {
		t.Error("generated codes do not vary")
	}
}

package password

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestVerifierArgon2(t *testing.T) {
	v := NewVerifier()
	hash, err := v.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if ok, err := v.Verify("correct horse battery", hash); err != nil || !ok {
		t.Fatalf("expected match: ok=%v err=%v", ok, err)
	}
	if ok, err := v.Verify("wrong horse battery", hash); err != nil || ok {
		t.Fatalf("expected mismatch: ok=%v err=%v", ok, err)
	}
	if v.NeedsUpgrade(hash) {
		t.Fatal("fresh argon2 hash must not need upgrade")
	}
}

func TestVerifierBcrypt(t *testing.T) {
	raw, err := bcrypt.GenerateFromPassword([]byte("legacy-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	hash := string(raw)
	v := NewVerifier()

	if ok, err := v.Verify("legacy-password", hash); err != nil || !ok {
		t.Fatalf("expected bcrypt match: ok=%v err=%v", ok, err)
	}
	if ok, err := v.Verify("other-password", hash); err != nil || ok {
		t.Fatalf("expected bcrypt mismatch: ok=%v err=%v", ok, err)
	}
	if !v.NeedsUpgrade(hash) {
		t.Fatal("bcrypt hash must be flagged for upgrade")
	}
}

func TestVerifierUnknownScheme(t *testing.T) {
	v := NewVerifier()
	for _, h := range []string{"", "plaintext", "$pbkdf2$abc"} {
		if _, err := v.Verify("whatever-pass", h); !errors.Is(err, ErrUnsupportedHash) {
			t.Fatalf("%q: expected ErrUnsupportedHash, got %v", h, err)
		}
	}
}

func TestVerifierCorruptBcrypt(t *testing.T) {
	v := NewVerifier()
	if _, err := v.Verify("whatever-pass", "$2a$10$short"); !errors.Is(err, ErrMalformedHash) {
		t.Fatalf("expected ErrMalformedHash, got %v", err)
	}
}

package security_test

import (
	"testing"

	"github.com/geocoder89/taskhub/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("secret1")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "secret1" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if err := security.CheckPassword(hash, "secret1"); err != nil {
		t.Fatalf("expected password to verify against its own hash: %v", err)
	}

	if err := security.CheckPassword(hash, "not-the-password"); err == nil {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := security.HashPassword("secret1")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	second, err := security.HashPassword("secret1")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if first == second {
		t.Fatalf("two hashes of the same password should differ (random salt)")
	}

	// both must still verify
	if err := security.CheckPassword(first, "secret1"); err != nil {
		t.Fatalf("first hash failed verification: %v", err)
	}
	if err := security.CheckPassword(second, "secret1"); err != nil {
		t.Fatalf("second hash failed verification: %v", err)
	}
}

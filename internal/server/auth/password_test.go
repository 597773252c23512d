package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "s3cret") {
		t.Fatalf("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestCheckPassword_BadHash(t *testing.T) {
	t.Parallel()

	if CheckPassword("not-a-bcrypt-hash", "anything") {
		t.Fatalf("expected failure for malformed hash")
	}
}

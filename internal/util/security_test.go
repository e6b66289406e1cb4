package util

import "testing"

func TestGenerateSalt(t *testing.T) {
	a, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generateSalt: %v", err)
	}
	b, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generateSalt: %v", err)
	}

	// 16字节hex编码后是32字符
	if len(a) != 32 {
		t.Fatalf("salt length = %d, want 32", len(a))
	}
	if a == b {
		t.Fatal("two salts must not collide")
	}
}

func TestHashPasswordDeterministic(t *testing.T) {
	h1 := HashPassword("password", "salt-a")
	h2 := HashPassword("password", "salt-a")
	if h1 != h2 {
		t.Fatal("same password and salt must hash identically")
	}

	if HashPassword("password", "salt-b") == h1 {
		t.Fatal("different salts must produce different hashes")
	}
	if HashPassword("other", "salt-a") == h1 {
		t.Fatal("different passwords must produce different hashes")
	}
}

func TestVerifyPassword(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generateSalt: %v", err)
	}
	hash := HashPassword("correct horse", salt)

	if !VerifyPassword("correct horse", salt, hash) {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword("wrong horse", salt, hash) {
		t.Fatal("wrong password accepted")
	}
	if VerifyPassword("correct horse", "other-salt", hash) {
		t.Fatal("wrong salt accepted")
	}
}

package auth

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the password")
	}

	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Error("expected the right password to verify")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Error("expected the wrong password to fail")
	}
}

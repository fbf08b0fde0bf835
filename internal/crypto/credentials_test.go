package crypto

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	svc := NewCredentialService(bcrypt.MinCost)

	hash, err := svc.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatalf("hash equals plaintext")
	}

	if err := svc.ComparePassword(hash, "correct horse battery staple"); err != nil {
		t.Fatalf("ComparePassword with right password: %v", err)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	svc := NewCredentialService(bcrypt.MinCost)

	h1, err := svc.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := svc.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected different hashes for the same password")
	}
}

func TestComparePassword_Mismatch(t *testing.T) {
	svc := NewCredentialService(bcrypt.MinCost)

	hash, err := svc.HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	err = svc.ComparePassword(hash, "wrong")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("ComparePassword error = %v, want ErrPasswordMismatch", err)
	}
}

func TestComparePassword_MalformedHash(t *testing.T) {
	svc := NewCredentialService(bcrypt.MinCost)

	err := svc.ComparePassword("not-a-hash", "secret")
	if err == nil {
		t.Fatalf("expected error for malformed hash")
	}
	if errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("malformed hash must not be reported as a mismatch")
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	svc := NewCredentialService(bcrypt.MinCost)

	_, err := svc.HashPassword(strings.Repeat("a", 73))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("HashPassword error = %v, want ErrPasswordTooLong", err)
	}
}

func TestNewCredentialService_CostOutOfRange(t *testing.T) {
	svc := NewCredentialService(0).(*credentialService)
	if svc.cost != bcrypt.DefaultCost {
		t.Fatalf("cost = %d, want %d", svc.cost, bcrypt.DefaultCost)
	}
}

func TestNewToken_UniqueAndURLSafe(t *testing.T) {
	svc := NewCredentialService(bcrypt.MinCost)

	t1, err := svc.NewToken()
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}
	t2, err := svc.NewToken()
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}

	if t1 == t2 {
		t.Fatalf("expected tokens to differ")
	}
	if len(t1) != 43 {
		t.Fatalf("token length = %d, want 43", len(t1))
	}
	if strings.ContainsAny(t1, "+/=") {
		t.Fatalf("token %q is not URL safe", t1)
	}
}

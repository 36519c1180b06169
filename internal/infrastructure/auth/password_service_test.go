package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/authsvc/domain"
)

func newTestPasswordService(t *testing.T) domain.PasswordService {
	t.Helper()
	svc, err := NewPasswordService(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to create password service: %v", err)
	}
	return svc
}

func TestNewPasswordService_RejectsOutOfRangeCost(t *testing.T) {
	for _, cost := range []int{bcrypt.MinCost - 1, bcrypt.MaxCost + 1} {
		_, err := NewPasswordService(cost)
		if !errors.Is(err, domain.ErrHashing) {
			t.Errorf("cost %d: expected ErrHashing, got %v", cost, err)
		}
	}
}

func TestPasswordServiceImpl_HashAndVerify(t *testing.T) {
	svc := newTestPasswordService(t)

	passwords := []string{"Abcdef1!", "another-Secret9", strings.Repeat("a", MaxPasswordBytes)}

	for _, password := range passwords {
		hash, err := svc.Hash(password)
		if err != nil {
			t.Fatalf("unexpected hash error: %v", err)
		}
		if hash == password || strings.Contains(hash, password) {
			t.Errorf("hash must not contain the plaintext")
		}
		if !svc.Verify(hash, password) {
			t.Errorf("expected %q to verify against its own hash", password)
		}
		if svc.Verify(hash, password+"x") {
			t.Errorf("expected a different password to be rejected")
		}
	}
}

func TestPasswordServiceImpl_SaltsEachHash(t *testing.T) {
	svc := newTestPasswordService(t)

	first, err := svc.Hash("Abcdef1!")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Hash("Abcdef1!")
	if err != nil {
		t.Fatal(err)
	}

	if first == second {
		t.Error("expected two hashes of the same password to differ")
	}
}

func TestPasswordServiceImpl_HashTooLong(t *testing.T) {
	svc := newTestPasswordService(t)

	_, err := svc.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	if !errors.Is(err, domain.ErrHashing) {
		t.Errorf("expected ErrHashing, got %v", err)
	}
}

func TestPasswordServiceImpl_VerifyMalformedDigest(t *testing.T) {
	svc := newTestPasswordService(t)

	for _, digest := range []string{"", "plaintext", "$2a$04$short"} {
		if svc.Verify(digest, "Abcdef1!") {
			t.Errorf("expected malformed digest %q to fail verification", digest)
		}
	}
}

func TestPasswordServiceImpl_VerifyRejectsOverlongPassword(t *testing.T) {
	svc := newTestPasswordService(t)

	stored := "Aa1!" + strings.Repeat("x", MaxPasswordBytes-4)
	hash, err := svc.Hash(stored)
	if err != nil {
		t.Fatalf("unexpected hash error: %v", err)
	}

	for _, candidate := range []string{stored + "WRONG", stored + "x", stored + stored} {
		if svc.Verify(hash, candidate) {
			t.Errorf("expected %d-byte candidate sharing the stored prefix to be rejected", len(candidate))
		}
	}
}

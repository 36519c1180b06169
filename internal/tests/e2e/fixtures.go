package e2e

import (
	"testing"

	"github.com/gin-gonic/gin"
)

// Ann is the account used across the scenarios
var Ann = struct {
	Name     string
	Email    string
	Password string
}{
	Name:     "Ann",
	Email:    "ann@x.com",
	Password: "Abcdef1!",
}

func annSignup() gin.H {
	return gin.H{"name": Ann.Name, "email": Ann.Email, "password": Ann.Password}
}

func annProfile() map[string]any {
	return map[string]any{"name": Ann.Name, "email": Ann.Email}
}

// signupAnn registers Ann and fails the test unless it succeeds
func signupAnn(t *testing.T, s *TestServer) {
	t.Helper()
	if resp := s.Post(t, "/signin", annSignup()); resp.Status != 201 {
		t.Fatalf("signup failed: %d %s", resp.Status, resp.Raw)
	}
}

// loginAnnWithOTP runs the OTP flow and leaves the session cookie in the client jar
func loginAnnWithOTP(t *testing.T, s *TestServer) {
	t.Helper()
	if resp := s.Post(t, "/request-login", gin.H{"email": Ann.Email}); resp.Status != 200 {
		t.Fatalf("request-login failed: %d %s", resp.Status, resp.Raw)
	}
	code := s.LastCode(t, Ann.Email)
	if resp := s.Post(t, "/verify-code", gin.H{"email": Ann.Email, "otpCode": code}); resp.Status != 200 {
		t.Fatalf("verify-code failed: %d %s", resp.Status, resp.Raw)
	}
}

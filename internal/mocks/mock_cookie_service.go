package mocks

import (
	"net/http"

	"github.com/you/authsvc/domain"
)

// MockCookieService implements domain.CookieService interface for testing.
// By default the token is stored as the raw cookie value.
type MockCookieService struct {
	SetFunc   func(w http.ResponseWriter, token string) error
	ReadFunc  func(r *http.Request) (string, error)
	ClearFunc func(w http.ResponseWriter)
}

// NewMockCookieService creates a new MockCookieService with default behaviors
func NewMockCookieService() *MockCookieService {
	return &MockCookieService{}
}

// Set writes the session cookie
func (m *MockCookieService) Set(w http.ResponseWriter, token string) error {
	if m.SetFunc != nil {
		return m.SetFunc(w, token)
	}
	http.SetCookie(w, &http.Cookie{Name: "auth", Value: token, Path: "/", HttpOnly: true})
	return nil
}

// Read returns the session token
func (m *MockCookieService) Read(r *http.Request) (string, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(r)
	}
	c, err := r.Cookie("auth")
	if err != nil {
		return "", domain.ErrTokenMissing
	}
	return c.Value, nil
}

// Clear expires the session cookie
func (m *MockCookieService) Clear(w http.ResponseWriter) {
	if m.ClearFunc != nil {
		m.ClearFunc(w)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "auth", Value: "", Path: "/", MaxAge: -1})
}

// Compile-time interface compliance verification
var _ domain.CookieService = (*MockCookieService)(nil)

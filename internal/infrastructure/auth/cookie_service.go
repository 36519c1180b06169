package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/you/authsvc/domain"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "auth"

// CookieServiceImpl implements domain.CookieService. The cookie value is
// HMAC-signed, not encrypted.
type CookieServiceImpl struct {
	codec  *securecookie.SecureCookie
	maxAge time.Duration
	secure bool
}

// NewCookieService creates a cookie service. secure must follow the
// deployment environment: true in production only.
func NewCookieService(secret string, maxAge time.Duration, secure bool) domain.CookieService {
	codec := securecookie.New([]byte(secret), nil).
		MaxAge(int(maxAge.Seconds())).
		SetSerializer(securecookie.JSONEncoder{})

	return &CookieServiceImpl{
		codec:  codec,
		maxAge: maxAge,
		secure: secure,
	}
}

// Set implements domain.CookieService
func (s *CookieServiceImpl) Set(w http.ResponseWriter, token string) error {
	encoded, err := s.codec.Encode(SessionCookieName, token)
	if err != nil {
		return fmt.Errorf("failed to sign session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

// Read implements domain.CookieService. Only the signature is checked here;
// callers still validate the token's own expiry.
func (s *CookieServiceImpl) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", domain.ErrTokenMissing
	}

	var token string
	if err := s.codec.Decode(SessionCookieName, cookie.Value, &token); err != nil {
		return "", domain.ErrTokenInvalid
	}
	return token, nil
}

// Clear implements domain.CookieService
func (s *CookieServiceImpl) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

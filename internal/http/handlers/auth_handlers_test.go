package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/http/middleware"
	"github.com/you/authsvc/internal/mocks"
	"github.com/you/authsvc/internal/validation"
)

var annUser = &domain.User{ID: 1, Name: "Ann", Email: "ann@x.com", PasswordHash: "$2a$12$secret", IsActive: true}

func setupRouter(authSvc *mocks.MockAuthService, cookieSvc *mocks.MockCookieService, claims *domain.TokenClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandlers(authSvc, cookieSvc, validation.New())

	r := gin.New()
	r.POST("/signin", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/request-login", h.RequestLogin)
	r.POST("/verify-code", h.VerifyCode)

	withClaims := func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ClaimsKey, claims)
		}
	}
	r.GET("/auth/profile/:id", withClaims, h.Profile)
	r.POST("/auth/logout", withClaims, h.Logout)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestAuthHandlers_Signup(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		setupMocks     func(authSvc *mocks.MockAuthService)
		expectedStatus int
		validateBody   func(t *testing.T, body map[string]any)
	}{
		{
			name: "created",
			body: gin.H{"name": "Ann", "email": " Ann@X.com", "password": "Abcdef1!"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, name, email, password string) (*domain.User, error) {
					if email != "ann@x.com" {
						t.Errorf("expected normalized email, got %q", email)
					}
					return annUser, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "User created successfully", body["message"])
			},
		},
		{
			name: "duplicate account",
			body: gin.H{"name": "Ann", "email": "ann@x.com", "password": "Abcdef1!"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, name, email, password string) (*domain.User, error) {
					return nil, domain.ErrDuplicateAccount
				}
			},
			expectedStatus: http.StatusConflict,
			validateBody: func(t *testing.T, body map[string]any) {
				assert.NotEmpty(t, body["message"])
				assert.NotEmpty(t, body["error"])
			},
		},
		{
			name: "weak password",
			body: gin.H{"name": "Ann", "email": "ann@x.com", "password": "abcdefgh"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, name, email, password string) (*domain.User, error) {
					t.Error("service must not run on invalid input")
					return nil, nil
				}
			},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Validation failed", body["message"])
				assert.Contains(t, body["errors"], "password")
			},
		},
		{
			name: "password over the bcrypt byte limit",
			body: gin.H{"name": "Ann", "email": "ann@x.com", "password": "Aa1!" + strings.Repeat("x", 71)},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, name, email, password string) (*domain.User, error) {
					t.Error("service must not run on invalid input")
					return nil, nil
				}
			},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Validation failed", body["message"])
				assert.Contains(t, body["errors"], "password")
			},
		},
		{
			name:           "malformed json",
			body:           `{"name":`,
			setupMocks:     func(authSvc *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body["errors"], "body")
			},
		},
		{
			name: "internal failure is not leaked",
			body: gin.H{"name": "Ann", "email": "ann@x.com", "password": "Abcdef1!"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, name, email, password string) (*domain.User, error) {
					return nil, errors.New("pq: connection refused on 10.0.0.3")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Internal Server Error", body["message"])
				assert.Len(t, body, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMocks(authSvc)
			r := setupRouter(authSvc, mocks.NewMockCookieService(), nil)

			w := doJSON(t, r, http.MethodPost, "/signin", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			tt.validateBody(t, decode(t, w))
		})
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{name: "success", expectedStatus: http.StatusOK},
		{name: "unknown email", serviceErr: domain.ErrUserNotFound, expectedStatus: http.StatusNotFound},
		{name: "wrong password", serviceErr: domain.ErrInvalidCredentials, expectedStatus: http.StatusUnauthorized},
		{name: "inactive account", serviceErr: domain.ErrUserInactive, expectedStatus: http.StatusForbidden},
		{name: "store failure", serviceErr: errors.New("timeout"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			authSvc.LoginFunc = func(ctx context.Context, email, password string) (*domain.User, error) {
				if tt.serviceErr != nil {
					return nil, tt.serviceErr
				}
				return annUser, nil
			}
			r := setupRouter(authSvc, mocks.NewMockCookieService(), nil)

			w := doJSON(t, r, http.MethodPost, "/login", gin.H{"email": "ann@x.com", "password": "Abcdef1!"})

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.serviceErr == nil {
				body := decode(t, w)
				assert.Equal(t, map[string]any{"name": "Ann", "email": "ann@x.com"}, body["user"])
				assert.NotContains(t, w.Body.String(), "secret", "hash must never be returned")
			}
		})
	}
}

func TestAuthHandlers_RequestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		serviceErr     error
		expectedStatus int
	}{
		{name: "code sent", body: gin.H{"email": "ann@x.com"}, expectedStatus: http.StatusOK},
		{name: "unknown email", body: gin.H{"email": "nobody@x.com"}, serviceErr: domain.ErrUserNotFound, expectedStatus: http.StatusNotFound},
		{name: "invalid email", body: gin.H{"email": "nope"}, expectedStatus: http.StatusBadRequest},
		{name: "store failure", body: gin.H{"email": "ann@x.com"}, serviceErr: errors.New("db down"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			authSvc.RequestOTPFunc = func(ctx context.Context, email string) (*domain.OTPChallenge, error) {
				if tt.serviceErr != nil {
					return nil, tt.serviceErr
				}
				return &domain.OTPChallenge{UserID: 1, Email: email, Code: "123456"}, nil
			}
			r := setupRouter(authSvc, mocks.NewMockCookieService(), nil)

			w := doJSON(t, r, http.MethodPost, "/request-login", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "123456", "the code must only travel by email")
		})
	}
}

func TestAuthHandlers_VerifyCode(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		serviceErr     error
		cookieErr      error
		expectedStatus int
		wantCookie     bool
	}{
		{name: "success sets the session cookie", body: gin.H{"email": "ann@x.com", "otpCode": "123456"}, expectedStatus: http.StatusOK, wantCookie: true},
		{name: "wrong code", body: gin.H{"email": "ann@x.com", "otpCode": "654321"}, serviceErr: domain.ErrOTPInvalid, expectedStatus: http.StatusUnauthorized},
		{name: "expired code", body: gin.H{"email": "ann@x.com", "otpCode": "123456"}, serviceErr: domain.ErrOTPExpired, expectedStatus: http.StatusUnauthorized},
		{name: "unknown email", body: gin.H{"email": "nobody@x.com", "otpCode": "123456"}, serviceErr: domain.ErrUserNotFound, expectedStatus: http.StatusNotFound},
		{name: "five digit code", body: gin.H{"email": "ann@x.com", "otpCode": "12345"}, expectedStatus: http.StatusBadRequest},
		{name: "cookie signing fails", body: gin.H{"email": "ann@x.com", "otpCode": "123456"}, cookieErr: errors.New("hmac"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			authSvc.VerifyOTPFunc = func(ctx context.Context, email, code string) (*domain.AuthResult, error) {
				if tt.serviceErr != nil {
					return nil, tt.serviceErr
				}
				return &domain.AuthResult{User: annUser, Token: "jwt-token"}, nil
			}
			cookieSvc := mocks.NewMockCookieService()
			if tt.cookieErr != nil {
				cookieSvc.SetFunc = func(w http.ResponseWriter, token string) error { return tt.cookieErr }
			}
			r := setupRouter(authSvc, cookieSvc, nil)

			w := doJSON(t, r, http.MethodPost, "/verify-code", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			setCookie := w.Header().Get("Set-Cookie")
			if tt.wantCookie {
				assert.True(t, strings.HasPrefix(setCookie, "auth=jwt-token"), setCookie)
				assert.Equal(t, map[string]any{"name": "Ann", "email": "ann@x.com"}, decode(t, w)["user"])
			} else {
				assert.Empty(t, setCookie)
			}
		})
	}
}

func TestAuthHandlers_Profile(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		serviceErr     error
		expectedStatus int
	}{
		{name: "found", path: "/auth/profile/1", expectedStatus: http.StatusOK},
		{name: "deleted user", path: "/auth/profile/1", serviceErr: domain.ErrUserNotFound, expectedStatus: http.StatusNotFound},
		{name: "bad id", path: "/auth/profile/-1", expectedStatus: http.StatusBadRequest},
		{name: "store failure", path: "/auth/profile/1", serviceErr: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			authSvc.GetUserProfileFunc = func(ctx context.Context, userID uint) (*domain.User, error) {
				if tt.serviceErr != nil {
					return nil, tt.serviceErr
				}
				return annUser, nil
			}
			r := setupRouter(authSvc, mocks.NewMockCookieService(), &domain.TokenClaims{UserID: 1, TokenID: "jti"})

			w := doJSON(t, r, http.MethodGet, tt.path, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				body := decode(t, w)
				assert.Equal(t, map[string]any{"name": "Ann", "email": "ann@x.com"}, body["user"])
			}
		})
	}
}

func TestAuthHandlers_Logout(t *testing.T) {
	t.Run("revokes and clears the cookie", func(t *testing.T) {
		authSvc := mocks.NewMockAuthService()
		var revoked string
		authSvc.LogoutFunc = func(ctx context.Context, claims *domain.TokenClaims) error {
			revoked = claims.TokenID
			return nil
		}
		r := setupRouter(authSvc, mocks.NewMockCookieService(), &domain.TokenClaims{UserID: 1, TokenID: "jti-1"})

		w := doJSON(t, r, http.MethodPost, "/auth/logout", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "jti-1", revoked)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	})

	t.Run("no session", func(t *testing.T) {
		r := setupRouter(mocks.NewMockAuthService(), mocks.NewMockCookieService(), nil)
		w := doJSON(t, r, http.MethodPost, "/auth/logout", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

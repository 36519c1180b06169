package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/app"
	"github.com/you/authsvc/internal/config"
	"github.com/you/authsvc/internal/logging"
	"github.com/you/authsvc/internal/mocks"
)

// TestServer runs the full router over an in-memory SQLite store, miniredis
// and a recording notifier.
type TestServer struct {
	Server    *httptest.Server
	Container *app.Container
	Redis     *miniredis.Miniredis
	Notifier  *mocks.MockNotificationService
	Client    *http.Client
	Config    *config.Config
}

// NewTestServer starts a server; configure may adjust the test configuration
func NewTestServer(t *testing.T, configure ...func(*config.Config)) *TestServer {
	t.Helper()

	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Env = config.EnvTest
	cfg.LogLevel = "error"
	cfg.DatabaseURL = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg.RedisAddr = mr.Addr()
	cfg.JWTSecret = "e2e-jwt-secret-0123456789abcdefghij"
	cfg.CookieSecret = "e2e-cookie-secret-0123456789abcdefgh"
	cfg.BcryptCost = bcrypt.MinCost
	for _, fn := range configure {
		fn(cfg)
	}

	logger := logging.New(logging.Config{Service: "authsvc-e2e", Env: cfg.Env, Level: cfg.LogLevel, Output: io.Discard})
	notifier := mocks.NewMockNotificationService()

	container, err := app.NewContainer(context.Background(), cfg, logger, app.WithNotifier(notifier))
	if err != nil {
		t.Fatalf("failed to build container: %v", err)
	}

	server := httptest.NewServer(container.Router())

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		server.Close()
		container.Close()
	})

	return &TestServer{
		Server:    server,
		Container: container,
		Redis:     mr,
		Notifier:  notifier,
		Client:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
		Config:    cfg,
	}
}

// Response is a decoded HTTP response
type Response struct {
	Status int
	Header http.Header
	Body   map[string]any
	Raw    string
}

// Do sends a request with an optional JSON body through the cookie-keeping client
func (s *TestServer) Do(t *testing.T, method, path string, body any) *Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Raw: string(raw)}
	_ = json.Unmarshal(raw, &out.Body)
	return out
}

// Post sends a JSON POST
func (s *TestServer) Post(t *testing.T, path string, body any) *Response {
	t.Helper()
	return s.Do(t, http.MethodPost, path, body)
}

// Get sends a GET
func (s *TestServer) Get(t *testing.T, path string) *Response {
	t.Helper()
	return s.Do(t, http.MethodGet, path, nil)
}

// StoredUser reads the row for email straight from the store
func (s *TestServer) StoredUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := s.Container.UserRepo.FindByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("failed to load %s: %v", email, err)
	}
	return user
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// LastCode extracts the OTP from the most recent email sent to email
func (s *TestServer) LastCode(t *testing.T, email string) string {
	t.Helper()
	mail, ok := s.Notifier.LastEmail()
	if !ok || mail.To != email {
		t.Fatalf("no email sent to %s", email)
	}
	code := codePattern.FindString(mail.Body)
	if code == "" {
		t.Fatalf("no code in email body %q", mail.Body)
	}
	return code
}

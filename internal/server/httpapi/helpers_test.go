package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/logicspark/logicspark/internal/logging"
	"github.com/logicspark/logicspark/internal/server/auth"
	"github.com/logicspark/logicspark/internal/server/config"
	"github.com/logicspark/logicspark/internal/server/models"
	"github.com/logicspark/logicspark/internal/server/repositories/memory"
	"github.com/logicspark/logicspark/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("httpapi-test-secret")

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type recordingNotifier struct {
	mu       sync.Mutex
	contacts int
	sponsors int
}

func (n *recordingNotifier) ContactReceived(*models.Contact) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts++
}

func (n *recordingNotifier) SponsorReceived(*models.Sponsor) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sponsors++
}

type stubArchiver struct{}

func (stubArchiver) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	return "https://s3.local/" + key + "?sig=1", nil
}

type testEnv struct {
	server   *HTTPServer
	handler  http.Handler
	repos    *memory.InMemoryRepositoryManager
	tokens   *auth.TokenIssuer
	notifier *recordingNotifier
}

type envOption func(*envConfig)

type envConfig struct {
	pinger   Pinger
	archived bool
	timeout  time.Duration
}

func withPinger(p Pinger) envOption                { return func(c *envConfig) { c.pinger = p } }
func withArchive() envOption                       { return func(c *envConfig) { c.archived = true } }
func withRequestTimeout(d time.Duration) envOption { return func(c *envConfig) { c.timeout = d } }

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	ec := envConfig{pinger: fakePinger{}, timeout: 5 * time.Second}
	for _, o := range opts {
		o(&ec)
	}

	repos := memory.NewInMemoryRepositoryManager()
	tokens := auth.NewTokenIssuer(testSecret)
	cfg := &config.Config{UserTokenTTL: 24 * time.Hour, AdminTokenTTL: 8 * time.Hour}

	authSvc, err := services.NewAuthService(nil, repos, auth.NewBcryptHasher(bcrypt.MinCost), tokens, cfg, logging.Nop{})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	var sub *services.SubmissionService
	if ec.archived {
		sub = services.NewSubmissionService(nil, repos, notifier, stubArchiver{}, logging.Nop{})
	} else {
		sub = services.NewSubmissionService(nil, repos, notifier, nil, logging.Nop{})
	}

	s := NewHTTPServer(Options{
		Address:         "127.0.0.1:0",
		AllowedOrigins:  []string{"http://localhost:5500"},
		RequestTimeout:  ec.timeout,
		ShutdownTimeout: time.Second,
	}, logging.Nop{}, authSvc, sub, tokens, ec.pinger, NewMetrics("logicspark"))

	return &testEnv{server: s, handler: s.Handler(), repos: repos, tokens: tokens, notifier: notifier}
}

func (e *testEnv) seedAdmin(t *testing.T, username, password string) *models.Admin {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	a, err := e.repos.Admins(nil).Create(context.Background(), &models.Admin{Username: username, PasswordHash: string(h)})
	require.NoError(t, err)
	return a
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	tok, _, err := e.tokens.Issue("a-1", "root", "admin", time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Admin   json.RawMessage `json:"admin"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

var errBoom = errors.New("boom")

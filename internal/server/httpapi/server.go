// Package httpapi exposes the site backend as a JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/logicspark/logicspark/internal/logging"
	"github.com/logicspark/logicspark/internal/server/auth"
	"github.com/logicspark/logicspark/internal/server/models"
	"github.com/logicspark/logicspark/internal/server/services"
)

// Authenticator is implemented by services.AuthService.
type Authenticator interface {
	Register(ctx context.Context, name, email, password string) (*services.UserSession, error)
	Login(ctx context.Context, email, password string) (*services.UserSession, error)
	AdminLogin(ctx context.Context, username, password string) (*services.AdminSession, error)
}

// Submissions is implemented by services.SubmissionService.
type Submissions interface {
	CreateContact(ctx context.Context, in services.ContactInput) (*models.Contact, error)
	CreateSponsor(ctx context.Context, in services.SponsorInput) (*models.Sponsor, error)
	ListContacts(ctx context.Context) ([]*models.Contact, error)
	ListSponsors(ctx context.Context) ([]*models.Sponsor, error)
	MarkRead(ctx context.Context, kind services.Kind, id string) error
	Delete(ctx context.Context, kind services.Kind, id string) error
	Export(ctx context.Context, kind services.Kind) (*services.Export, error)
}

// TokenVerifier is implemented by auth.TokenIssuer.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Pinger reports database reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Address         string
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type HTTPServer struct {
	opts        Options
	auth        Authenticator
	submissions Submissions
	tokens      TokenVerifier
	db          Pinger
	metrics     *Metrics
	logger      logging.Logger
	now         func() time.Time
	handler     http.Handler
}

func NewHTTPServer(opts Options, l logging.Logger, a Authenticator, sub Submissions,
	tokens TokenVerifier, db Pinger, m *Metrics) *HTTPServer {

	s := &HTTPServer{
		opts:        opts,
		auth:        a,
		submissions: sub,
		tokens:      tokens,
		db:          db,
		metrics:     m,
		logger:      l.With("module", "http_server"),
		now:         time.Now,
	}
	s.handler = s.buildHandler()
	return s
}

// Handler returns the fully wrapped handler: recovery, observation, CORS,
// then the router.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

func (s *HTTPServer) buildHandler() http.Handler {
	r := mux.NewRouter()
	r.Use(recordRoute, withTimeout(s.opts.RequestTimeout))
	s.routes(r)

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedOrigins(s.opts.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
		handlers.ExposedHeaders([]string{"X-Request-ID"}),
		handlers.AllowCredentials(),
	)(h)
	h = s.observe(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: s.logger}),
		handlers.PrintRecoveryStack(false),
	)(h)
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// ShutdownTimeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		sctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}

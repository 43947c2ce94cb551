// Package server wires the site backend together: configuration, the
// PostgreSQL pool and migrations, services, and the HTTP and gRPC health
// servers. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/logicspark/logicspark/internal/logging"
	"github.com/logicspark/logicspark/internal/server/archive"
	"github.com/logicspark/logicspark/internal/server/auth"
	"github.com/logicspark/logicspark/internal/server/config"
	"github.com/logicspark/logicspark/internal/server/httpapi"
	"github.com/logicspark/logicspark/internal/server/notify"
	"github.com/logicspark/logicspark/internal/server/repositories/repomanager"
	"github.com/logicspark/logicspark/internal/server/services"

	gs "github.com/logicspark/logicspark/internal/server/grpc"
)

const metricsNamespace = "logicspark"

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	tokens      *auth.TokenIssuer
	auth        *services.AuthService
	submissions *services.SubmissionService
	dispatcher  *notify.Dispatcher
}

// NewLogger builds the process logger from the log settings in c.
func NewLogger(c *config.Config) logging.Logger {
	return logging.New(os.Stdout, c.LogFormat, c.LogLevel)
}

// OpenStore opens the connection pool and applies pending migrations.
func OpenStore(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := repomanager.OpenPostgres(c.DatabaseDSN, repomanager.PoolOptions{
		MaxOpenConns:    c.DBMaxOpenConns,
		ConnMaxIdleTime: c.DBConnMaxIdleTime,
		ConnectTimeout:  c.DBConnectTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, m, nil
}

// NewAuthService builds the auth service used by both the server and the
// admin provisioning tool.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, c *config.Config, l logging.Logger) (*services.AuthService, *auth.TokenIssuer, error) {
	tokens := auth.NewTokenIssuer([]byte(c.SecretKey))
	svc, err := services.NewAuthService(db, m, auth.NewBcryptHasher(c.BcryptCost), tokens, c, l)
	if err != nil {
		return nil, nil, err
	}
	return svc, tokens, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := NewLogger(c)
	if c.EphemeralSecret {
		logger.Warn(ctx, "no JWT secret configured, using a random one; tokens will not survive a restart")
	}

	db, m, err := OpenStore(ctx, c)
	if err != nil {
		return nil, err
	}

	authSvc, tokens, err := NewAuthService(db, m, c, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	arch, err := newArchiver(ctx, c)
	if err != nil {
		db.Close()
		return nil, err
	}
	if arch == nil {
		logger.Info(ctx, "S3 bucket not configured, exports disabled")
	}

	dispatcher := newDispatcher(c, logger)
	sub := services.NewSubmissionService(db, m, dispatcher, arch, logger)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		tokens:      tokens,
		auth:        authSvc,
		submissions: sub,
		dispatcher:  dispatcher,
	}, nil
}

// newArchiver returns a nil interface when no bucket is configured.
func newArchiver(ctx context.Context, c *config.Config) (archive.Archiver, error) {
	if c.S3Bucket == "" {
		return nil, nil
	}
	a, err := archive.NewS3Archiver(ctx, archive.Options{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Region:       c.S3Region,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	return a, nil
}

func newDispatcher(c *config.Config, l logging.Logger) *notify.Dispatcher {
	var sender notify.Sender = notify.Nop{}
	if c.SMTPHost != "" {
		sender = notify.NewSMTPSender(notify.SMTPOptions{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			Username: c.SMTPUser,
			Password: c.SMTPPassword,
			From:     c.MailFrom,
		})
	} else {
		l.Info(context.Background(), "SMTP host not configured, notifications disabled")
	}
	return notify.NewDispatcher(sender, c.AdminEmail, c.DashboardURL, l)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

type runner interface {
	Run(ctx context.Context) error
}

func (app *App) runners() map[string]runner {
	r := map[string]runner{
		"http": httpapi.NewHTTPServer(httpapi.Options{
			Address:         app.config.HTTPAddr,
			AllowedOrigins:  app.config.AllowedOrigins,
			RequestTimeout:  app.config.RequestTimeout,
			ShutdownTimeout: app.config.ShutdownTimeout,
		}, app.logger, app.auth, app.submissions, app.tokens, app.db, httpapi.NewMetrics(metricsNamespace)),
	}
	if app.config.GRPCHealthAddr != "" {
		r["grpc"] = gs.NewHealthServer(app.config.GRPCHealthAddr, app.db, gs.DefaultProbeInterval, app.logger)
	}
	return r
}

// Run starts every server and blocks until a signal arrives or one of them
// fails. It then drains pending notifications and closes the pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for name, r := range app.runners() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}
	wg.Wait()

	return errors.Join(append(errs, app.shutdown())...)
}

func (app *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := app.dispatcher.Wait(ctx); err != nil {
		errs = append(errs, fmt.Errorf("drain notifications: %w", err))
	}
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	app.logger.Info(ctx, "App stopped")
	return errors.Join(errs...)
}

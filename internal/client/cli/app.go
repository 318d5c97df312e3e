package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/dmitrijs2005/petadopt/internal/client/auth"
	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/config"
	"github.com/dmitrijs2005/petadopt/internal/client/notify"
	"github.com/dmitrijs2005/petadopt/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/petadopt/internal/client/services"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/dmitrijs2005/petadopt/internal/filex"
	"github.com/dmitrijs2005/petadopt/internal/logging"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	session  *session.Manager
	notifier notify.Notifier

	authService     services.AuthService
	petService      services.PetService
	adoptionService services.AdoptionService

	reader *bufio.Reader
	out    io.Writer

	// loginRequested is set when the server rejected the session; the REPL
	// runs the login flow after the current command.
	loginRequested atomic.Bool
}

// NewApp opens the session store named in c and wires the API client,
// session manager and services. Logs go to stderr.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	path, err := filex.ExpandHome(c.StorePath)
	if err != nil {
		return nil, err
	}
	path, err = filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", path, "error", err)
		return nil, err
	}

	a, err := newApp(c, logger, db, nil, os.Stdin, os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// newApp assembles an App around an already migrated database.
func newApp(c *config.Config, logger logging.Logger, db *sql.DB, httpClient *http.Client, in io.Reader, out io.Writer) (*App, error) {
	policy := auth.MissingExpiryInvalid
	if c.MissingExpValid {
		policy = auth.MissingExpiryValid
	}

	store := credentials.NewSQLiteRepository(db)
	sess := session.NewManager(store, auth.NewDecoder(policy), logger)
	notifier := notify.NewConsole(out)

	api, err := client.New(c.APIBaseURL, client.Options{
		HTTPClient: httpClient,
		Timeout:    c.RequestTimeout,
		Tokens:     client.StoreTokens(store),
		Notifier:   notifier,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		config:          c,
		logger:          logger,
		db:              db,
		session:         sess,
		notifier:        notifier,
		authService:     services.NewAuthService(api, sess),
		petService:      services.NewPetService(api, sess, logger),
		adoptionService: services.NewAdoptionService(api, sess),
		reader:          bufio.NewReader(in),
		out:             out,
	}

	api.OnSessionInvalidated(func(ctx context.Context) {
		if err := sess.Logout(ctx); err != nil {
			logger.Error(ctx, "teardown after 401 failed", "error", err)
		}
		a.loginRequested.Store(true)
	})
	sess.Subscribe(func(s session.State) {
		logger.Debug(context.Background(), "session changed", "phase", s.Phase, "generation", s.Generation)
	})

	return a, nil
}

// Run hydrates the session and blocks in the REPL until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	defer func() { _ = logging.Sync(a.logger) }()

	if err := a.session.Initialize(ctx); err != nil {
		a.logger.Error(ctx, "session initialization failed", "error", err)
	}

	fmt.Fprintln(a.out, "Welcome to the pet adoption CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) getStatus() string {
	s := a.session.Snapshot()
	if s.User == nil {
		return "(guest)"
	}
	name := s.User.Name
	if name == "" {
		name = s.User.Email
	}
	return fmt.Sprintf("(%s %s)", name, s.User.Role)
}

func (a *App) snapshot() session.State {
	return a.session.Snapshot()
}

// revalidate tears the session down when its token expired since the last
// command.
func (a *App) revalidate(ctx context.Context) {
	err := a.session.Revalidate(ctx)
	if errors.Is(err, common.ErrSessionExpired) {
		a.notifier.Notify(ctx, notify.LevelError, common.MsgSessionExpired)
	}
	if err != nil {
		a.logger.Info(ctx, "revalidate", "error", err)
	}
}

func (a *App) takeLoginRequest() bool {
	return a.loginRequested.Swap(false)
}

// report prints err unless the user has already been told about it.
func (a *App) report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		a.logger.Debug(ctx, "command failed", "error", err)
	case errors.Is(err, services.ErrStaleResponse), errors.Is(err, context.Canceled):
		a.logger.Debug(ctx, "result dropped", "error", err)
	default:
		a.notifier.Notify(ctx, notify.LevelError, err.Error())
	}
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/nayidisha/nayidisha-client/internal/client/actions"
	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/client/config"
	"github.com/nayidisha/nayidisha-client/internal/client/router"
	"github.com/nayidisha/nayidisha-client/internal/client/services"
	"github.com/nayidisha/nayidisha-client/internal/client/session"
	"github.com/nayidisha/nayidisha-client/internal/client/state"
	"github.com/nayidisha/nayidisha-client/internal/client/storage"
	"github.com/nayidisha/nayidisha-client/internal/export"
	"github.com/nayidisha/nayidisha-client/internal/geo"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const retryBase = 200 * time.Millisecond

// Uploader publishes a generated report and returns a download link.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type App struct {
	config *config.Config
	log    logging.Logger

	repos      *storage.Repositories
	session    *session.Session
	router     *router.Router
	dispatcher *actions.Dispatcher

	auth       *services.AuthService
	board      *services.IssueBoard
	users      *services.UserDirectory
	dashboard  *services.Dashboard
	form       *services.ComplaintForm
	complaints *services.ComplaintList
	profile    *services.ProfileEditor
	uploader   Uploader

	mu   sync.Mutex
	mode Mode

	reader *bufio.Reader
	out    io.Writer
}

var _ execIface = (*App)(nil)

// NewApp opens the session database and wires the client stack for cfg.
// The report uploader is set up only when an S3 bucket is configured.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	repos, err := storage.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	sess := session.New(repos.DB, log)
	r := router.New(sess, log)

	api, err := client.NewHTTPClient(cfg.ResolvedBaseURL(), sess, log,
		client.WithOnUnauthenticated(r.OnUnauthenticated),
		client.WithRetry(cfg.RetryAttempts, retryBase))
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	d := actions.NewDispatcher(api, state.NewStore(), sess, log,
		actions.WithOnUnauthenticated(r.OnUnauthenticated))
	locator := geo.New(log, geo.WithBaseURL(cfg.GeocoderURL))

	a := &App{
		config:     cfg,
		log:        log,
		repos:      repos,
		session:    sess,
		router:     r,
		dispatcher: d,
		auth:       services.NewAuthService(api, sess, r, log),
		board:      services.NewIssueBoard(d, r, log, cfg.DebounceDelay),
		users:      services.NewUserDirectory(d),
		dashboard:  services.NewDashboard(d),
		form:       services.NewComplaintForm(d, locator, log),
		complaints: services.NewComplaintList(d, r),
		profile:    services.NewProfileEditor(d, log),
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}

	if cfg.S3.Bucket != "" {
		up, err := export.NewS3Uploader(ctx, export.S3Config{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		}, log)
		if err != nil {
			_ = repos.Close()
			return nil, err
		}
		a.uploader = up
	}

	return a, nil
}

// Close stops pending work and closes the session database.
func (a *App) Close() error {
	a.board.Close()
	return a.repos.Close()
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run restores the route of a saved session, starts the connectivity
// watcher and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to NayiDisha CLI (type 'help' for commands)")
	if a.session.IsAuthenticated(ctx) {
		a.router.Navigate(ctx, router.HomeFor(a.session.Roles(ctx)))
	} else {
		a.router.Navigate(ctx, router.PathLogin)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// mode on each change. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.auth.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// getStatus renders "(email mode path)" for the prompt.
func (a *App) getStatus() string {
	ctx := context.Background()

	var parts []string
	if sub := a.session.Subject(ctx); sub != "" {
		parts = append(parts, sub)
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	parts = append(parts, a.router.Current())
	return "(" + strings.Join(parts, " ") + ")"
}

func (a *App) authorize(ctx context.Context, path string) bool {
	return a.router.Authorize(ctx, path).Authorized
}

func (a *App) navigate(ctx context.Context, path string) router.Decision {
	return a.router.Navigate(ctx, path)
}

package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/matchbox/internal/capture"
	"github.com/dmitrijs2005/matchbox/internal/client/client"
	"github.com/dmitrijs2005/matchbox/internal/client/config"
	"github.com/dmitrijs2005/matchbox/internal/client/services"
	"github.com/dmitrijs2005/matchbox/internal/filex"
	"github.com/dmitrijs2005/matchbox/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// clipsDirName is where recorded and downloaded clips are kept.
const clipsDirName = "recordings"

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	session      *services.Session
	authService  services.AuthService
	matchService services.MatchService
	audioService services.AudioService
	out          io.Writer

	modeMu sync.Mutex
	mode   Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stderr, "text", logging.ParseLevel(c.LogLevel))

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewMatchboxClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	clipsDir, err := filex.EnsureSubdDir(clipsDirName)
	if err != nil {
		_ = db.Close()
		_ = apiClient.Close()
		return nil, err
	}

	var device capture.Device = capture.ToneDevice{}
	if c.CaptureSource != "" {
		device = capture.FileDevice{Path: c.CaptureSource}
	}
	recorder := capture.NewRecorder(device, logger, capture.WithChunkSize(c.CaptureChunkSize))

	session := &services.Session{}

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		session:      session,
		authService:  services.NewAuthService(apiClient, session),
		matchService: services.NewMatchService(apiClient, session, services.NewDeckStore(db)),
		audioService: services.NewAudioService(apiClient, session, recorder, clipsDir, logger),
		out:          os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.println(fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

// Run starts the connectivity watcher and the REPL on stdin, and releases
// the client and the local database when the REPL exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer a.db.Close()
	defer a.authService.Close(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.println("Welcome to Matchbox CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isSignedIn() bool {
	_, err := a.session.Actor()
	return err == nil
}

func (a *App) getStatus() string {
	s := ""
	if actor, err := a.session.Actor(); err == nil {
		s = actor.ID + " "
	}
	if mode := a.Mode(); mode != "" {
		s = s + string(mode)
	}
	if id, captured, ok := a.audioService.Recording(); ok {
		s = strings.TrimSpace(fmt.Sprintf("%s rec %s %dB", s, id, captured))
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

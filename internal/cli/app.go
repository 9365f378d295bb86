// Package cli is the interactive console: a REPL whose commands drive the
// auth, fleet and download services, with the view selected by the decoded
// role.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/josselin06/Borobo-stage-2025/internal/api"
	"github.com/josselin06/Borobo-stage-2025/internal/config"
	"github.com/josselin06/Borobo-stage-2025/internal/download"
	"github.com/josselin06/Borobo-stage-2025/internal/fleet"
	"github.com/josselin06/Borobo-stage-2025/internal/logging"
	"github.com/josselin06/Borobo-stage-2025/internal/refresh"
	"github.com/josselin06/Borobo-stage-2025/internal/services"
	"github.com/josselin06/Borobo-stage-2025/internal/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type App struct {
	config    *config.Config
	sessions  *session.Manager
	auth      services.AuthService
	fleetSvc  *services.FleetService
	downloads *download.Orchestrator
	router    *Router
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer

	mu        sync.Mutex
	views     []fleet.RobotView
	scheduler *refresh.Scheduler

	// expired is raised by the refresh goroutine and drained by the REPL
	// before each prompt.
	expired atomic.Bool
}

func NewApp(cfg *config.Config, log logging.Logger) *App {
	client := api.NewHTTPClient(cfg.BackendBaseURL, cfg.RequestTimeout)
	sessions := session.NewManager()
	saver := download.NewDirSaver(cfg.DownloadDir)

	return &App{
		config:    cfg,
		sessions:  sessions,
		auth:      services.NewAuthService(client, sessions, log),
		fleetSvc:  services.NewFleetService(client, sessions, log),
		downloads: download.NewOrchestrator(client, sessions, saver, log),
		router:    NewRouter(),
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
}

// Run drives the REPL until the user exits, then tears everything down.
func (a *App) Run(ctx context.Context) {
	printlnFn("Console BOROBO (tapez 'help' pour les commandes)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
	a.stopRefresh()
}

func (a *App) isLoggedIn() bool {
	return a.router.LoggedIn()
}

func (a *App) status() string {
	if snap, ok := a.sessions.Snapshot(); ok {
		return fmt.Sprintf("%s@%s", snap.Subject, a.router.State())
	}
	return "déconnecté"
}

// cycleFor builds the CycleFunc of the current view. The result of a cycle
// is committed only if the session it was started under is still the current
// one; a cycle that completes after logout drops its data.
func (a *App) cycleFor(scope services.Scope) refresh.CycleFunc {
	return func(ctx context.Context) error {
		epoch := a.sessions.Epoch()
		views, err := a.fleetSvc.LoadCycle(ctx, scope)
		if err != nil {
			return err
		}

		a.mu.Lock()
		defer a.mu.Unlock()
		if !a.sessions.StillCurrent(epoch) {
			return nil
		}
		a.views = views
		return nil
	}
}

func (a *App) startRefresh(ctx context.Context) {
	s := refresh.NewScheduler(a.config.RefreshInterval, a.cycleFor(a.router.Scope()), a.handleExpired, a.log)

	a.mu.Lock()
	a.scheduler = s
	a.mu.Unlock()

	s.Start(ctx)
}

func (a *App) stopRefresh() {
	a.mu.Lock()
	s := a.scheduler
	a.scheduler = nil
	a.mu.Unlock()

	if s != nil {
		s.Stop()
	}
}

// handleExpired runs on the refresh goroutine, so it only flags the expiry
// and clears the session; the REPL finishes the logout via noticeExpiry.
func (a *App) handleExpired() {
	a.auth.Logout(context.Background())
	a.expired.Store(true)
}

// noticeExpiry completes an expiry signalled by the background refresh:
// message, view teardown, back to the login state.
func (a *App) noticeExpiry() {
	if !a.expired.CompareAndSwap(true, false) {
		return
	}

	printlnFn(msgSessionExpired)
	a.router.Logout()

	a.mu.Lock()
	a.views = nil
	a.scheduler = nil // its loop already exited on the expired cycle
	a.mu.Unlock()
}

// forceLogout is the REPL-side logout used when a foreground operation hits
// an expired session.
func (a *App) forceLogout(ctx context.Context) {
	a.stopRefresh()
	a.auth.Logout(ctx)
	a.router.Logout()
	a.expired.Store(false)

	a.mu.Lock()
	a.views = nil
	a.mu.Unlock()
}

func (a *App) snapshotViews() []fleet.RobotView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.views
}

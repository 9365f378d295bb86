package cli

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josselin06/Borobo-stage-2025/internal/common"
	"github.com/josselin06/Borobo-stage-2025/internal/config"
	"github.com/josselin06/Borobo-stage-2025/internal/download"
	"github.com/josselin06/Borobo-stage-2025/internal/fleet"
	"github.com/josselin06/Borobo-stage-2025/internal/logging"
	"github.com/josselin06/Borobo-stage-2025/internal/services"
	"github.com/josselin06/Borobo-stage-2025/internal/session"
)

// fakeClient implements api.Client for command-level tests. The background
// refresh cycle touches it from its own goroutine, hence the mutex.
type fakeClient struct {
	mu sync.Mutex

	authenticateRet string
	authenticateErr error

	changePasswordRet string
	changePasswordErr error

	downloadRet []byte
	downloadErr error

	changePasswordCalls int
	downloadCalls       int
}

func (f *fakeClient) Authenticate(ctx context.Context, username, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authenticateRet, f.authenticateErr
}

func (f *fakeClient) FetchRobotTree(ctx context.Context, token string) ([]fleet.RobotFolder, error) {
	return nil, nil
}

func (f *fakeClient) FetchRobotStatus(ctx context.Context, token string) ([]fleet.RobotStatus, error) {
	return nil, nil
}

func (f *fakeClient) FetchMaintenanceReports(ctx context.Context, token string) ([]fleet.MaintenanceBundle, error) {
	return nil, nil
}

func (f *fakeClient) ChangePassword(ctx context.Context, token, oldPassword, newPassword, confirmPassword string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changePasswordCalls++
	return f.changePasswordRet, f.changePasswordErr
}

func (f *fakeClient) download() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloadCalls++
	return f.downloadRet, f.downloadErr
}

func (f *fakeClient) DownloadRobotReport(ctx context.Context, token, folderID, filename string) ([]byte, error) {
	return f.download()
}

func (f *fakeClient) DownloadRobotArchive(ctx context.Context, token, folderID string) ([]byte, error) {
	return f.download()
}

func (f *fakeClient) DownloadMaintenanceReport(ctx context.Context, token, folderID, filename string) ([]byte, error) {
	return f.download()
}

func (f *fakeClient) DownloadMaintenanceArchive(ctx context.Context, token, folderID string) ([]byte, error) {
	return f.download()
}

func (f *fakeClient) passwordCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.changePasswordCalls
}

type fakeSaver struct{}

func (fakeSaver) Save(filename string, payload []byte) (string, error) {
	return "downloads/" + filename, nil
}

func tokenWith(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + ".sig"
}

// newTestApp assembles an App over the fake client, with a long refresh
// interval so only the immediate cycle of a fresh login runs.
func newTestApp(t *testing.T, client *fakeClient) *App {
	t.Helper()
	log := logging.NewTextLogger(io.Discard, slog.LevelError)
	sessions := session.NewManager()

	app := &App{
		config:    &config.Config{RefreshInterval: time.Hour, DownloadDir: t.TempDir()},
		sessions:  sessions,
		auth:      services.NewAuthService(client, sessions, log),
		fleetSvc:  services.NewFleetService(client, sessions, log),
		downloads: download.NewOrchestrator(client, sessions, fakeSaver{}, log),
		router:    NewRouter(),
		log:       log,
		reader:    bufio.NewReader(strings.NewReader("")),
		out:       io.Discard,
	}
	t.Cleanup(app.stopRefresh)
	return app
}

// stubPrompts replaces the prompt seams for the duration of a test. Passwords
// are served in order from the queue.
func stubPrompts(t *testing.T, username string, passwords ...string) {
	t.Helper()
	origText, origPw := getSimpleText, getPassword
	queue := passwords
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		return username, nil
	}
	getPassword = func(_ string, _ io.Writer) (string, error) {
		require.NotEmpty(t, queue, "more password prompts than stubbed answers")
		next := queue[0]
		queue = queue[1:]
		return next, nil
	}
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })
}

func TestLoginEntersViewForRole(t *testing.T) {
	lines := capturePrintln(t)
	stubPrompts(t, "alice", "secret")

	client := &fakeClient{authenticateRet: tokenWith(t, map[string]any{"sub": "alice", "role": "maintenance"})}
	app := newTestApp(t, client)

	require.NoError(t, app.Login(context.Background()))

	assert.Equal(t, StateMaintenance, app.router.State())
	snap, ok := app.sessions.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "alice", snap.Subject)
	assert.Contains(t, strings.Join(*lines, "\n"), "alice")
}

func TestLoginBadCredentials(t *testing.T) {
	lines := capturePrintln(t)
	stubPrompts(t, "alice", "wrong")

	client := &fakeClient{authenticateErr: common.ErrInvalidCredentials}
	app := newTestApp(t, client)

	require.NoError(t, app.Login(context.Background()))

	assert.Equal(t, StateLoggedOut, app.router.State())
	_, ok := app.sessions.Snapshot()
	assert.False(t, ok)
	assert.Contains(t, strings.Join(*lines, "\n"), msgBadCredentials)
}

func TestLoginWhenAlreadyLoggedIn(t *testing.T) {
	capturePrintln(t)

	app := newTestApp(t, &fakeClient{})
	app.router.LoginAs(session.RoleUser)

	require.NoError(t, app.Login(context.Background()))
	assert.Equal(t, StateUser, app.router.State())
}

func TestListEmpty(t *testing.T) {
	lines := capturePrintln(t)

	app := newTestApp(t, &fakeClient{})
	require.NoError(t, app.List(context.Background()))

	assert.Contains(t, strings.Join(*lines, "\n"), "Aucun robot chargé.")
}

func TestListFiltersFilesByView(t *testing.T) {
	lines := capturePrintln(t)

	app := newTestApp(t, &fakeClient{})
	app.router.LoginAs(session.RoleMaintenance)
	app.views = []fleet.RobotView{{
		FolderID:           "robot_1",
		IsActive:           true,
		Reports:            []string{"op.pdf"},
		MaintenanceReports: []string{"maint.pdf"},
	}}

	require.NoError(t, app.List(context.Background()))

	joined := strings.Join(*lines, "\n")
	assert.Contains(t, joined, "robot_1")
	assert.Contains(t, joined, "maint.pdf")
	assert.NotContains(t, joined, "op.pdf", "operational files hidden in the maintenance view")
}

func TestDownloadRequiresOperationalView(t *testing.T) {
	lines := capturePrintln(t)

	client := &fakeClient{downloadRet: []byte("pdf")}
	app := newTestApp(t, client)
	app.router.LoginAs(session.RoleMaintenance)

	require.NoError(t, app.Download(context.Background(), []string{"robot_1", "r.pdf"}))

	assert.Equal(t, 0, client.downloadCalls)
	assert.Contains(t, strings.Join(*lines, "\n"), "indisponible")
}

func TestDownloadUsage(t *testing.T) {
	lines := capturePrintln(t)

	client := &fakeClient{}
	app := newTestApp(t, client)
	app.router.LoginAs(session.RoleUser)

	require.NoError(t, app.Download(context.Background(), nil))

	assert.Equal(t, 0, client.downloadCalls)
	assert.Contains(t, strings.Join(*lines, "\n"), "Usage : get")
}

func TestDownloadSuccess(t *testing.T) {
	lines := capturePrintln(t)

	client := &fakeClient{downloadRet: []byte("pdf")}
	app := newTestApp(t, client)
	app.sessions.Establish(tokenWith(t, map[string]any{"sub": "alice", "role": "user"}))
	app.router.LoginAs(session.RoleUser)

	require.NoError(t, app.Download(context.Background(), []string{"robot_1", "r.pdf"}))

	assert.Equal(t, 1, client.downloadCalls)
	assert.Contains(t, strings.Join(*lines, "\n"), "Enregistré : downloads/r.pdf")
}

func TestDownloadFailureLeavesSession(t *testing.T) {
	lines := capturePrintln(t)

	client := &fakeClient{downloadErr: common.ErrDownload}
	app := newTestApp(t, client)
	app.sessions.Establish(tokenWith(t, map[string]any{"sub": "alice", "role": "superuser"}))
	app.router.LoginAs(session.RoleSuperuser)

	require.NoError(t, app.DownloadAll(context.Background(), []string{"robot_1"}))

	assert.Contains(t, strings.Join(*lines, "\n"), msgDownloadError)
	_, ok := app.sessions.Snapshot()
	assert.True(t, ok, "a failed download never ends the session")
	assert.Equal(t, StateSuperuser, app.router.State())
}

func TestSuperuserCanUseMaintenanceDownloads(t *testing.T) {
	capturePrintln(t)

	client := &fakeClient{downloadRet: []byte("zip")}
	app := newTestApp(t, client)
	app.sessions.Establish(tokenWith(t, map[string]any{"sub": "root", "role": "superuser"}))
	app.router.LoginAs(session.RoleSuperuser)

	require.NoError(t, app.DownloadMaintenance(context.Background(), []string{"robot_1", "m.pdf"}))
	require.NoError(t, app.DownloadMaintenanceAll(context.Background(), []string{"robot_1"}))

	assert.Equal(t, 2, client.downloadCalls)
}

func TestChangePasswordRefusedByLocalPolicy(t *testing.T) {
	lines := capturePrintln(t)
	stubPrompts(t, "", "old", "weak", "weak")

	client := &fakeClient{}
	app := newTestApp(t, client)
	app.sessions.Establish(tokenWith(t, map[string]any{"sub": "alice", "role": "user"}))
	app.router.LoginAs(session.RoleUser)

	require.NoError(t, app.ChangePassword(context.Background()))

	assert.Equal(t, 0, client.passwordCalls(), "weak password never reaches the backend")
	assert.Contains(t, strings.Join(*lines, "\n"), services.PasswordPolicyMessage)
	assert.Equal(t, StateUser, app.router.State(), "form closed, back to the view")
}

func TestChangePasswordSuccess(t *testing.T) {
	lines := capturePrintln(t)
	stubPrompts(t, "", "old", "Str0ng!pass", "Str0ng!pass")

	client := &fakeClient{changePasswordRet: "Mot de passe changé avec succès."}
	app := newTestApp(t, client)
	app.sessions.Establish(tokenWith(t, map[string]any{"sub": "alice", "role": "user"}))
	app.router.LoginAs(session.RoleUser)

	require.NoError(t, app.ChangePassword(context.Background()))

	assert.Equal(t, 1, client.passwordCalls())
	assert.Contains(t, strings.Join(*lines, "\n"), "Mot de passe changé avec succès.")
}

func TestChangePasswordExpiredSessionLogsOut(t *testing.T) {
	lines := capturePrintln(t)
	stubPrompts(t, "", "old", "Str0ng!pass", "Str0ng!pass")

	client := &fakeClient{changePasswordErr: common.ErrSessionExpired}
	app := newTestApp(t, client)
	app.sessions.Establish(tokenWith(t, map[string]any{"sub": "alice", "role": "user"}))
	app.router.LoginAs(session.RoleUser)

	require.NoError(t, app.ChangePassword(context.Background()))

	assert.Contains(t, strings.Join(*lines, "\n"), msgSessionExpired)
	assert.Equal(t, StateLoggedOut, app.router.State())
	_, ok := app.sessions.Snapshot()
	assert.False(t, ok)
}

func TestChangePasswordRequiresLogin(t *testing.T) {
	lines := capturePrintln(t)

	client := &fakeClient{}
	app := newTestApp(t, client)

	require.NoError(t, app.ChangePassword(context.Background()))

	assert.Equal(t, 0, client.passwordCalls())
	assert.Contains(t, strings.Join(*lines, "\n"), "Connectez-vous d'abord.")
}

func TestNoticeExpiryTearsDownView(t *testing.T) {
	lines := capturePrintln(t)

	app := newTestApp(t, &fakeClient{})
	app.sessions.Establish(tokenWith(t, map[string]any{"sub": "alice", "role": "user"}))
	app.router.LoginAs(session.RoleUser)
	app.views = []fleet.RobotView{{FolderID: "robot_1"}}

	app.handleExpired()
	app.noticeExpiry()

	assert.Contains(t, strings.Join(*lines, "\n"), msgSessionExpired)
	assert.Equal(t, StateLoggedOut, app.router.State())
	assert.Empty(t, app.snapshotViews())

	// the flag is drained: a second pass is silent
	before := len(*lines)
	app.noticeExpiry()
	assert.Equal(t, before, len(*lines))
}

func TestLogoutClearsEverything(t *testing.T) {
	capturePrintln(t)

	app := newTestApp(t, &fakeClient{})
	app.sessions.Establish(tokenWith(t, map[string]any{"sub": "alice", "role": "user"}))
	app.router.LoginAs(session.RoleUser)
	app.views = []fleet.RobotView{{FolderID: "robot_1"}}

	require.NoError(t, app.Logout(context.Background()))

	assert.Equal(t, StateLoggedOut, app.router.State())
	_, ok := app.sessions.Snapshot()
	assert.False(t, ok)
	assert.Empty(t, app.snapshotViews())
}

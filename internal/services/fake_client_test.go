package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/josselin06/Borobo-stage-2025/internal/fleet"
	"github.com/josselin06/Borobo-stage-2025/internal/logging"
	"github.com/josselin06/Borobo-stage-2025/internal/session"
)

// fakeClient implements api.Client for unit tests of the services.
type fakeClient struct {
	AuthenticateRet string
	AuthenticateErr error

	TreeRet []fleet.RobotFolder
	TreeErr error

	StatusRet []fleet.RobotStatus
	StatusErr error

	MaintRet []fleet.MaintenanceBundle
	MaintErr error

	ChangePasswordRet string
	ChangePasswordErr error

	// call counters for argument/interaction checks
	AuthenticateCalls   int
	TreeCalls           int
	StatusCalls         int
	MaintCalls          int
	ChangePasswordCalls int

	LastUsername string
	LastToken    string
	LastOld      string
	LastNew      string
	LastConfirm  string
}

func (f *fakeClient) Authenticate(ctx context.Context, username, password string) (string, error) {
	f.AuthenticateCalls++
	f.LastUsername = username
	return f.AuthenticateRet, f.AuthenticateErr
}

func (f *fakeClient) FetchRobotTree(ctx context.Context, token string) ([]fleet.RobotFolder, error) {
	f.TreeCalls++
	f.LastToken = token
	return f.TreeRet, f.TreeErr
}

func (f *fakeClient) FetchRobotStatus(ctx context.Context, token string) ([]fleet.RobotStatus, error) {
	f.StatusCalls++
	f.LastToken = token
	return f.StatusRet, f.StatusErr
}

func (f *fakeClient) FetchMaintenanceReports(ctx context.Context, token string) ([]fleet.MaintenanceBundle, error) {
	f.MaintCalls++
	f.LastToken = token
	return f.MaintRet, f.MaintErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, token, oldPassword, newPassword, confirmPassword string) (string, error) {
	f.ChangePasswordCalls++
	f.LastToken = token
	f.LastOld, f.LastNew, f.LastConfirm = oldPassword, newPassword, confirmPassword
	return f.ChangePasswordRet, f.ChangePasswordErr
}

func (f *fakeClient) DownloadRobotReport(ctx context.Context, token, folderID, filename string) ([]byte, error) {
	return nil, nil
}

func (f *fakeClient) DownloadRobotArchive(ctx context.Context, token, folderID string) ([]byte, error) {
	return nil, nil
}

func (f *fakeClient) DownloadMaintenanceReport(ctx context.Context, token, folderID, filename string) ([]byte, error) {
	return nil, nil
}

func (f *fakeClient) DownloadMaintenanceArchive(ctx context.Context, token, folderID string) ([]byte, error) {
	return nil, nil
}

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

// tokenWith builds an unsigned JWT with the given claims.
func tokenWith(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, _ := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + ".sig"
}

func loggedInManager(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager()
	m.Establish(tokenWith(t, map[string]any{"sub": "alice", "role": "superuser"}))
	return m
}

// Package api is the REST client for the Borobo backend. It normalizes HTTP
// failures into the sentinel errors of internal/common and performs no
// retries: retry policy, if any, belongs to the caller.
package api

import (
	"context"

	"github.com/josselin06/Borobo-stage-2025/internal/fleet"
)

// Client is the backend surface the console consumes. Every call except
// Authenticate is idempotent and side-effect-free on the backend;
// Authenticate establishes a new server-side session, ChangePassword
// mutates the account.
type Client interface {
	// Authenticate exchanges credentials for a bearer token.
	// Fails with common.ErrInvalidCredentials on HTTP 400/401 and
	// common.ErrServer on any other non-success status.
	Authenticate(ctx context.Context, username, password string) (string, error)

	// The three data fetches fail with common.ErrSessionExpired on 401 and
	// common.ErrFetch on any other failure.
	FetchRobotTree(ctx context.Context, token string) ([]fleet.RobotFolder, error)
	FetchRobotStatus(ctx context.Context, token string) ([]fleet.RobotStatus, error)
	FetchMaintenanceReports(ctx context.Context, token string) ([]fleet.MaintenanceBundle, error)

	// ChangePassword submits a password change. On success it returns the
	// backend's confirmation message. Fails with common.ErrSessionExpired on
	// 401 and with *common.BackendRejectionError carrying the backend's
	// verbatim message on any other rejection.
	ChangePassword(ctx context.Context, token, oldPassword, newPassword, confirmPassword string) (string, error)

	// Downloads return the raw binary payload. They fail with
	// common.ErrDownload on any non-success response or transport failure; a
	// failed download never affects the session.
	DownloadRobotReport(ctx context.Context, token, folderID, filename string) ([]byte, error)
	DownloadRobotArchive(ctx context.Context, token, folderID string) ([]byte, error)
	DownloadMaintenanceReport(ctx context.Context, token, folderID, filename string) ([]byte, error)
	DownloadMaintenanceArchive(ctx context.Context, token, folderID string) ([]byte, error)
}

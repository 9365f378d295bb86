package download

import (
	"context"
	"fmt"

	"github.com/josselin06/Borobo-stage-2025/internal/api"
	"github.com/josselin06/Borobo-stage-2025/internal/common"
	"github.com/josselin06/Borobo-stage-2025/internal/logging"
	"github.com/josselin06/Borobo-stage-2025/internal/session"
)

// Orchestrator resolves the backend endpoint for a file or bundle, fetches
// it with the current session token and saves the payload. Failures map to
// common.ErrDownload and are isolated per attempt: nothing is saved on error
// and neither the session nor the loaded views are touched.
//
// The operational and maintenance "all" bundles are distinct backend
// endpoints and get distinct archive names; they must never be conflated.
type Orchestrator struct {
	client   api.Client
	sessions *session.Manager
	saver    Saver
	log      logging.Logger
}

func NewOrchestrator(client api.Client, sessions *session.Manager, saver Saver, log logging.Logger) *Orchestrator {
	return &Orchestrator{client: client, sessions: sessions, saver: saver, log: log}
}

// RobotReport downloads one operational report file, saved under its own
// filename.
func (o *Orchestrator) RobotReport(ctx context.Context, folderID, filename string) (string, error) {
	return o.save(ctx, filename, func(ctx context.Context, token string) ([]byte, error) {
		return o.client.DownloadRobotReport(ctx, token, folderID, filename)
	})
}

// RobotBundle downloads the zip of all operational reports for one robot.
func (o *Orchestrator) RobotBundle(ctx context.Context, folderID string) (string, error) {
	return o.save(ctx, folderID+"_reports.zip", func(ctx context.Context, token string) ([]byte, error) {
		return o.client.DownloadRobotArchive(ctx, token, folderID)
	})
}

// MaintenanceReport downloads one maintenance report file.
func (o *Orchestrator) MaintenanceReport(ctx context.Context, folderID, filename string) (string, error) {
	return o.save(ctx, filename, func(ctx context.Context, token string) ([]byte, error) {
		return o.client.DownloadMaintenanceReport(ctx, token, folderID, filename)
	})
}

// MaintenanceBundle downloads the zip of all maintenance reports for one
// robot.
func (o *Orchestrator) MaintenanceBundle(ctx context.Context, folderID string) (string, error) {
	return o.save(ctx, folderID+"_maintenance.zip", func(ctx context.Context, token string) ([]byte, error) {
		return o.client.DownloadMaintenanceArchive(ctx, token, folderID)
	})
}

func (o *Orchestrator) save(ctx context.Context, filename string, fetch func(context.Context, string) ([]byte, error)) (string, error) {
	snap, ok := o.sessions.Snapshot()
	if !ok {
		return "", fmt.Errorf("%w: not logged in", common.ErrDownload)
	}

	payload, err := fetch(ctx, snap.Token)
	if err != nil {
		o.log.Error(ctx, "download failed", "filename", filename, "error", err)
		return "", err
	}

	path, err := o.saver.Save(filename, payload)
	if err != nil {
		o.log.Error(ctx, "saving download failed", "filename", filename, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrDownload, err)
	}

	o.log.Info(ctx, "downloaded", "filename", filename, "path", path, "bytes", len(payload))
	return path, nil
}

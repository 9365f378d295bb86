package services

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/josselin06/Borobo-stage-2025/internal/api"
	"github.com/josselin06/Borobo-stage-2025/internal/common"
	"github.com/josselin06/Borobo-stage-2025/internal/fleet"
	"github.com/josselin06/Borobo-stage-2025/internal/logging"
	"github.com/josselin06/Borobo-stage-2025/internal/session"
)

// Scope selects which collections a cycle fetches, one per view kind.
type Scope int

const (
	// ScopeOperational: robot tree + status (plain user view).
	ScopeOperational Scope = iota
	// ScopeMaintenance: maintenance reports + status; the maintenance
	// collection is the authoritative folder set.
	ScopeMaintenance
	// ScopeCombined: all three collections (superuser view).
	ScopeCombined
)

// FleetService runs the fetch side of a refresh cycle: the collections of
// the scope are fetched in parallel and merged only once all of them have
// settled. If any fetch fails the whole cycle fails and nothing is merged,
// so callers either get a fully fresh snapshot or keep their previous one,
// never a hybrid.
type FleetService struct {
	client   api.Client
	sessions *session.Manager
	log      logging.Logger
}

func NewFleetService(client api.Client, sessions *session.Manager, log logging.Logger) *FleetService {
	return &FleetService{client: client, sessions: sessions, log: log}
}

// LoadCycle fetches and merges one snapshot for the scope. A 401 on any of
// the parallel fetches surfaces as common.ErrSessionExpired regardless of
// what the sibling fetches returned while being cancelled.
func (s *FleetService) LoadCycle(ctx context.Context, scope Scope) ([]fleet.RobotView, error) {
	snap, ok := s.sessions.Snapshot()
	if !ok {
		return nil, common.ErrSessionExpired
	}

	var (
		tree     []fleet.RobotFolder
		statuses []fleet.RobotStatus
		bundles  []fleet.MaintenanceBundle

		treeErr, statusErr, maintErr error
	)

	g, gctx := errgroup.WithContext(ctx)

	if scope != ScopeMaintenance {
		g.Go(func() error {
			tree, treeErr = s.client.FetchRobotTree(gctx, snap.Token)
			return treeErr
		})
	}
	g.Go(func() error {
		statuses, statusErr = s.client.FetchRobotStatus(gctx, snap.Token)
		return statusErr
	})
	if scope != ScopeOperational {
		g.Go(func() error {
			bundles, maintErr = s.client.FetchMaintenanceReports(gctx, snap.Token)
			return maintErr
		})
	}

	if err := g.Wait(); err != nil {
		// The first error cancels the siblings, so the error g.Wait hands
		// back may be a cancellation artifact. An expired session must win.
		for _, fetchErr := range []error{treeErr, statusErr, maintErr} {
			if errors.Is(fetchErr, common.ErrSessionExpired) {
				return nil, common.ErrSessionExpired
			}
		}
		return nil, err
	}

	if scope == ScopeMaintenance {
		tree = fleet.FoldersFromBundles(bundles)
	}

	views := fleet.Merge(tree, statuses, bundles)
	s.log.Debug(ctx, "cycle merged", "scope", int(scope), "robots", len(views))
	return views, nil
}

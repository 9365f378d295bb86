// Package fleet holds the robot-fleet data model and the merge that joins
// the backend's independent collections into per-robot view records.
package fleet

import "time"

// RobotFolder is one entry of the robot tree: a robot's report namespace and
// its report filenames. FolderID is the join key across all collections.
type RobotFolder struct {
	FolderID string   `json:"robot_folder"`
	Reports  []string `json:"reports"`
}

// RobotStatus is the liveness record for one robot. A nil LastSeen means the
// robot was never seen.
type RobotStatus struct {
	FolderID string     `json:"robot_folder"`
	IsActive bool       `json:"is_active"`
	LastSeen *time.Time `json:"last_seen"`
}

// MaintenanceBundle lists the maintenance report filenames for one robot.
type MaintenanceBundle struct {
	FolderID string   `json:"robot_folder"`
	Reports  []string `json:"reports"`
}

// RobotView is the merged per-robot record shown to the user. It is derived
// data: recomputed wholesale on every refresh cycle, never patched
// field-by-field, so the source collections are never shown in a mutually
// inconsistent partial state.
type RobotView struct {
	FolderID           string
	Reports            []string
	MaintenanceReports []string
	IsActive           bool
	LastSeen           *time.Time
}

// lastSeenPlaceholder is shown for robots with no recorded activity.
const lastSeenPlaceholder = "—"

// LastSeenDisplay formats the last-seen timestamp the way the console prints
// it, or returns the placeholder when the robot was never seen.
func (v RobotView) LastSeenDisplay() string {
	if v.LastSeen == nil {
		return lastSeenPlaceholder
	}
	return v.LastSeen.Format("02/01/2006 15:04")
}

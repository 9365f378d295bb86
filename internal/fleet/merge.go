package fleet

// Merge joins the robot tree with statuses and maintenance bundles into one
// RobotView per tree entry, preserving tree order. The tree is the
// authoritative set: entries present only in statuses or maintenance are
// dropped. Missing auxiliary data degrades to defaults (inactive, no
// last-seen, empty maintenance list) rather than erroring.
//
// Status lookup is last-write-wins: the backend is expected to return at
// most one status per folder, and if it ever does not, the later entry
// prevails.
//
// Merge is a pure function of its inputs: calling it twice with identical
// inputs yields identical output and it never mutates its arguments.
func Merge(tree []RobotFolder, statuses []RobotStatus, maintenance []MaintenanceBundle) []RobotView {
	statusByFolder := make(map[string]RobotStatus, len(statuses))
	for _, s := range statuses {
		statusByFolder[s.FolderID] = s
	}

	maintByFolder := make(map[string][]string, len(maintenance))
	for _, m := range maintenance {
		maintByFolder[m.FolderID] = m.Reports
	}

	views := make([]RobotView, 0, len(tree))
	for _, folder := range tree {
		view := RobotView{
			FolderID: folder.FolderID,
			Reports:  folder.Reports,
		}
		if status, ok := statusByFolder[folder.FolderID]; ok {
			view.IsActive = status.IsActive
			view.LastSeen = status.LastSeen
		}
		if reports, ok := maintByFolder[folder.FolderID]; ok {
			view.MaintenanceReports = reports
		}
		views = append(views, view)
	}

	return views
}

// FoldersFromBundles derives a folder set from maintenance bundles, for the
// maintenance-only view where the maintenance collection itself is the
// authoritative list of robots.
func FoldersFromBundles(bundles []MaintenanceBundle) []RobotFolder {
	folders := make([]RobotFolder, 0, len(bundles))
	for _, b := range bundles {
		folders = append(folders, RobotFolder{FolderID: b.FolderID})
	}
	return folders
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/josselin06/Borobo-stage-2025/internal/common"
)

// Login prompts for credentials, authenticates and enters the view matching
// the decoded role, then starts the refresh loop. Authentication failures
// are shown to the user and leave the app logged out.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Déjà connecté.")
		return nil
	}

	userName, err := getSimpleText(a.reader, "Nom d'utilisateur", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Mot de passe", a.out)
	if err != nil {
		return err
	}

	sess, err := a.auth.Login(ctx, userName, password)
	if err != nil {
		printlnFn(userMessage(err))
		return nil
	}

	state := a.router.LoginAs(sess.Role)
	printlnFn(fmt.Sprintf("Connecté en tant que : %s (vue %s)", sess.Subject, state))

	a.startRefresh(ctx)
	return nil
}

// Logout stops the refresh loop and clears the session.
func (a *App) Logout(ctx context.Context) error {
	a.forceLogout(ctx)
	printlnFn("Déconnecté.")
	return nil
}

// List prints the latest merged snapshot of the current view.
func (a *App) List(ctx context.Context) error {
	views := a.snapshotViews()
	if len(views) == 0 {
		printlnFn("Aucun robot chargé.")
		return nil
	}

	state := a.router.State()
	for i, v := range views {
		active := "inactif"
		if v.IsActive {
			active = "actif"
		}
		printlnFn(fmt.Sprintf("Robot %d — %s [%s] Dernière activité : %s",
			i+1, v.FolderID, active, v.LastSeenDisplay()))

		if state != StateMaintenance {
			for _, f := range v.Reports {
				printlnFn("  [données] " + f)
			}
		}
		if state != StateUser {
			for _, f := range v.MaintenanceReports {
				printlnFn("  [maintenance] " + f)
			}
		}
	}
	return nil
}

// Refresh runs one manual fetch-and-merge cycle and lists the result.
func (a *App) Refresh(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Connectez-vous d'abord.")
		return nil
	}

	if err := a.cycleFor(a.router.Scope())(ctx); err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			printlnFn(msgSessionExpired)
			a.forceLogout(ctx)
			return nil
		}
		printlnFn(userMessage(err))
		return nil
	}
	return a.List(ctx)
}

// Download fetches one operational report: get <folder> <file>.
func (a *App) Download(ctx context.Context, args []string) error {
	if !a.requireView("get", StateUser, StateSuperuser) {
		return nil
	}
	if len(args) != 2 {
		printlnFn("Usage : get <robot> <fichier>")
		return nil
	}
	a.reportDownload(a.downloads.RobotReport(ctx, args[0], args[1]))
	return nil
}

// DownloadAll fetches the zip of all operational reports: getall <folder>.
func (a *App) DownloadAll(ctx context.Context, args []string) error {
	if !a.requireView("getall", StateUser, StateSuperuser) {
		return nil
	}
	if len(args) != 1 {
		printlnFn("Usage : getall <robot>")
		return nil
	}
	a.reportDownload(a.downloads.RobotBundle(ctx, args[0]))
	return nil
}

// DownloadMaintenance fetches one maintenance report: mget <folder> <file>.
func (a *App) DownloadMaintenance(ctx context.Context, args []string) error {
	if !a.requireView("mget", StateMaintenance, StateSuperuser) {
		return nil
	}
	if len(args) != 2 {
		printlnFn("Usage : mget <robot> <fichier>")
		return nil
	}
	a.reportDownload(a.downloads.MaintenanceReport(ctx, args[0], args[1]))
	return nil
}

// DownloadMaintenanceAll fetches the maintenance zip: mgetall <folder>.
func (a *App) DownloadMaintenanceAll(ctx context.Context, args []string) error {
	if !a.requireView("mgetall", StateMaintenance, StateSuperuser) {
		return nil
	}
	if len(args) != 1 {
		printlnFn("Usage : mgetall <robot>")
		return nil
	}
	a.reportDownload(a.downloads.MaintenanceBundle(ctx, args[0]))
	return nil
}

// ChangePassword walks the password-change form. A weak password is refused
// locally before any request; a backend rejection is shown verbatim.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.router.OpenPasswordForm() {
		printlnFn("Connectez-vous d'abord.")
		return nil
	}
	defer a.router.Back()

	oldPassword, err := getPassword("Ancien mot de passe", a.out)
	if err != nil {
		return err
	}
	newPassword, err := getPassword("Nouveau mot de passe", a.out)
	if err != nil {
		return err
	}
	confirmPassword, err := getPassword("Confirmer le nouveau mot de passe", a.out)
	if err != nil {
		return err
	}

	msg, err := a.auth.ChangePassword(ctx, oldPassword, newPassword, confirmPassword)
	if err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			printlnFn(msgSessionExpired)
			a.forceLogout(ctx)
			return nil
		}
		printlnFn(userMessage(err))
		return nil
	}

	printlnFn(msg)
	return nil
}

// requireView checks that the current view offers the command.
func (a *App) requireView(cmd string, allowed ...State) bool {
	state := a.router.State()
	for _, s := range allowed {
		if state == s {
			return true
		}
	}
	if state == StateLoggedOut {
		printlnFn("Connectez-vous d'abord.")
	} else {
		printlnFn(fmt.Sprintf("Commande '%s' indisponible dans la vue %s.", cmd, state))
	}
	return false
}

// reportDownload prints the outcome of a download attempt. Failures are
// transient alerts: the session and the loaded views are untouched.
func (a *App) reportDownload(path string, err error) {
	if err != nil {
		printlnFn(msgDownloadError)
		return
	}
	printlnFn("Enregistré : " + path)
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	noticeExpiry()
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Refresh(ctx context.Context) error
	Download(ctx context.Context, args []string) error
	DownloadAll(ctx context.Context, args []string) error
	DownloadMaintenance(ctx context.Context, args []string) error
	DownloadMaintenanceAll(ctx context.Context, args []string) error
	ChangePassword(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit". Before every prompt the loop drains a pending
// session-expiry signal, so a background expiry surfaces at the next
// interaction rather than mid-typing.
//
// Commands when not logged in: help, login, exit.
// Commands when logged in: help, list, refresh, get, getall, mget, mgetall,
// passwd, logout, exit. The download commands are subject to the current
// view.
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		a.noticeExpiry()

		printlnFn(fmt.Sprintf("borobo> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Commandes : (l)ist, refresh, get, getall, mget, mgetall, passwd, logout, exit")
			} else {
				printlnFn("Commandes : login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "get":
			_ = a.Download(ctx, args)

		case "getall":
			_ = a.DownloadAll(ctx, args)

		case "mget":
			_ = a.DownloadMaintenance(ctx, args)

		case "mgetall":
			_ = a.DownloadMaintenanceAll(ctx, args)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Au revoir !")
			return

		default:
			printlnFn("Commande inconnue :", cmd)
		}
	}
}

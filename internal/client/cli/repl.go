package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	NewChat(ctx context.Context) error
	List(ctx context.Context) error
	Open(ctx context.Context) error
	Send(ctx context.Context) error
	Attach(ctx context.Context) error
	History(ctx context.Context) error
	Delete(ctx context.Context) error
	Wipe(ctx context.Context) error
	Feedback(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the chatvault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cv> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: new, (l)ist, open, (s)end, attach, history, delete, wipe, feedback, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "new":
			_ = a.NewChat(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "open":
			_ = a.Open(ctx)

		case "s", "send":
			_ = a.Send(ctx)

		case "attach":
			_ = a.Attach(ctx)

		case "history":
			_ = a.History(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "wipe":
			_ = a.Wipe(ctx)

		case "feedback":
			_ = a.Feedback(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

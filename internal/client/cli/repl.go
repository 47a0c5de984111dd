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
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Secret(ctx context.Context) error
	Profile(ctx context.Context) error
	Categories(ctx context.Context) error
	Search(ctx context.Context, prefix string) error
	Interests(ctx context.Context, titles []string) error
	Upload(ctx context.Context, path string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit". Command
// errors are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("pb> %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, secret, profile, categories, search <prefix>, interests <titles>, upload <path>, refresh, logout, exit")
			} else {
				printlnFn("Available commands: register, login, categories, search <prefix>, upload <path>, exit")
			}

		case "register":
			report(a.Register(ctx))

		case "login":
			report(a.Login(ctx))

		case "refresh":
			report(a.Refresh(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "whoami":
			report(a.WhoAmI(ctx))

		case "secret":
			report(a.Secret(ctx))

		case "profile":
			report(a.Profile(ctx))

		case "categories":
			report(a.Categories(ctx))

		case "search":
			report(a.Search(ctx, rest))

		case "interests":
			titles := splitList(rest)
			if len(titles) == 0 {
				printlnFn("Usage: interests <title>[, <title>...]")
				continue
			}
			report(a.Interests(ctx, titles))

		case "upload":
			if rest == "" {
				printlnFn("Usage: upload <path>")
				continue
			}
			report(a.Upload(ctx, rest))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/petadopt/internal/client/guard"
	"github.com/dmitrijs2005/petadopt/internal/client/session"
	"github.com/dmitrijs2005/petadopt/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	snapshot() session.State
	revalidate(ctx context.Context)
	exec(ctx context.Context, r route, args []string) error
	report(ctx context.Context, err error)
	takeLoginRequest() bool
}

// runREPL starts a simple read–eval–print loop for the petadopt CLI.
//
// It reads a line from reader, parses the first token as the command, and
// looks it up in the route table. Protected routes pass through the access
// guards first:
//
//   - no session: the login flow runs and, if it succeeds, the original
//     command is resumed;
//   - wrong role: a 403 line is printed and nothing else happens;
//   - session still loading: the command is not run.
//
// When the server rejects the session during a command, the login flow runs
// right after it. The loop exits on EOF or when the user types "exit" or
// "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("pets %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText(a.snapshot()))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		r, ok := findRoute(cmd)
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}

		dispatch(ctx, a, r, args)

		if a.takeLoginRequest() {
			printlnFn("Please login again.")
			login, _ := findRoute("login")
			a.report(ctx, a.exec(ctx, login, nil))
		}
	}
}

// dispatch runs r behind its guards.
func dispatch(ctx context.Context, a execIface, r route, args []string) {
	if r.public {
		a.report(ctx, a.exec(ctx, r, args))
		return
	}

	a.revalidate(ctx)
	dest := strings.TrimSpace(r.name + " " + strings.Join(args, " "))

	d := guard.Check(a.snapshot(), dest, r.roles...)
	if d.Outcome == guard.RedirectLogin {
		printlnFn("Please login to continue.")
		login, _ := findRoute("login")
		if err := a.exec(ctx, login, nil); err != nil {
			a.report(ctx, err)
			return
		}
		printlnFn("Resuming:", d.Next)
		d = guard.Check(a.snapshot(), d.Next, r.roles...)
	}

	switch d.Outcome {
	case guard.Allow:
		a.report(ctx, a.exec(ctx, r, args))
	case guard.Forbidden:
		printlnFn(common.MsgForbiddenPage)
	case guard.Pending:
		printlnFn("Loading session, try again.")
	case guard.RedirectLogin:
		printlnFn("Not logged in.")
	}
}

func helpText(s session.State) string {
	var names []string
	for _, r := range routes {
		if r.public || guard.Check(s, r.name, r.roles...).Outcome == guard.Allow {
			names = append(names, r.name)
		}
	}
	names = append(names, "help", "exit")
	return "Available commands: " + strings.Join(names, ", ")
}

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
	Signup(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	EditProfile(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Tags(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: signup, login, open <shareId>, exit"
	helpLoggedIn  = "Available commands: (l)ist, filter [type=..] [search=..] [tag=..] | filter reset, show <id>, add, edit <id>, delete <id>, tags, share <id>..., open <shareId>, profile, editprofile, export, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a. Commands
// that need a session are refused while logged out. Handler errors are
// printed and the loop continues; it exits on EOF, "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sb %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}

		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error
		needsLogin := true

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "signup":
			handler, needsLogin = a.Signup, false
		case "login":
			handler, needsLogin = a.Login, false
		case "open":
			handler, needsLogin = a.Open, false
		case "logout":
			handler = a.Logout
		case "profile":
			handler = a.Profile
		case "editprofile":
			handler = a.EditProfile
		case "l", "list":
			handler = a.List
		case "filter":
			handler = a.Filter
		case "show":
			handler = a.Show
		case "add":
			handler = a.Add
		case "edit":
			handler = a.Edit
		case "delete":
			handler = a.Delete
		case "tags":
			handler = a.Tags
		case "share":
			handler = a.Share
		case "export":
			handler = a.Export
		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if needsLogin && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		if err := handler(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

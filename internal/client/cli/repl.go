package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isSignedIn() bool
	SignIn(ctx context.Context, args []string) error
	Switch(ctx context.Context, args []string) error
	Matches(ctx context.Context, args []string) error
	Pass(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Reveal(ctx context.Context, args []string) error
	Replies(ctx context.Context, args []string) error
	Send(ctx context.Context, args []string) error
	Record(ctx context.Context, args []string) error
	Stop(ctx context.Context, args []string) error
	Play(ctx context.Context, args []string) error
}

const (
	helpSignedOut = "Available commands: signin [email|facebook|x], switch <actor>, exit"
	helpSignedIn  = "Available commands: (m)atches, pass <listing>, save <listing>, reset, (h)istory, show <record>, " +
		"reveal <record>, replies <record>, send <record> <text>, record [record], stop, play <record>, signin, switch <actor>, exit"
)

// runREPL reads one command per line and dispatches it to a. Handler errors
// are printed and the loop continues. It returns on EOF, "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	prompt := interactive()

	for {
		if prompt {
			printFn(fmt.Sprintf("matchbox %s> ", statusFn()))
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error
		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "signin", "login":
			handler = a.SignIn
		case "switch":
			handler = a.Switch
		case "m", "matches":
			handler = a.Matches
		case "pass":
			handler = a.Pass
		case "save":
			handler = a.Save
		case "reset":
			handler = a.Reset
		case "h", "history":
			handler = a.History
		case "show":
			handler = a.Show
		case "reveal":
			handler = a.Reveal
		case "replies":
			handler = a.Replies
		case "send":
			handler = a.Send
		case "record":
			handler = a.Record
		case "stop":
			handler = a.Stop
		case "play":
			handler = a.Play

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err := handler(ctx, args); err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}

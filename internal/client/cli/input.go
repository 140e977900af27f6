package cli

import (
	"os"

	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// interactive reports whether stdin is a terminal. Prompts are only printed
// then, so piped scripts produce clean output.
func interactive() bool {
	return isTerminal(int(os.Stdin.Fd()))
}

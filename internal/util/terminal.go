package util

import (
	"os"

	"golang.org/x/term"
)

// TerminalWidth returns the column count of f when f is a terminal
func TerminalWidth(f *os.File) (int, bool) {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}

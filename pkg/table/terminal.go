package table

import (
	"errors"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultColumns is the width used when the terminal cannot be queried.
const DefaultColumns = 79

// ErrNoTerminal is returned by TerminalColumns when there is no interactive
// input device to ask.
var ErrNoTerminal = errors.New("no interactive terminal")

// ColumnSource reports the current terminal width in columns.
type ColumnSource interface {
	Columns() (int, error)
}

// FixedColumns is a ColumnSource that always reports the same width.
type FixedColumns int

// Columns implements ColumnSource.
func (f FixedColumns) Columns() (int, error) { return int(f), nil }

// TerminalColumns asks the controlling terminal for its width. It probes
// stdout, stderr and stdin, then falls back to $COLUMNS.
type TerminalColumns struct {
	// Stdin decides whether an interactive terminal is attached. Defaults to os.Stdin.
	Stdin *os.File
	// Probe lists the files whose size is queried. Defaults to stdout, stderr, stdin.
	Probe []*os.File
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

var (
	termGetSize = term.GetSize
	isTerminal  = func(fd uintptr) bool { return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) }
)

// Columns implements ColumnSource.
func (t TerminalColumns) Columns() (int, error) {
	in := t.Stdin
	if in == nil {
		in = os.Stdin
	}
	if in == nil || !isTerminal(in.Fd()) {
		return 0, ErrNoTerminal
	}
	probe := t.Probe
	if len(probe) == 0 {
		probe = []*os.File{os.Stdout, os.Stderr, in}
	}
	for _, f := range probe {
		if f == nil {
			continue
		}
		if w, _, err := termGetSize(int(f.Fd())); err == nil && w > 0 {
			return w, nil
		}
	}
	getenv := t.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if col := getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, nil
		}
	}
	return 0, errors.New("terminal size unavailable")
}

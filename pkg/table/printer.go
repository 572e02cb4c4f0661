// Package table prints key/value pairs as a bordered block that adapts to
// the terminal width. Pairs are packed one or two per line, and values that
// do not fit are wrapped or truncated.
package table

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-logr/logr"
)

// DefaultBorder is the character used for the head and foot lines.
const DefaultBorder = "="

// DefaultValueColor is the style applied to values unless changed.
const DefaultValueColor = "green"

// Printer renders one set of entries. A Printer is not safe for concurrent
// use; distinct Printers are independent.
type Printer struct {
	entries      []Entry
	head         string
	foot         string
	borderWidth  int
	valueStyle   []string
	overflowHide bool

	oracle  WidthOracle
	styler  Styler
	columns ColumnSource
	lgr     logr.Logger

	termOnce sync.Once
	termCols int
}

// Option configures a Printer at construction.
type Option func(*Printer)

// WithHead sets the head border. Only its first character is repeated.
func WithHead(s string) Option { return func(p *Printer) { p.head = s } }

// WithFoot sets the foot border. Only its first character is repeated.
func WithFoot(s string) Option { return func(p *Printer) { p.foot = s } }

// WithWidthOracle replaces the default go-runewidth measurement.
func WithWidthOracle(o WidthOracle) Option { return func(p *Printer) { p.oracle = o } }

// WithStyler replaces the default ANSI styler.
func WithStyler(s Styler) Option { return func(p *Printer) { p.styler = s } }

// WithColumnSource replaces the terminal query.
func WithColumnSource(c ColumnSource) Option { return func(p *Printer) { p.columns = c } }

// WithLogger attaches a logger. Layout decisions are logged at V(1).
func WithLogger(lgr logr.Logger) Option { return func(p *Printer) { p.lgr = lgr } }

// New returns a Printer for entries. The border width starts at the
// smaller of DefaultColumns and the terminal width; use SetBorderWidth to
// change it.
func New(entries []Entry, opts ...Option) *Printer {
	p := &Printer{
		entries:    entries,
		head:       DefaultBorder,
		foot:       DefaultBorder,
		valueStyle: []string{DefaultValueColor},
		oracle:     RuneWidth{},
		styler:     ANSIStyler{},
		columns:    TerminalColumns{},
		lgr:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p.SetBorderWidth(DefaultColumns)
}

// SetValueColor sets a single color for values. RandomColor picks one of
// RandomColors.
func (p *Printer) SetValueColor(color string) *Printer {
	if color == RandomColor {
		color = pickRandomColor()
	}
	p.valueStyle = []string{color}
	return p
}

// SetValueStyle sets the full style list for values. No styles disables
// value styling.
func (p *Printer) SetValueStyle(styles ...string) *Printer {
	p.valueStyle = append([]string(nil), styles...)
	return p
}

// AddValueStyle appends styles such as "bold" or "bg_blue" to the value
// style list.
func (p *Printer) AddValueStyle(styles ...string) *Printer {
	p.valueStyle = append(p.valueStyle, styles...)
	return p
}

// SetRowOverflowHide selects truncation (true) or wrapping (false) for
// values wider than a line.
func (p *Printer) SetRowOverflowHide(hide bool) *Printer {
	p.overflowHide = hide
	return p
}

// SetBorderWidth sets the maximum line width. A width <= 0 uses the whole
// terminal; otherwise the width is capped at the terminal width.
func (p *Printer) SetBorderWidth(width int) *Printer {
	cols := p.TerminalColumns()
	if width <= 0 {
		p.borderWidth = cols
	} else {
		p.borderWidth = min(width, cols)
	}
	return p
}

// BorderWidth returns the resolved line width.
func (p *Printer) BorderWidth() int { return p.borderWidth }

// TerminalColumns returns the terminal width. The terminal is queried once
// per Printer; DefaultColumns is used when it cannot be.
func (p *Printer) TerminalColumns() int {
	p.termOnce.Do(func() {
		p.termCols = DefaultColumns
		if p.columns == nil {
			return
		}
		cols, err := p.columns.Columns()
		if err != nil {
			p.lgr.V(1).Info("terminal width unavailable, using default", "error", err.Error(), "columns", DefaultColumns)
			return
		}
		if cols > 0 {
			p.termCols = cols
		}
	})
	return p.termCols
}

// Config returns the settings the next render will use.
func (p *Printer) Config() LayoutConfig {
	return LayoutConfig{
		BorderWidth:  p.borderWidth,
		ValueStyle:   append([]string(nil), p.valueStyle...),
		OverflowHide: p.overflowHide,
	}
}

// HeadLine returns the head border.
func (p *Printer) HeadLine() string { return p.border(p.head) }

// FootLine returns the foot border.
func (p *Printer) FootLine() string { return p.border(p.foot) }

func (p *Printer) border(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if s == "" || r == utf8.RuneError {
		r = '='
	}
	return strings.Repeat(string(r), p.borderWidth)
}

// BodyLines lays out the entries and returns the body lines, each with its
// one-space margin.
func (p *Printer) BodyLines() []string {
	body := layoutBody(p.entries, p.Config(), p.oracle, p.styler, p.lgr)
	for i, line := range body {
		body[i] = " " + line
	}
	return body
}

// Lines returns head, body and foot in print order.
func (p *Printer) Lines() []string {
	body := p.BodyLines()
	out := make([]string, 0, len(body)+2)
	out = append(out, p.HeadLine())
	out = append(out, body...)
	return append(out, p.FootLine())
}

// PrintAll writes head, body and foot to w.
func (p *Printer) PrintAll(w io.Writer) error {
	return writeLines(w, p.Lines())
}

// PrintHead writes the head border to w.
func (p *Printer) PrintHead(w io.Writer) error {
	return writeLines(w, []string{p.HeadLine()})
}

// PrintBody writes the body lines to w.
func (p *Printer) PrintBody(w io.Writer) error {
	return writeLines(w, p.BodyLines())
}

// PrintFoot writes the foot border to w.
func (p *Printer) PrintFoot(w io.Writer) error {
	return writeLines(w, []string{p.FootLine()})
}

func writeLines(w io.Writer, lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

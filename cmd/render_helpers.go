package cmd

import (
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/oakwood-commons/kvtable/internal/config"
	"github.com/oakwood-commons/kvtable/pkg/table"
)

var (
	outputIsTerminal = func(fd uintptr) bool { return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) }
	colorProfile     = termenv.ColorProfile
)

// detectStyler returns ANSIStyler when w is a color-capable terminal and
// color was not disabled, PlainStyler otherwise.
func detectStyler(w io.Writer, noColor bool) table.Styler {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return table.PlainStyler{}
	}
	f, ok := w.(*os.File)
	if !ok || !outputIsTerminal(f.Fd()) {
		return table.PlainStyler{}
	}
	if colorProfile() == termenv.Ascii {
		return table.PlainStyler{}
	}
	return table.ANSIStyler{}
}

// newPrinter builds a Printer for entries from the table section of cfg.
func newPrinter(cfg config.Config, entries []table.Entry, styler table.Styler, lgr logr.Logger) *table.Printer {
	tc := cfg.Table
	opts := []table.Option{
		table.WithStyler(styler),
		table.WithColumnSource(columnSource),
		table.WithWidthOracle(table.NewRuneWidth(tc.EastAsianAmbiguous)),
		table.WithLogger(lgr),
	}
	if tc.Head != "" {
		opts = append(opts, table.WithHead(tc.Head))
	}
	if tc.Foot != "" {
		opts = append(opts, table.WithFoot(tc.Foot))
	}

	p := table.New(entries, opts...)
	if tc.Color == "" {
		p.SetValueStyle()
	} else {
		p.SetValueColor(tc.Color)
	}
	for _, s := range tc.Style {
		if !table.IsKnownStyle(s) {
			lgr.Info("ignoring unknown value style", "style", s)
			continue
		}
		p.AddValueStyle(s)
	}
	return p.SetRowOverflowHide(tc.HideOverflow).SetBorderWidth(tc.Width)
}

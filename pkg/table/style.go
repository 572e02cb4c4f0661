package table

import (
	"image/color"
	"math/rand/v2"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
)

// Styler decorates text with a list of named styles. Style names are opaque
// to the layout engine.
type Styler interface {
	Apply(styles []string, text string) string
}

// StylerFunc adapts a plain function to a Styler.
type StylerFunc func(styles []string, text string) string

// Apply implements Styler.
func (f StylerFunc) Apply(styles []string, text string) string { return f(styles, text) }

// PlainStyler returns text unchanged.
type PlainStyler struct{}

// Apply implements Styler.
func (PlainStyler) Apply(_ []string, text string) string { return text }

// RandomColor is the value accepted by SetValueColor to pick a color from
// RandomColors.
const RandomColor = "random"

// RandomColors are the candidates for SetValueColor(RandomColor).
var RandomColors = []string{
	"red", "green", "blue", "yellow", "magenta", "gray",
	"bright_red", "bright_yellow", "bright_green", "bright_blue", "bright_magenta", "bright_cyan",
}

// basic ANSI palette indexes; bright variants are offset by 8.
var ansiColors = map[string]int{
	"black":   0,
	"red":     1,
	"green":   2,
	"yellow":  3,
	"blue":    4,
	"magenta": 5,
	"cyan":    6,
	"white":   7,
	"gray":    8,
	"grey":    8,
}

// ANSIStyler renders named styles as ANSI escape sequences through lipgloss.
// Names it does not recognize are ignored.
type ANSIStyler struct{}

// Apply implements Styler.
func (ANSIStyler) Apply(styles []string, text string) string {
	if len(styles) == 0 || text == "" {
		return text
	}
	st := lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
	touched := false
	for _, name := range styles {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "bold":
			st = st.Bold(true)
		case "dim", "faint":
			st = st.Faint(true)
		case "italic":
			st = st.Italic(true)
		case "underline":
			st = st.Underline(true)
		case "blink":
			st = st.Blink(true)
		case "reverse":
			st = st.Reverse(true)
		case "strikethrough":
			st = st.Strikethrough(true)
		default:
			if bg, ok := strings.CutPrefix(name, "bg_"); ok {
				c, ok := namedColor(bg)
				if !ok {
					continue
				}
				st = st.Background(c)
			} else {
				c, ok := namedColor(name)
				if !ok {
					continue
				}
				st = st.Foreground(c)
			}
		}
		touched = true
	}
	if !touched {
		return text
	}
	return st.Render(text)
}

// namedColor resolves "red", "bright_red" and friends to an ANSI color.
func namedColor(name string) (color.Color, bool) {
	offset := 0
	if base, ok := strings.CutPrefix(name, "bright_"); ok {
		name = base
		offset = 8
	}
	idx, ok := ansiColors[name]
	if !ok {
		return nil, false
	}
	if idx >= 8 && offset > 0 {
		return nil, false
	}
	idx += offset
	return lipgloss.Color(strconv.Itoa(idx)), true
}

// IsKnownStyle reports whether ANSIStyler understands the style name.
func IsKnownStyle(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "bold", "dim", "faint", "italic", "underline", "blink", "reverse", "strikethrough", RandomColor:
		return true
	}
	name = strings.TrimPrefix(name, "bg_")
	_, ok := namedColor(name)
	return ok
}

func pickRandomColor() string {
	return RandomColors[rand.IntN(len(RandomColors))]
}

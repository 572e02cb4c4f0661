package table

import (
	runewidth "github.com/mattn/go-runewidth"
)

// WidthOracle reports how many terminal columns a string occupies.
// Implementations must be consistent across prefixes of the same text so
// that wrapping stays stable.
type WidthOracle interface {
	Width(s string) int
}

// WidthFunc adapts a plain function to a WidthOracle.
type WidthFunc func(s string) int

// Width implements WidthOracle.
func (f WidthFunc) Width(s string) int { return f(s) }

// RuneWidth measures strings with go-runewidth. East-Asian wide and
// fullwidth characters count as two columns.
type RuneWidth struct {
	cond *runewidth.Condition
}

// NewRuneWidth returns a RuneWidth oracle. When eastAsianAmbiguous is true,
// ambiguous-width characters are counted as wide.
func NewRuneWidth(eastAsianAmbiguous bool) RuneWidth {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = eastAsianAmbiguous
	return RuneWidth{cond: cond}
}

// Width implements WidthOracle.
func (r RuneWidth) Width(s string) int {
	if r.cond == nil {
		return runewidth.StringWidth(s)
	}
	return r.cond.StringWidth(s)
}

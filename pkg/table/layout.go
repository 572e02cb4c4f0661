package table

import (
	"strings"
	"unicode/utf8"

	"github.com/go-logr/logr"
)

const (
	// lineMargin is reserved from BorderWidth on every line.
	lineMargin = 2
	// minPackWidth is the smallest usable width that allows two entries per line.
	minPackWidth = 57
	// keyGuard is the room a key needs beyond its own width to be printed at all.
	keyGuard = 5
	// hideRemainder is the widest gap left for filler when truncating.
	hideRemainder = 3

	labelSep     = ": "
	columnSep    = " |  "
	overflowFill = "."
)

// lineSlot is one output line under construction.
type lineSlot struct {
	used          int
	canHoldSecond bool
	text          strings.Builder
}

// partial is a prefix found by widestPrefix. next is the byte offset just
// past the prefix.
type partial struct {
	prefix string
	width  int
	next   int
}

type layout struct {
	cfg    LayoutConfig
	oracle WidthOracle
	styler Styler
	lgr    logr.Logger

	usable int
	mid    int
	slots  []*lineSlot
	cursor int
}

func newLayout(cfg LayoutConfig, oracle WidthOracle, styler Styler, lgr logr.Logger) *layout {
	usable := cfg.BorderWidth - lineMargin
	return &layout{
		cfg:    cfg,
		oracle: oracle,
		styler: styler,
		lgr:    lgr,
		usable: usable,
		mid:    usable/2 - 2 + usable%2,
	}
}

// layoutBody packs entries into body lines. Lines carry no leading margin.
func layoutBody(entries []Entry, cfg LayoutConfig, oracle WidthOracle, styler Styler, lgr logr.Logger) []string {
	l := newLayout(cfg, oracle, styler, lgr)
	for _, e := range entries {
		l.place(e)
	}
	out := make([]string, 0, len(l.slots))
	for _, s := range l.slots {
		if s.used == 0 {
			continue
		}
		out = append(out, s.text.String())
	}
	return out
}

func (l *layout) place(e Entry) {
	kw := l.oracle.Width(e.Key)
	vw := l.oracle.Width(e.Value)
	if kw+keyGuard > l.usable {
		l.lgr.V(1).Info("skipping entry with oversized key", "key", e.Key, "keyWidth", kw, "usableWidth", l.usable)
		return
	}
	for {
		if l.slotEmpty() {
			l.tryEmptySlot(e, kw, vw)
			return
		}
		if l.tryAppendSecond(e, kw, vw) {
			return
		}
		l.advance()
	}
}

func (l *layout) slotEmpty() bool {
	return l.cursor >= len(l.slots) || l.slots[l.cursor].used == 0
}

// slot returns the slot under the cursor, creating it if needed.
func (l *layout) slot() *lineSlot {
	for len(l.slots) <= l.cursor {
		l.slots = append(l.slots, &lineSlot{})
	}
	return l.slots[l.cursor]
}

func (l *layout) advance() { l.cursor++ }

func (l *layout) style(s string) string {
	return l.styler.Apply(l.cfg.ValueStyle, s)
}

func (l *layout) tryEmptySlot(e Entry, kw, vw int) {
	need := kw + len(labelSep) + vw
	s := l.slot()
	if need <= l.usable {
		s.text.WriteString(e.Key + labelSep + l.style(e.Value))
		s.used = need
		s.canHoldSecond = l.usable >= minPackWidth && l.mid > need
		return
	}
	if l.cfg.OverflowHide {
		l.truncate(s, e, kw)
		l.advance()
		return
	}
	l.wrap(s, e, kw)
}

// truncate writes the widest prefix of the value that fits and pads the rest
// of the line with filler.
func (l *layout) truncate(s *lineSlot, e Entry, kw int) {
	avail := l.usable - kw - len(labelSep)
	p := widestPrefix(l.oracle, e.Value, avail, hideRemainder)
	fill := max(avail-p.width, 0)
	s.text.WriteString(e.Key + labelSep + l.style(p.prefix+strings.Repeat(overflowFill, fill)))
	s.used = kw + len(labelSep) + p.width + fill
}

// wrap spreads the value over as many fresh lines as it needs. The cursor
// ends on the line after the last fragment.
func (l *layout) wrap(s *lineSlot, e Entry, kw int) {
	s.text.WriteString(e.Key + labelSep)
	s.used = kw + len(labelSep)
	rest := e.Value
	for rest != "" {
		p := widestPrefix(l.oracle, rest, l.usable-s.used, 0)
		s.text.WriteString(l.style(p.prefix))
		s.used += p.width
		rest = rest[p.next:]
		l.advance()
		if rest != "" {
			s = l.slot()
		}
	}
}

func (l *layout) tryAppendSecond(e Entry, kw, vw int) bool {
	s := l.slots[l.cursor]
	if !s.canHoldSecond || kw+vw+len(labelSep) > l.usable/2-2 {
		return false
	}
	if pad := l.mid - s.used; pad > 0 {
		s.text.WriteString(strings.Repeat(" ", pad))
	}
	s.text.WriteString(columnSep + e.Key + labelSep + l.style(e.Value))
	s.used = max(s.used, l.mid) + len(columnSep) + kw + len(labelSep) + vw
	s.canHoldSecond = false
	l.advance()
	return true
}

// widestPrefix grows a prefix of value one rune at a time until the value is
// used up or no more than remainder columns of available are left. A rune
// that would overshoot available is only taken when the prefix is empty.
func widestPrefix(oracle WidthOracle, value string, available, remainder int) partial {
	var p partial
	for p.next < len(value) {
		_, size := utf8.DecodeRuneInString(value[p.next:])
		next := p.next + size
		candidate := value[:next]
		w := oracle.Width(candidate)
		if w > available && p.next > 0 {
			break
		}
		p = partial{prefix: candidate, width: w, next: next}
		if available-w <= remainder {
			break
		}
	}
	return p
}

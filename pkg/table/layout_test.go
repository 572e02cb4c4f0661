package table

import (
	"regexp"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bracketStyler = StylerFunc(func(_ []string, text string) string {
	return "<" + text + ">"
})

func plainBody(entries []Entry, width int, hide bool) []string {
	cfg := LayoutConfig{BorderWidth: width, OverflowHide: hide}
	return layoutBody(entries, cfg, RuneWidth{}, PlainStyler{}, logr.Discard())
}

func TestWidestPrefix(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		available int
		remainder int
		want      partial
	}{
		{
			name:      "whole value fits",
			value:     "abc",
			available: 10,
			want:      partial{prefix: "abc", width: 3, next: 3},
		},
		{
			name:      "hard limit",
			value:     "abcdefgh",
			available: 5,
			want:      partial{prefix: "abcde", width: 5, next: 5},
		},
		{
			name:      "reserved remainder",
			value:     "abcdefgh",
			available: 6,
			remainder: 3,
			want:      partial{prefix: "abc", width: 3, next: 3},
		},
		{
			name:      "wide rune not split past the limit",
			value:     "中文字",
			available: 5,
			want:      partial{prefix: "中文", width: 4, next: 6},
		},
		{
			name:      "first rune always taken",
			value:     "中文",
			available: 1,
			want:      partial{prefix: "中", width: 2, next: 3},
		},
		{
			name:      "empty value",
			value:     "",
			available: 4,
			want:      partial{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := widestPrefix(RuneWidth{}, tt.value, tt.available, tt.remainder)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLayoutSingleEntry(t *testing.T) {
	body := plainBody(Pairs("path", "X"), 20, false)
	assert.Equal(t, []string{"path: X"}, body)
}

func TestLayoutTwoColumns(t *testing.T) {
	body := plainBody(Pairs("a", "1", "b", "2", "c", "3"), 79, false)
	require.Len(t, body, 2)
	// usable 77, midpoint column 37
	assert.Equal(t, "a: 1"+strings.Repeat(" ", 33)+" |  b: 2", body[0])
	assert.Equal(t, "c: 3", body[1])
}

func TestLayoutNeverPacksBelowMinimum(t *testing.T) {
	entries := Pairs("a", "1", "b", "2")

	t.Run("usable 56", func(t *testing.T) {
		assert.Equal(t, []string{"a: 1", "b: 2"}, plainBody(entries, 58, false))
	})

	t.Run("usable 57", func(t *testing.T) {
		body := plainBody(entries, 59, false)
		require.Len(t, body, 1)
		assert.Contains(t, body[0], columnSep)
	})
}

func TestLayoutSecondEntryTooWide(t *testing.T) {
	// usable 77: a second entry must fit in 36 columns
	wide := strings.Repeat("w", 35)
	body := plainBody(Pairs("a", "1", "b", wide, "c", "3"), 79, false)
	assert.Equal(t, []string{"a: 1", "b: " + wide, "c: 3"}, body)
}

func TestLayoutWideFirstEntryBlocksSecond(t *testing.T) {
	// need 37 equals the midpoint, so no second column
	first := strings.Repeat("v", 34)
	body := plainBody(Pairs("k", first, "b", "2"), 79, false)
	assert.Equal(t, []string{"k: " + first, "b: 2"}, body)
}

func TestLayoutSkipsOversizedKey(t *testing.T) {
	// usable 18: a key of width 14 needs 19
	body := plainBody(Pairs("abcdefghijklmn", "v", "abcdefghijklm", "v"), 20, false)
	assert.Equal(t, []string{"abcdefghijklm: v"}, body)
}

func TestLayoutOverflowHide(t *testing.T) {
	value := strings.Repeat("abcdefghij", 20)
	body := plainBody(Pairs("k", value), 79, true)
	require.Len(t, body, 1)
	// avail 74, truncation stops within 3 columns of the edge
	assert.Equal(t, "k: "+value[:71]+"...", body[0])
	assert.NotContains(t, body[0], value)
}

func TestLayoutOverflowHideWideRunes(t *testing.T) {
	value := strings.Repeat("中", 40)
	body := plainBody(Pairs("k", value), 20, true)
	require.Len(t, body, 1)
	// usable 18, avail 15: six runes reach 12 and leave 3 for filler
	assert.Equal(t, "k: "+strings.Repeat("中", 6)+"...", body[0])
}

func TestLayoutOverflowHideAdvancesCursor(t *testing.T) {
	value := strings.Repeat("x", 200)
	body := plainBody(Pairs("k", value, "a", "1", "b", "2"), 79, true)
	require.Len(t, body, 2)
	assert.True(t, strings.HasPrefix(body[0], "k: "))
	assert.Equal(t, "a: 1"+strings.Repeat(" ", 33)+" |  b: 2", body[1])
}

func TestLayoutWrap(t *testing.T) {
	value := strings.Repeat("abcdefghij", 20)
	body := plainBody(Pairs("k", value), 79, false)
	assert.Equal(t, []string{
		"k: " + value[:74],
		value[74:151],
		value[151:],
	}, body)
}

func TestLayoutWrapExactFit(t *testing.T) {
	// the last fragment fills its line, no blank line follows
	value := strings.Repeat("x", 74+77)
	body := plainBody(Pairs("k", value, "a", "1"), 79, false)
	require.Len(t, body, 3)
	assert.Equal(t, value[74:], body[1])
	assert.Equal(t, "a: 1", body[2])
}

func TestLayoutWrapWideRunes(t *testing.T) {
	value := strings.Repeat("中", 20)
	body := plainBody(Pairs("k", value), 20, false)
	assert.Equal(t, []string{
		"k: " + strings.Repeat("中", 7),
		strings.Repeat("中", 9),
		strings.Repeat("中", 4),
	}, body)
}

func TestLayoutWrapIsLossless(t *testing.T) {
	fragment := regexp.MustCompile(`<([^<>]*)>`)
	values := []string{
		strings.Repeat("abcdefghij", 20),
		strings.Repeat("我可以很长", 30),
		"mixed 中文 and ascii " + strings.Repeat("z中", 60),
	}
	for _, width := range []int{20, 40, 57, 79, 120} {
		for _, value := range values {
			cfg := LayoutConfig{BorderWidth: width}
			body := layoutBody(Pairs("key", value), cfg, RuneWidth{}, bracketStyler, logr.Discard())
			var got strings.Builder
			for _, m := range fragment.FindAllStringSubmatch(strings.Join(body, "\n"), -1) {
				got.WriteString(m[1])
			}
			assert.Equal(t, value, got.String(), "width %d", width)
		}
	}
}

func TestLayoutStylesEveryFragment(t *testing.T) {
	cfg := LayoutConfig{BorderWidth: 79, OverflowHide: true}
	body := layoutBody(Pairs("k", strings.Repeat("x", 100), "a", "1"), cfg, RuneWidth{}, bracketStyler, logr.Discard())
	require.Len(t, body, 2)
	assert.Equal(t, "k: <"+strings.Repeat("x", 71)+"...>", body[0])
	assert.Equal(t, "a: <1>", body[1])
}

func TestLayoutEmpty(t *testing.T) {
	assert.Empty(t, plainBody(nil, 79, false))
}

func TestLayoutProperties(t *testing.T) {
	entries := Pairs(
		"name", "kvtable",
		"path", "我是一端比较牛逼的终端打印工具",
		"version", "1.2.3",
		"long", strings.Repeat("很长", 50),
		"short", "x",
		"中文级别的key", "并且支持中文！！",
		"ascii", strings.Repeat("0123456789", 15),
		"a-rather-long-key-name", "value",
		"id", "42",
	)
	for _, hide := range []bool{false, true} {
		for width := 1; width <= 140; width++ {
			body := plainBody(entries, width, hide)
			joined := strings.Join(body, "\n")
			usable := width - lineMargin
			for _, line := range body {
				assert.LessOrEqual(t, runewidth.StringWidth(" "+line), width+1, "width %d hide %v: %q", width, hide, line)
				if usable < minPackWidth {
					assert.NotContains(t, line, columnSep, "width %d packs below minimum", width)
				}
			}
			for _, e := range entries {
				fits := runewidth.StringWidth(e.Key)+keyGuard <= usable
				if fits {
					assert.Contains(t, joined, e.Key+labelSep, "width %d hide %v", width, hide)
				} else {
					assert.NotContains(t, joined, e.Key, "width %d hide %v", width, hide)
				}
			}
		}
	}
}

func TestLayoutTruncationBound(t *testing.T) {
	value := strings.Repeat("超出宽度自动省略", 20)
	for width := 10; width <= 140; width++ {
		kw := runewidth.StringWidth("key")
		body := plainBody(Pairs("key", value), width, true)
		if kw+keyGuard > width-lineMargin {
			assert.Empty(t, body)
			continue
		}
		require.Len(t, body, 1, "width %d", width)
		shown := strings.TrimPrefix(body[0], "key: ")
		assert.LessOrEqual(t, runewidth.StringWidth(shown), width-lineMargin-kw-len(labelSep), "width %d", width)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	cfg := LayoutConfig{BorderWidth: 40, ValueStyle: []string{"green"}}
	body := layoutBody(Pairs("key", "plain value"), cfg, RuneWidth{}, bracketStyler, logr.Discard())
	assert.Equal(t, []string{"key: <plain value>"}, body)
}

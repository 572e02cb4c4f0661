package table

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestANSIStyler(t *testing.T) {
	s := ANSIStyler{}

	t.Run("no styles is identity", func(t *testing.T) {
		assert.Equal(t, "value", s.Apply(nil, "value"))
	})

	t.Run("unknown styles are ignored", func(t *testing.T) {
		assert.Equal(t, "value", s.Apply([]string{"not-a-color"}, "value"))
	})

	t.Run("known styles decorate", func(t *testing.T) {
		for _, styles := range [][]string{
			{"green"},
			{"bright_cyan"},
			{"bg_bright_red", "white", "blink"},
			{"underline", "red"},
			{"gray"},
		} {
			got := s.Apply(styles, "value")
			assert.Contains(t, got, "\x1b[", "styles %v", styles)
			assert.Equal(t, "value", ansi.Strip(got), "styles %v", styles)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, s.Apply([]string{"green"}, ""))
	})
}

func TestPlainStyler(t *testing.T) {
	assert.Equal(t, "value", PlainStyler{}.Apply([]string{"red", "bold"}, "value"))
}

func TestIsKnownStyle(t *testing.T) {
	for _, name := range []string{"red", "bright_blue", "bg_green", "bg_bright_white", "bold", "random", "Gray"} {
		assert.True(t, IsKnownStyle(name), name)
	}
	for _, name := range []string{"", "purple", "bright_gray", "bg_", "bright_bold"} {
		assert.False(t, IsKnownStyle(name), name)
	}
}

func TestRandomColorsAreKnown(t *testing.T) {
	for _, c := range RandomColors {
		assert.True(t, IsKnownStyle(c), c)
	}
	assert.Contains(t, RandomColors, pickRandomColor())
}

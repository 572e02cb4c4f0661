package logger

import (
	"errors"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want int8
	}{
		{name: "emergency", want: 5},
		{name: "alert", want: 4},
		{name: "critical", want: 3},
		{name: "error", want: 2},
		{name: "warning", want: 1},
		{name: "warn", want: 1},
		{name: "notice", want: 0},
		{name: "info", want: 0},
		{name: "debug", want: -1},
		{name: "  DEBUG ", want: -1},
		{name: "-3", want: -3},
		{name: "2", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if err != nil {
				t.Fatalf("ParseLevel(%q) returned error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseLevelInvalid(t *testing.T) {
	for _, name := range []string{"", "invalid", "verbose", "6", "-11"} {
		_, err := ParseLevel(name)
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("ParseLevel(%q) error = %v, want ErrInvalidLevel", name, err)
		}
	}
}

func TestLevelNamesParse(t *testing.T) {
	for _, name := range LevelNames() {
		if _, err := ParseLevel(name); err != nil {
			t.Errorf("LevelNames entry %q does not parse: %v", name, err)
		}
	}
}

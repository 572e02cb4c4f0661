package logger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
)

// ErrInvalidLevel is returned for severity names ParseLevel does not know.
var ErrInvalidLevel = errors.New("invalid log level")

// Severity names, most severe first.
const (
	LevelEmergency = "emergency"
	LevelAlert     = "alert"
	LevelCritical  = "critical"
	LevelError     = "error"
	LevelWarning   = "warning"
	LevelNotice    = "notice"
	LevelInfo      = "info"
	LevelDebug     = "debug"
)

// severities maps each name onto the zap level used as the minimum.
// notice has no zap counterpart and shares info's level.
var severities = map[string]zapcore.Level{
	LevelEmergency: zapcore.FatalLevel,
	LevelAlert:     zapcore.PanicLevel,
	LevelCritical:  zapcore.DPanicLevel,
	LevelError:     zapcore.ErrorLevel,
	LevelWarning:   zapcore.WarnLevel,
	"warn":         zapcore.WarnLevel,
	LevelNotice:    zapcore.InfoLevel,
	LevelInfo:      zapcore.InfoLevel,
	LevelDebug:     zapcore.DebugLevel,
}

// ParseLevel converts a severity name, or a numeric zap level, into the
// value expected by Options.Level.
func ParseLevel(name string) (int8, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if lvl, ok := severities[key]; ok {
		return int8(lvl), nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= int(zapcore.DebugLevel)-9 && n <= int(zapcore.FatalLevel) {
		return int8(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// LevelNames lists the accepted severity names, most severe first.
func LevelNames() []string {
	return []string{
		LevelEmergency, LevelAlert, LevelCritical, LevelError,
		LevelWarning, LevelNotice, LevelInfo, LevelDebug,
	}
}

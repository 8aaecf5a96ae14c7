// Package log is the logging facade used throughout weft. It discards
// everything until a logger is installed, so the library is silent by
// default
package log

import (
	"io"

	"golang.org/x/exp/slog"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger installs l as the destination for all weft logs. Passing nil
// restores the discarding default
func SetLogger(l *slog.Logger) {
	if l == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return
	}
	logger = l
}

func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

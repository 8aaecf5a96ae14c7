package weft

import "golang.org/x/exp/slog"

// Options provide setup options for panes and sessions
type Options struct {
	// Logger is an optional slog.Logger to receive logs. weft logs using
	// the stdlib levels
	Logger *slog.Logger

	// ScrollbackLimit is the maximum number of lines retained after they
	// scroll off the top of a pane. 0 means the default of 10,000;
	// negative disables scrollback
	ScrollbackLimit int

	// WidthMethod selects how grapheme widths are measured
	WidthMethod WidthMethod

	// TERM is the value of TERM in the child environment. Defaults to
	// "xterm-256color"
	TERM string

	// Environ is the base child environment. Defaults to os.Environ()
	Environ []string
}

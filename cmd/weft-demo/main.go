// Command weft-demo runs a shell session with one vertical split and
// mirrors it to the hosting terminal as plain text. It is a smoke test for
// the emulation core, not a real terminal emulator
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"golang.org/x/exp/slog"
	xterm "golang.org/x/term"

	"github.com/weftterm/weft"
	"github.com/weftterm/weft/session"
	"github.com/weftterm/weft/term"
)

func main() {
	shell := flag.String("shell", "", "shell to run (defaults to $SHELL)")
	verbose := flag.Bool("v", false, "log debug output to stderr")
	split := flag.Bool("split", true, "open with a vertical split")
	flag.Parse()

	var logger *slog.Logger
	if *verbose {
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			AddSource:  true,
			Level:      slog.LevelDebug,
			TimeFormat: "15:04:05.000",
		}))
	}

	if err := run(*shell, *split, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(shell string, split bool, logger *slog.Logger) error {
	size, err := term.HostSize(int(os.Stdin.Fd()))
	if err != nil {
		size = term.Size{Rows: 24, Cols: 80}
	}

	sess, err := session.New(size.Rows, size.Cols, session.Options{
		Shell: shell,
		Pane:  weft.Options{Logger: logger},
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	if split {
		if _, err := sess.SplitFocused(session.Horizontal, 0.5); err != nil {
			return err
		}
	}

	state, err := xterm.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	defer func() {
		_ = xterm.Restore(int(os.Stdin.Fd()), state)
	}()

	// forward host input to the focused pane; ctrl-q detaches
	go func() {
		buf := make([]byte, 1024)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			for _, b := range buf[:n] {
				if b == 0x11 { // ctrl-q
					sess.Close()
					return
				}
			}
			sess.RouteBytes(buf[:n])
		}
	}()

	for ev := range sess.Events() {
		switch ev.Event.(type) {
		case weft.Redraw:
			// home the host cursor and repaint
			fmt.Print("\x1b[H\x1b[2J")
			fmt.Print(sess.Render())
		case weft.EventClosed:
			if ev.Pane == uuid.Nil {
				// the session itself ended
				return nil
			}
		}
	}
	return nil
}

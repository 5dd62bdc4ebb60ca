package vm

import (
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/exp/slog"
)

// log is the interpreter's trace/debug sink. It is never fmt.Println —
// tracing output goes through slog like the rest of the codebase, with
// color only when stderr is an actual terminal.
var log *slog.Logger

func init() {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(colorable.NewColorableStderr(), &slog.HandlerOptions{Level: slog.LevelWarn})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	}
	log = slog.New(handler)
}

// SetLogLevel adjusts the interpreter logger's minimum level, e.g. to
// slog.LevelDebug for opcode-by-opcode tracing during development.
func SetLogLevel(level slog.Level) {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(colorable.NewColorableStderr(), &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	log = slog.New(handler)
}

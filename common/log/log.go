package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// Options controls the process wide logger.
type Options struct {
	// debug, info, warn or error, case-insensitive; invalid values fall back to info
	Level string
	// json or text
	Format string
	// optional file receiving a copy of every record, e.g. logs/app.log
	File string
	// defaults to os.Stdout
	Output io.Writer
}

// Setup builds the logger described by opt and installs it as slog default.
// The returned close func releases the log file, if any.
func Setup(opt Options) (func() error, error) {
	level := slog.LevelInfo
	if len(opt.Level) > 0 {
		// level not change if unmarshal failed
		if err := level.UnmarshalText([]byte(opt.Level)); err != nil {
			fmt.Println("input invalid log level, use default log level INFO")
		}
	}
	handlerOpt := &slog.HandlerOptions{AddSource: false, Level: level}

	out := opt.Output
	if out == nil {
		out = os.Stdout
	}
	handlers := []slog.Handler{newHandler(out, opt.Format, handlerOpt)}

	closeFn := func() error { return nil }
	if opt.File != "" {
		if err := os.MkdirAll(filepath.Dir(opt.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log dir: %w", err)
		}
		f, err := os.OpenFile(opt.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", opt.File, err)
		}
		// the file always gets json, it is meant for machines
		handlers = append(handlers, slog.NewJSONHandler(f, handlerOpt))
		closeFn = f.Close
	}

	var handler slog.Handler
	if len(handlers) == 1 {
		handler = handlers[0]
	} else {
		handler = slogmulti.Fanout(handlers...)
	}
	slog.SetDefault(slog.New(&ContextHandler{Handler: handler}))
	return closeFn, nil
}

func newHandler(w io.Writer, format string, opt *slog.HandlerOptions) slog.Handler {
	switch format {
	case "json":
		return slog.NewJSONHandler(w, opt)
	default:
		return slog.NewTextHandler(w, opt)
	}
}

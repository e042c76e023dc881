package slog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pwnedgod/codecable/logger"
)

type slogLogger struct {
	l *slog.Logger
}

// NewLogger adapts l. The first argument of each call becomes the message and
// the remaining arguments are joined into an "args" attribute.
func NewLogger(l *slog.Logger) logger.Logger {
	if l == nil {
		panic("slog logger can't be nil")
	}
	return &slogLogger{l: l}
}

func (l slogLogger) Info(args ...any) {
	l.log(slog.LevelInfo, args)
}

func (l slogLogger) Debug(args ...any) {
	l.log(slog.LevelDebug, args)
}

func (l slogLogger) Error(args ...any) {
	l.log(slog.LevelError, args)
}

func (l slogLogger) log(level slog.Level, args []any) {
	ctx := context.Background()
	if !l.l.Enabled(ctx, level) {
		return
	}

	var msg string
	if len(args) > 0 {
		msg = fmt.Sprint(args[0])
		args = args[1:]
	}
	if len(args) == 0 {
		l.l.Log(ctx, level, msg)
		return
	}
	l.l.Log(ctx, level, msg, slog.String("args", strings.TrimSuffix(fmt.Sprintln(args...), "\n")))
}

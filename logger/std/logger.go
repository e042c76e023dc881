package std

import (
	"fmt"
	"io"
	"os"

	"github.com/pwnedgod/codecable/logger"
)

type stdLogger struct {
	out   io.Writer
	err   io.Writer
	debug bool
}

// NewLogger logs info and debug lines to stdout and errors to stderr.
func NewLogger() logger.Logger {
	return &stdLogger{out: os.Stdout, err: os.Stderr, debug: true}
}

// NewWriterLogger logs to the given writers. Debug lines are dropped unless
// debug is set.
func NewWriterLogger(out, err io.Writer, debug bool) logger.Logger {
	return &stdLogger{out: out, err: err, debug: debug}
}

func (l stdLogger) Info(args ...any) {
	l.println(l.out, "INFO", args)
}

func (l stdLogger) Debug(args ...any) {
	if l.debug {
		l.println(l.out, "DEBUG", args)
	}
}

func (l stdLogger) Error(args ...any) {
	l.println(l.err, "ERROR", args)
}

func (l stdLogger) println(w io.Writer, level string, args []any) {
	fmt.Fprintln(w, append([]any{level}, args...)...)
}

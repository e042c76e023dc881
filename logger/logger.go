package logger

type Logger interface {
	Info(...any)
	Debug(...any)
	Error(...any)
}

type nopLogger struct{}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Info(...any)  {}
func (nopLogger) Debug(...any) {}
func (nopLogger) Error(...any) {}

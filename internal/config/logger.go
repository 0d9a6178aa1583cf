package config

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the structured logger hearth packages accept. *log.Logger from
// charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(interface{}, ...interface{}) {}
func (nopLogger) Info(interface{}, ...interface{})  {}
func (nopLogger) Warn(interface{}, ...interface{})  {}
func (nopLogger) Error(interface{}, ...interface{}) {}

// NopLogger returns a Logger that discards everything. Packages use it when
// the caller supplies none.
func NopLogger() Logger {
	return nopLogger{}
}

// NewLogger builds the CLI logger writing to w at level. HEARTH_DEBUG forces
// debug level.
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, &ValidationError{Field: "log_level", Message: err.Error()}
	}
	if os.Getenv(EnvPrefix+"_DEBUG") != "" {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "hearth",
		Level:  lvl,
	}), nil
}

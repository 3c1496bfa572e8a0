package gather

import (
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"sort"
	"sync"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// DefaultLogger writes debug and info lines to one stream and warnings and
// errors to another, each line tagged "[prefix] LEVEL:".
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewDefaultLoggerTo(prefix, debug, os.Stdout, os.Stderr)
}

// NewDefaultLoggerTo is NewDefaultLogger with explicit streams. Timestamps
// are only added for the process's own stdout/stderr.
func NewDefaultLoggerTo(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(out, "", flagsFor(out)),
		err:    log.New(errOut, "", flagsFor(errOut)),
	}
}

func flagsFor(w io.Writer) int {
	if w == os.Stdout || w == os.Stderr {
		return log.LstdFlags | log.Lmicroseconds
	}
	return 0
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) logf(level Level, format string, args ...any) {
	if level == LevelDebug && !l.DebugEnabled() {
		return
	}
	dst := l.out
	if level >= LevelWarn {
		dst = l.err
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		dst.Printf("[%s] %v: %s", l.prefix, level, msg)
		return
	}
	dst.Printf("%v: %s", level, msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

// LoggingModule installs a DefaultLogger as a world resource, replacing any
// previous one. Nil Out and Err mean stdout and stderr.
type LoggingModule struct {
	Prefix string
	Debug  bool
	Out    io.Writer
	Err    io.Writer
}

func (m LoggingModule) Install(w *World) {
	out, errOut := m.Out, m.Err
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	w.SetResource(NewDefaultLoggerTo(m.Prefix, m.Debug, out, errOut))
}

type nopLogger struct{}

func NewNopLogger() Logger                          { return nopLogger{} }
func (nopLogger) DebugEnabled() bool                { return false }
func (nopLogger) SetDebug(enabled bool)             {}
func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Infof(format string, args ...any)  {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// LoggerOf returns the world's logger and never returns nil. A DefaultLogger
// resource wins; otherwise the Logger resource whose type name sorts first
// (by package path and name) is used, so the choice does not depend on map order. With no logger at
// all it returns a no-op logger.
func LoggerOf(r WorldReader) Logger {
	if r == nil {
		return NewNopLogger()
	}
	if res, ok := r.Resource(typeOf[DefaultLogger]()); ok {
		if l, ok := res.(Logger); ok {
			return l
		}
	}
	w, ok := r.(*World)
	if !ok {
		return NewNopLogger()
	}
	var types []reflect.Type
	for t, res := range w.resources {
		if _, ok := res.(Logger); ok {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return NewNopLogger()
	}
	sort.Slice(types, func(i, j int) bool {
		return typeKey(types[i]) < typeKey(types[j])
	})
	return w.resources[types[0]].(Logger)
}

func typeKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.String()
}

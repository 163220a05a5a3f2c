package vectordb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel is the severity of a log message.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the level's name.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the structured-logging capability that pkg/catalog, pkg/filter
// and pkg/query accept via a functional option. filter.Evaluator logs
// unknown predicate operators at Debug on its own logger (spec.md §7, §9);
// pkg/index takes no logger, so chunks that Linear.Search skips for a
// dimension mismatch are not logged.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

type defaultLogger struct {
	mu       sync.Mutex
	writer   io.Writer
	minLevel LogLevel
	keyvals  []any
}

// NewLogger creates a Logger writing lines of "<ts> [<level>] kv=v ...: msg" to writer.
func NewLogger(writer io.Writer, minLevel LogLevel) Logger {
	return &defaultLogger{writer: writer, minLevel: minLevel}
}

// NewStdLogger creates a Logger writing to stdout.
func NewStdLogger(minLevel LogLevel) Logger {
	return NewLogger(os.Stdout, minLevel)
}

func (l *defaultLogger) Debug(msg string, keyvals ...any) { l.log(LevelDebug, msg, keyvals...) }
func (l *defaultLogger) Info(msg string, keyvals ...any)  { l.log(LevelInfo, msg, keyvals...) }
func (l *defaultLogger) Warn(msg string, keyvals ...any)  { l.log(LevelWarn, msg, keyvals...) }
func (l *defaultLogger) Error(msg string, keyvals ...any) { l.log(LevelError, msg, keyvals...) }

func (l *defaultLogger) With(keyvals ...any) Logger {
	merged := make([]any, 0, len(l.keyvals)+len(keyvals))
	merged = append(merged, l.keyvals...)
	merged = append(merged, keyvals...)
	return &defaultLogger{writer: l.writer, minLevel: l.minLevel, keyvals: merged}
}

func (l *defaultLogger) log(level LogLevel, msg string, keyvals ...any) {
	if level < l.minLevel {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.writer, "%s [%s]", time.Now().Format("2006-01-02 15:04:05.000"), level)
	for i := 0; i+1 < len(l.keyvals); i += 2 {
		fmt.Fprintf(l.writer, " %v=%v", l.keyvals[i], l.keyvals[i+1])
	}
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(l.writer, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintf(l.writer, ": %s\n", msg)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)      {}
func (nopLogger) Info(string, ...any)       {}
func (nopLogger) Warn(string, ...any)       {}
func (nopLogger) Error(string, ...any)      {}
func (nopLogger) With(...any) Logger        { return nopLogger{} }

// NopLogger returns a Logger that discards everything. It is the default
// for every constructor in this module.
func NopLogger() Logger { return nopLogger{} }

// levelForKind maps an error Kind to the severity at which catalog/index/
// query callers should report it. NotFound/ParentMissing/AlreadyExists/
// Validation/UnknownVariant/EmptyQuery/DimensionMismatch/InvalidMetric are
// rejected requests, not operational faults, so they log at Warn;
// anything that reaches LogError without a *Error (a bug, not a modeled
// failure) logs at Error.
func levelForKind(k Kind) LogLevel {
	switch k {
	case KindNotFound, KindParentMissing, KindAlreadyExists, KindValidation,
		KindUnknownVariant, KindEmptyQuery, KindDimensionMismatch,
		KindInvalidMetric, KindEmbeddingUnavailable:
		return LevelWarn
	default:
		return LevelError
	}
}

// LogError reports err on l at the severity its Kind implies (see
// levelForKind), tagging the log line with "op" and "kind" fields so a
// NotFound from catalog.DeleteChunk reads differently from one bubbling up
// through query.Engine.Search. Errors that aren't *Error — a case this
// module's own code never produces, but a caller's wrapped error might —
// log at Error with no kind field. A no-op when err is nil.
func LogError(l Logger, err error) {
	if err == nil {
		return
	}
	var e *Error
	if errors.As(err, &e) {
		entry := l.With("op", e.Op, "kind", e.Kind.String())
		if levelForKind(e.Kind) == LevelWarn {
			entry.Warn(e.Error())
		} else {
			entry.Error(e.Error())
		}
		return
	}
	l.Error(err.Error())
}

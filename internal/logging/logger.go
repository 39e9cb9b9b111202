// Package logging is a small leveled logger with key/value pairs.
//
// Output goes through a standard log.Logger, normally on stderr because
// stdout carries the MCP protocol. Level tags are colored with fatih/color
// when the destination is a terminal.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level orders log messages by severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

// ParseLevel parses "debug", "info", "warn" (or "warning") and "error",
// ignoring case. An empty string is LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger writes leveled messages. A nil *Logger discards everything.
type Logger struct {
	level  atomic.Int32
	logger *log.Logger
	tags   map[Level]string
}

// New returns a logger writing to w at the given minimum level. Level tags
// are colored when colored is true.
func New(w io.Writer, level Level, colored bool) *Logger {
	l := &Logger{
		logger: log.New(w, "", log.Ldate|log.Ltime),
		tags:   make(map[Level]string, len(levelNames)),
	}
	l.level.Store(int32(level))

	attrs := map[Level]color.Attribute{
		LevelDebug: color.FgCyan,
		LevelInfo:  color.FgGreen,
		LevelWarn:  color.FgYellow,
		LevelError: color.FgRed,
	}
	for lvl, name := range levelNames {
		c := color.New(attrs[lvl])
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		l.tags[lvl] = c.Sprint("[" + name + "]")
	}
	return l
}

// Stderr returns a logger on os.Stderr, colored when stderr is a terminal
// and noColor is false.
func Stderr(level Level, noColor bool) *Logger {
	colored := !noColor && isatty.IsTerminal(os.Stderr.Fd())
	return New(os.Stderr, level, colored)
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, LevelError+1, false)
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.level.Store(int32(level))
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && int32(level) >= l.level.Load()
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.log(LevelDebug, msg, keysAndValues)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.log(LevelInfo, msg, keysAndValues)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.log(LevelWarn, msg, keysAndValues)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.log(LevelError, msg, keysAndValues)
}

func (l *Logger) log(level Level, msg string, keysAndValues []any) {
	if !l.Enabled(level) {
		return
	}

	var sb strings.Builder
	sb.WriteString(l.tags[level])
	sb.WriteByte(' ')
	sb.WriteString(msg)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&sb, " %v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&sb, " %v=?", keysAndValues[i])
		}
	}
	l.logger.Print(sb.String())
}

package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Level is the minimum severity the package logger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	logMu     sync.Mutex
	logLevel            = LevelInfo
	logOut    io.Writer = os.Stderr
	logColors           = IsTerminal(os.Stderr.Fd())
)

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// SetLevel sets the minimum level to display.
func SetLevel(l Level) {
	logMu.Lock()
	logLevel = l
	logMu.Unlock()
}

// SetDebug enables debug output.
func SetDebug(debug bool) {
	if debug {
		SetLevel(LevelDebug)
	}
}

// SetOutput redirects log output. Colors are only kept for terminals.
func SetOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	logOut = w
	logColors = false
	if f, ok := w.(*os.File); ok {
		logColors = IsTerminal(f.Fd())
	}
}

func logf(l Level, color, tag, format string, args ...any) {
	logMu.Lock()
	defer logMu.Unlock()
	if l < logLevel {
		return
	}
	ts := time.Now().Format("15:04:05")
	if logColors {
		ts = color + ts + "\033[0m"
	}
	fmt.Fprintf(logOut, "%s %s %s\n", ts, tag, fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...any) { logf(LevelDebug, "\033[90m", "[DEBUG]", format, args...) }
func Infof(format string, args ...any)  { logf(LevelInfo, "\033[36m", "[INFO] ", format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarn, "\033[33m", "[WARN] ", format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, "\033[31m", "[ERROR]", format, args...) }

// Successf logs at info level with an OK tag.
func Successf(format string, args ...any) { logf(LevelInfo, "\033[32m", "[OK]   ", format, args...) }

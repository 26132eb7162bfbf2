// Package logger provides namespaced debug logging controlled by the DEBUG
// environment variable.
//
// Loggers are created per file with a "package:file" namespace and stay silent
// unless DEBUG matches that namespace:
//
//	DEBUG=*                     enable everything
//	DEBUG=tracker:*             enable one package
//	DEBUG=tracker:*,cli:*       enable several packages
//	DEBUG=*,-webhook:server     enable everything except one logger
//
// Output goes to stderr, prefixed with the namespace and suffixed with the
// time elapsed since the previous message of the same logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Logger writes debug messages for a single namespace.
type Logger struct {
	namespace string
	enabled   bool
	color     string

	mu   sync.Mutex
	last time.Time
}

var (
	output   io.Writer = os.Stderr
	outputMu sync.Mutex

	useColors = term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == ""
)

// palette mirrors the small set of ANSI colours used to tell namespaces apart.
var palette = []string{"\033[36m", "\033[32m", "\033[33m", "\033[35m", "\033[34m", "\033[31m"}

// New creates a logger for namespace. Whether it is enabled is decided once,
// from the DEBUG value at construction time.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   isEnabled(namespace, os.Getenv("DEBUG")),
		color:     palette[hash(namespace)%uint32(len(palette))],
	}
}

// Enabled reports whether the logger emits output.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf formats like fmt.Printf.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprintf(format, args...))
}

// Print concatenates its arguments like fmt.Sprint.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprint(args...))
}

func (l *Logger) write(msg string) {
	l.mu.Lock()
	now := time.Now()
	var elapsed time.Duration
	if !l.last.IsZero() {
		elapsed = now.Sub(l.last)
	}
	l.last = now
	l.mu.Unlock()

	var line string
	if useColors {
		line = fmt.Sprintf("%s%s\033[0m %s %s+%s\033[0m\n", l.color, l.namespace, msg, l.color, formatElapsed(elapsed))
	} else {
		line = fmt.Sprintf("%s %s +%s\n", l.namespace, msg, formatElapsed(elapsed))
	}

	outputMu.Lock()
	defer outputMu.Unlock()
	_, _ = io.WriteString(output, line)
}

func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.Round(time.Millisecond).String()
	}
}

// isEnabled evaluates a DEBUG pattern list against a namespace. Exclusions
// (patterns starting with '-') win over inclusions.
func isEnabled(namespace, patterns string) bool {
	if patterns == "" {
		return false
	}
	enabled := false
	for _, p := range strings.Split(patterns, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "-") {
			if matchPattern(namespace, p[1:]) {
				return false
			}
			continue
		}
		if matchPattern(namespace, p) {
			enabled = true
		}
	}
	return enabled
}

func matchPattern(namespace, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(namespace, prefix)
	}
	return namespace == pattern
}

// hash is FNV-1a; only used to pick a stable colour.
func hash(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

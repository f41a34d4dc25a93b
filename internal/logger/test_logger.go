package logger

import (
	"fmt"
	"strings"
	"sync"
)

type Entry struct {
	Level   string
	Message string
	Fields  Fields
}

// TestLogger records entries in memory so tests can assert on them.
type TestLogger struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  Fields
}

func NewTestLogger() *TestLogger {
	return &TestLogger{
		mu:      &sync.Mutex{},
		entries: &[]Entry{},
		fields:  Fields{},
	}
}

func (l *TestLogger) log(level string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(Fields, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	*l.entries = append(*l.entries, Entry{
		Level:   level,
		Message: fmt.Sprint(args...),
		Fields:  fields,
	})
}

func (l *TestLogger) Trace(args ...any) { l.log("trace", args...) }
func (l *TestLogger) Debug(args ...any) { l.log("debug", args...) }
func (l *TestLogger) Info(args ...any)  { l.log("info", args...) }
func (l *TestLogger) Warn(args ...any)  { l.log("warn", args...) }
func (l *TestLogger) Error(args ...any) { l.log("error", args...) }
func (l *TestLogger) Fatal(args ...any) { l.log("fatal", args...) }

func (l *TestLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{mu: l.mu, entries: l.entries, fields: merged}
}

func (l *TestLogger) WithField(key string, value any) Logger {
	return l.WithFields(Fields{key: value})
}

func (l *TestLogger) WithError(err error) Logger {
	return l.WithFields(Fields{"error": err})
}

func (l *TestLogger) GetEntries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(*l.entries))
	copy(out, *l.entries)
	return out
}

// HasEntry reports whether an entry of level contains msg.
func (l *TestLogger) HasEntry(level, msg string) bool {
	for _, e := range l.GetEntries() {
		if e.Level == level && strings.Contains(e.Message, msg) {
			return true
		}
	}
	return false
}
